package domain

import (
	"time"

	"github.com/google/uuid"
)

// ArtifactStatus enumerates artifact lifecycle states.
type ArtifactStatus string

const (
	ArtifactStatusProcessing ArtifactStatus = "processing"
	ArtifactStatusReady      ArtifactStatus = "ready"
	ArtifactStatusFailed     ArtifactStatus = "failed"
)

// Artifact represents a generated clip after retrieval from the generation
// service. It is always backed by an object in storage; it is persisted to
// the record store only when the request was attributable to an owner.
type Artifact struct {
	ID          uuid.UUID      `json:"id"`
	OwnerID     string         `json:"ownerId,omitempty"`
	URI         string         `json:"uri"`
	DownloadURL string         `json:"downloadUri,omitempty"`
	ContentType string         `json:"contentType"`
	SizeBytes   int64          `json:"sizeBytes"`
	Status      ArtifactStatus `json:"status"`
	IsTemporary bool           `json:"isTemporary"`
	ExpiresAt   *time.Time     `json:"expiresAt,omitempty"`
	ParentID    *uuid.UUID     `json:"parentId,omitempty"`
	ChainOrder  int            `json:"chainOrder"`
	Prompt      string         `json:"prompt,omitempty"`
	Model       string         `json:"model,omitempty"`
	Duration    int            `json:"durationSeconds,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
