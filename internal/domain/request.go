package domain

import "github.com/google/uuid"

// AttachmentKind enumerates supported seed attachment types.
type AttachmentKind string

const (
	AttachmentKindImage AttachmentKind = "image"
	AttachmentKindAudio AttachmentKind = "audio"
	AttachmentKindVideo AttachmentKind = "video"
)

// ExtendSide names the side of a chain a new clip extends.
type ExtendSide string

const (
	ExtendStart ExtendSide = "start"
	ExtendEnd   ExtendSide = "end"
)

// Attachment locates an inbound seed attachment. Exactly one of BufferKey
// (a pointer into the in-process attachment buffer) or RemoteURL must be set.
type Attachment struct {
	Kind      AttachmentKind `json:"kind"`
	BufferKey string         `json:"bufferKey,omitempty"`
	RemoteURL string         `json:"remoteUrl,omitempty"`
	MIME      string         `json:"mimeType,omitempty"`
}

// GenerationRequest is the immutable caller input for one generation.
type GenerationRequest struct {
	Prompt     string      `json:"prompt"`
	Attachment *Attachment `json:"attachment,omitempty"`
	Model      string      `json:"model,omitempty"`
	Duration   int         `json:"durationSeconds,omitempty"`
	ParentID   *uuid.UUID  `json:"parentId,omitempty"`
	Side       ExtendSide  `json:"side,omitempty"`
}

// GenerationPayload is the validated output of the attachment preprocessor,
// ready for submission to the generation service. SeedData carries the raw
// attachment bytes when a seed is present.
type GenerationPayload struct {
	Prompt   string
	Model    Model
	Duration int
	SeedKind AttachmentKind
	SeedMIME string
	SeedData []byte
	ParentID *uuid.UUID
	Side     ExtendSide
}

// HasSeed reports whether the payload carries seed media.
func (p *GenerationPayload) HasSeed() bool {
	return len(p.SeedData) > 0
}
