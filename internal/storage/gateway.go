// Package storage abstracts the object store backing generated artifacts.
package storage

import (
	"context"
	"time"
)

// Gateway is the contract the orchestrator needs from an object store:
// upload bytes, issue a time-bounded access URL, and fetch bytes back.
type Gateway interface {
	// Upload persists the object and returns its canonical storage key.
	// Temporary objects are placed so that backend lifecycle policy can
	// reclaim them after their TTL.
	Upload(ctx context.Context, key string, data []byte, contentType string, temporary bool) (string, error)
	// SignedURL issues an access URL valid for the given duration.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	// Fetch reads the object bytes back.
	Fetch(ctx context.Context, key string) ([]byte, error)
}
