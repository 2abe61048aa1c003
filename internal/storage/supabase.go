package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseStore implements Gateway against a Supabase storage bucket.
// Temporary objects live under an "ephemeral/" prefix; reclaiming them after
// their TTL is delegated to bucket lifecycle policy.
type SupabaseStore struct {
	client *storage_go.Client
	bucket string
}

// NewSupabaseStore builds a store against the project's storage API.
func NewSupabaseStore(projectURL, serviceKey, bucket string) (*SupabaseStore, error) {
	projectURL = strings.TrimRight(strings.TrimSpace(projectURL), "/")
	if projectURL == "" || serviceKey == "" {
		return nil, fmt.Errorf("storage: supabase url and service key are required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("storage: bucket is required")
	}
	client := storage_go.NewClient(projectURL+"/storage/v1", serviceKey, nil)
	return &SupabaseStore{client: client, bucket: bucket}, nil
}

// Upload writes the object into the bucket and returns the canonical key.
func (s *SupabaseStore) Upload(ctx context.Context, key string, data []byte, contentType string, temporary bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if temporary {
		key = "ephemeral/" + strings.TrimPrefix(key, "ephemeral/")
	}
	upsert := true
	_, err := s.client.UploadFile(s.bucket, key, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("storage: upload %s: %w", key, err)
	}
	return key, nil
}

// SignedURL issues a signed access URL valid for the given duration.
func (s *SupabaseStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resp, err := s.client.CreateSignedUrl(s.bucket, key, int(ttl.Seconds()))
	if err != nil {
		return "", fmt.Errorf("storage: sign %s: %w", key, err)
	}
	return resp.SignedURL, nil
}

// Fetch reads the object bytes back from the bucket.
func (s *SupabaseStore) Fetch(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.client.DownloadFile(s.bucket, key)
	if err != nil {
		return nil, fmt.Errorf("storage: fetch %s: %w", key, err)
	}
	return data, nil
}

var _ Gateway = (*SupabaseStore)(nil)
