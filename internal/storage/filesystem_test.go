package storage

import (
	"context"
	"strings"
	"testing"
	"time"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), "http://localhost:8080/static", "test-secret")
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	return store
}

func TestFileStoreUploadFetchRoundTrip(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	key, err := store.Upload(ctx, "clips/a/b.mp4", []byte("video-bytes"), "video/mp4", false)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if key != "clips/a/b.mp4" {
		t.Fatalf("key = %q", key)
	}

	data, err := store.Fetch(ctx, key)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if string(data) != "video-bytes" {
		t.Fatalf("Fetch returned %q", data)
	}
}

func TestFileStoreTemporaryPrefix(t *testing.T) {
	store := newTestFileStore(t)

	key, err := store.Upload(context.Background(), "clips/tmp.mp4", []byte("x"), "video/mp4", true)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if !strings.HasPrefix(key, "ephemeral/") {
		t.Fatalf("temporary key = %q, want ephemeral/ prefix", key)
	}
}

func TestFileStoreSignedURLCarriesExpiry(t *testing.T) {
	store := newTestFileStore(t)
	fixed := time.Unix(1700000000, 0)
	store.now = func() time.Time { return fixed }

	url, err := store.SignedURL(context.Background(), "clips/a.mp4", 30*time.Minute)
	if err != nil {
		t.Fatalf("SignedURL returned error: %v", err)
	}
	if !strings.Contains(url, "expires=1700001800") {
		t.Fatalf("url missing expiry: %s", url)
	}
	if !strings.Contains(url, "sig=") {
		t.Fatalf("url missing signature: %s", url)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store := newTestFileStore(t)

	if _, err := store.Upload(context.Background(), "../escape.mp4", []byte("x"), "video/mp4", false); err == nil {
		t.Fatal("Upload accepted a traversal key")
	}
}
