// Package attach buffers inbound seed attachments and prepares generation
// payloads from caller requests.
package attach

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"clipforge/internal/domain"
)

// Buffered is one attachment held in the buffer.
type Buffered struct {
	Kind     domain.AttachmentKind
	MIME     string
	Data     []byte
	StoredAt time.Time
}

// Store holds seed attachments between upload and generation. Entries are
// evicted when they exceed the TTL or when capacity is reached (oldest
// first).
type Store interface {
	Put(ctx context.Context, b Buffered) (string, error)
	Get(ctx context.Context, key string) (Buffered, bool)
	Delete(ctx context.Context, key string)
}

// MemoryStore is a bounded, TTL-evicting in-memory Store.
type MemoryStore struct {
	mu       sync.Mutex
	entries  map[string]Buffered
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a MemoryStore with the given capacity and TTL.
func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	if capacity <= 0 {
		capacity = 64
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &MemoryStore{
		entries:  make(map[string]Buffered, capacity),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// TTL returns the configured entry lifetime.
func (s *MemoryStore) TTL() time.Duration {
	return s.ttl
}

// Put stores the attachment and returns its opaque key.
func (s *MemoryStore) Put(ctx context.Context, b Buffered) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := uuid.NewString()
	b.StoredAt = s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	for len(s.entries) >= s.capacity {
		s.evictOldestLocked()
	}
	s.entries[key] = b
	return key, nil
}

// Get returns the attachment for the key, if present and unexpired.
func (s *MemoryStore) Get(ctx context.Context, key string) (Buffered, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.entries[key]
	if !ok {
		return Buffered{}, false
	}
	if s.now().Sub(b.StoredAt) > s.ttl {
		delete(s.entries, key)
		return Buffered{}, false
	}
	return b, true
}

// Delete removes the attachment for the key.
func (s *MemoryStore) Delete(ctx context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

func (s *MemoryStore) sweepLocked() {
	cutoff := s.now().Add(-s.ttl)
	for key, b := range s.entries {
		if b.StoredAt.Before(cutoff) {
			delete(s.entries, key)
		}
	}
}

func (s *MemoryStore) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for key, b := range s.entries {
		if oldestKey == "" || b.StoredAt.Before(oldest) {
			oldestKey = key
			oldest = b.StoredAt
		}
	}
	if oldestKey != "" {
		delete(s.entries, oldestKey)
	}
}

var _ Store = (*MemoryStore)(nil)
