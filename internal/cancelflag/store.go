// Package cancelflag tracks out-of-band cancellation requests for running
// generations. The controller checks the flag at the top of each poll
// iteration.
package cancelflag

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store records and reports cancellation requests keyed by generation ID.
type Store interface {
	Set(ctx context.Context, generationID string) error
	Cancelled(ctx context.Context, generationID string) bool
}

// RedisStore keeps flags in Redis so cancellation works across replicas.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a RedisStore. Flags expire after ttl so abandoned
// generations do not accumulate keys.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func flagKey(generationID string) string {
	return "cancel:generation:" + generationID
}

// Set marks the generation as cancelled.
func (s *RedisStore) Set(ctx context.Context, generationID string) error {
	return s.client.Set(ctx, flagKey(generationID), "1", s.ttl).Err()
}

// Cancelled reports whether a cancellation was requested. Lookup errors read
// as not-cancelled; the poll loop will see the flag on its next tick once
// Redis recovers.
func (s *RedisStore) Cancelled(ctx context.Context, generationID string) bool {
	n, err := s.client.Exists(ctx, flagKey(generationID)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// MemoryStore is an in-process Store for development and tests.
type MemoryStore struct {
	mu    sync.Mutex
	flags map[string]struct{}
}

// NewMemoryStore builds an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{flags: make(map[string]struct{})}
}

// Set marks the generation as cancelled.
func (s *MemoryStore) Set(ctx context.Context, generationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[generationID] = struct{}{}
	return nil
}

// Cancelled reports whether a cancellation was requested.
func (s *MemoryStore) Cancelled(ctx context.Context, generationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.flags[generationID]
	return ok
}

var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
