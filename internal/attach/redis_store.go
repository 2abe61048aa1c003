package attach

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"clipforge/internal/domain"
)

// RedisStore keeps buffered attachments in Redis so uploads survive process
// restarts and are visible across replicas. TTL eviction is native; capacity
// is left to Redis memory policy.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisStore{client: client, ttl: ttl}
}

// TTL returns the configured entry lifetime.
func (s *RedisStore) TTL() time.Duration {
	return s.ttl
}

func attachKey(key string) string {
	return "attach:" + key
}

func (s *RedisStore) Put(ctx context.Context, b Buffered) (string, error) {
	key := uuid.NewString()
	fields := map[string]any{
		"kind": string(b.Kind),
		"mime": b.MIME,
		"data": b.Data,
	}
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, attachKey(key), fields)
	pipe.Expire(ctx, attachKey(key), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return key, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (Buffered, bool) {
	values, err := s.client.HGetAll(ctx, attachKey(key)).Result()
	if err != nil || len(values) == 0 {
		return Buffered{}, false
	}
	return Buffered{
		Kind: domain.AttachmentKind(values["kind"]),
		MIME: values["mime"],
		Data: []byte(values["data"]),
	}, true
}

func (s *RedisStore) Delete(ctx context.Context, key string) {
	s.client.Del(ctx, attachKey(key))
}

var _ Store = (*RedisStore)(nil)
