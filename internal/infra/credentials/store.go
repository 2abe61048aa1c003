// Package credentials stores third-party API tokens in the database so a
// deployment can rotate them without a restart. Environment variables take
// precedence; the store is the fallback.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	ProviderMotion     = "motion"
	ProviderTranscribe = "transcribe"
)

// Executor is the slice of pgxpool.Pool the store needs.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
}

type Store struct {
	db Executor
}

func NewStore(db Executor) *Store {
	return &Store{db: db}
}

const selectTokenQuery = `
SELECT token FROM integration_tokens WHERE provider = $1;
`

const upsertTokenQuery = `
INSERT INTO integration_tokens (provider, token, props, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (provider) DO UPDATE SET token = EXCLUDED.token, props = EXCLUDED.props, updated_at = NOW();
`

func (s *Store) MotionAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderMotion)
}

func (s *Store) TranscribeAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderTranscribe)
}

// Token returns the stored token for a provider, or empty when none is set.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	var token string
	if err := s.db.QueryRow(ctx, selectTokenQuery, provider).Scan(&token); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

func (s *Store) SetMotionAPIKey(ctx context.Context, key string) error {
	return s.SetToken(ctx, ProviderMotion, key)
}

func (s *Store) SetTranscribeAPIKey(ctx context.Context, key string) error {
	return s.SetToken(ctx, ProviderTranscribe, key)
}

func (s *Store) SetToken(ctx context.Context, provider, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("credentials: token is required")
	}
	raw, err := json.Marshal(map[string]any{})
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, upsertTokenQuery, provider, token, raw)
	return err
}
