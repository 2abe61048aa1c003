package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"clipforge/internal/domain"
)

// DB is the slice of pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
}

// ArtifactRepositoryPG implements domain.ArtifactRepository using PostgreSQL.
type ArtifactRepositoryPG struct {
	pool DB
}

// NewArtifactRepository constructs a new artifact repository instance.
func NewArtifactRepository(pool DB) *ArtifactRepositoryPG {
	return &ArtifactRepositoryPG{pool: pool}
}

// Insert persists a new artifact record and returns the stored row.
func (r *ArtifactRepositoryPG) Insert(ctx context.Context, artifact *domain.Artifact) (*domain.Artifact, error) {
	query := `
INSERT INTO artifacts (id, owner_id, uri, download_url, content_type, size_bytes, status, is_temporary, expires_at, parent_id, chain_order, prompt, model, duration_seconds)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING created_at, updated_at;
`
	stored := *artifact
	err := r.pool.QueryRow(ctx, query,
		artifact.ID,
		artifact.OwnerID,
		artifact.URI,
		artifact.DownloadURL,
		artifact.ContentType,
		artifact.SizeBytes,
		artifact.Status,
		artifact.IsTemporary,
		artifact.ExpiresAt,
		artifact.ParentID,
		artifact.ChainOrder,
		artifact.Prompt,
		artifact.Model,
		artifact.Duration,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetByID fetches an artifact by its identifier.
func (r *ArtifactRepositoryPG) GetByID(ctx context.Context, id uuid.UUID) (*domain.Artifact, error) {
	query := `
SELECT id, owner_id, uri, download_url, content_type, size_bytes, status, is_temporary, expires_at, parent_id, chain_order, prompt, model, duration_seconds, created_at, updated_at
FROM artifacts
WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, query, id)
	artifact, err := scanArtifact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return artifact, nil
}

// ParentExists reports whether an artifact row with the given id exists.
func (r *ArtifactRepositoryPG) ParentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM artifacts WHERE id = $1);`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// ExtremeChainOrder returns the extreme chain_order among siblings sharing
// the parent on the requested side: maximum for end, minimum for start.
func (r *ArtifactRepositoryPG) ExtremeChainOrder(ctx context.Context, parentID uuid.UUID, side domain.ExtendSide) (int, bool, error) {
	query := `
SELECT MAX(chain_order)
FROM artifacts
WHERE parent_id = $1 AND chain_order > 0;
`
	if side == domain.ExtendStart {
		query = `
SELECT MIN(chain_order)
FROM artifacts
WHERE parent_id = $1 AND chain_order < 0;
`
	}
	var extreme *int
	if err := r.pool.QueryRow(ctx, query, parentID).Scan(&extreme); err != nil {
		return 0, false, err
	}
	if extreme == nil {
		return 0, false, nil
	}
	return *extreme, true, nil
}

// ListChain returns the root artifact and every extension sharing it as
// parent, ordered by chain position.
func (r *ArtifactRepositoryPG) ListChain(ctx context.Context, rootID uuid.UUID) ([]domain.Artifact, error) {
	query := `
SELECT id, owner_id, uri, download_url, content_type, size_bytes, status, is_temporary, expires_at, parent_id, chain_order, prompt, model, duration_seconds, created_at, updated_at
FROM artifacts
WHERE id = $1 OR parent_id = $1
ORDER BY chain_order ASC;
`
	rows, err := r.pool.Query(ctx, query, rootID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artifacts []domain.Artifact
	for rows.Next() {
		artifact, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, *artifact)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func scanArtifact(row pgx.Row) (*domain.Artifact, error) {
	var artifact domain.Artifact
	if err := row.Scan(
		&artifact.ID,
		&artifact.OwnerID,
		&artifact.URI,
		&artifact.DownloadURL,
		&artifact.ContentType,
		&artifact.SizeBytes,
		&artifact.Status,
		&artifact.IsTemporary,
		&artifact.ExpiresAt,
		&artifact.ParentID,
		&artifact.ChainOrder,
		&artifact.Prompt,
		&artifact.Model,
		&artifact.Duration,
		&artifact.CreatedAt,
		&artifact.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &artifact, nil
}

var _ domain.ArtifactRepository = (*ArtifactRepositoryPG)(nil)
