package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"clipforge/internal/chain"
	"clipforge/internal/domain"
	"clipforge/internal/faults"
	"clipforge/internal/infra"
	"clipforge/internal/storage"
)

// Placer writes a retrieved clip into the object store and, when the
// request is attributable to an owner, records it permanently. Anonymous
// results are stored under a reclaimable prefix with a short-lived link and
// never recorded.
type Placer struct {
	store        storage.Gateway
	repo         domain.ArtifactRepository
	permanentTTL time.Duration
	ephemeralTTL time.Duration
	logger       infra.Logger
	now          func() time.Time
}

func NewPlacer(store storage.Gateway, repo domain.ArtifactRepository, permanentTTL, ephemeralTTL time.Duration, logger infra.Logger) *Placer {
	return &Placer{
		store:        store,
		repo:         repo,
		permanentTTL: permanentTTL,
		ephemeralTTL: ephemeralTTL,
		logger:       logger,
		now:          time.Now,
	}
}

// Place stores the clip bytes and returns the finished artifact. Any
// storage or record failure is fatal for the generation; the clip is not
// considered delivered until it is addressable.
func (p *Placer) Place(ctx context.Context, data []byte, contentType string, ownerID string, payload *domain.GenerationPayload) (*domain.Artifact, error) {
	id := uuid.New()
	temporary := ownerID == ""

	key := fmt.Sprintf("clips/%s%s", id, extensionFor(contentType))
	if ownerID != "" {
		key = fmt.Sprintf("clips/%s/%s%s", ownerID, id, extensionFor(contentType))
	}

	storedKey, err := p.store.Upload(ctx, key, data, contentType, temporary)
	if err != nil {
		return nil, faults.WithKind(fmt.Errorf("upload artifact: %w", err), faults.Upload)
	}

	ttl := p.permanentTTL
	if temporary {
		ttl = p.ephemeralTTL
	}
	url, err := p.store.SignedURL(ctx, storedKey, ttl)
	if err != nil {
		return nil, faults.WithKind(fmt.Errorf("sign artifact url: %w", err), faults.Upload)
	}

	artifact := &domain.Artifact{
		ID:          id,
		OwnerID:     ownerID,
		URI:         storedKey,
		DownloadURL: url,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		Status:      domain.ArtifactStatusReady,
		IsTemporary: temporary,
		Prompt:      payload.Prompt,
		Model:       payload.Model.ID,
		Duration:    payload.Duration,
		CreatedAt:   p.now().UTC(),
		UpdatedAt:   p.now().UTC(),
	}
	if temporary {
		expires := p.now().UTC().Add(p.ephemeralTTL)
		artifact.ExpiresAt = &expires
	}

	if payload.ParentID != nil {
		order, err := chain.Resolve(ctx, p.repo, *payload.ParentID, payload.Side)
		if err != nil {
			return nil, err
		}
		artifact.ChainOrder = order
		// A resolved order of zero means the parent record is gone;
		// the clip roots a fresh chain instead of dangling.
		if order != 0 {
			parent := *payload.ParentID
			artifact.ParentID = &parent
		}
	}

	if temporary {
		p.logger.Info().Str("key", storedKey).Msg("ephemeral artifact placed")
		return artifact, nil
	}

	stored, err := p.repo.Insert(ctx, artifact)
	if err != nil {
		return nil, fmt.Errorf("record artifact: %w", err)
	}
	p.logger.Info().Str("artifact_id", stored.ID.String()).Str("owner_id", ownerID).Msg("artifact recorded")
	return stored, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "video/webm":
		return ".webm"
	case "video/quicktime":
		return ".mov"
	default:
		return ".mp4"
	}
}
