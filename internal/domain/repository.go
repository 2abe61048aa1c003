package domain

import (
	"context"

	"github.com/google/uuid"
)

// ArtifactRepository defines persistence for generated artifacts. The
// orchestrator treats each write as atomic-or-failed; transactional
// discipline is the backend's concern.
type ArtifactRepository interface {
	Insert(ctx context.Context, artifact *Artifact) (*Artifact, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Artifact, error)
	ParentExists(ctx context.Context, id uuid.UUID) (bool, error)
	// ExtremeChainOrder returns the maximum (side=end) or minimum
	// (side=start) chain_order among artifacts sharing the parent, and
	// whether any such sibling exists.
	ExtremeChainOrder(ctx context.Context, parentID uuid.UUID, side ExtendSide) (int, bool, error)
	ListChain(ctx context.Context, rootID uuid.UUID) ([]Artifact, error)
}
