// Package chain computes relative ordering for artifacts that extend an
// existing clip.
package chain

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"clipforge/internal/domain"
)

// Siblings is the slice of the record store the resolver needs.
type Siblings interface {
	ParentExists(ctx context.Context, id uuid.UUID) (bool, error)
	ExtremeChainOrder(ctx context.Context, parentID uuid.UUID, side domain.ExtendSide) (int, bool, error)
}

// Resolve computes the chain order for a new artifact extending parentID on
// the given side. The original artifact sits at an implicit 0; appended
// clips count up from the chain's maximum, prepended clips count down from
// its minimum. A missing parent record starts a fresh chain at 0. Ties are
// impossible: order assignment is monotonic and serialized per request.
func Resolve(ctx context.Context, siblings Siblings, parentID uuid.UUID, side domain.ExtendSide) (int, error) {
	exists, err := siblings.ParentExists(ctx, parentID)
	if err != nil {
		return 0, fmt.Errorf("chain: lookup parent: %w", err)
	}
	if !exists {
		return 0, nil
	}

	extreme, found, err := siblings.ExtremeChainOrder(ctx, parentID, side)
	if err != nil {
		return 0, fmt.Errorf("chain: lookup siblings: %w", err)
	}

	if side == domain.ExtendStart {
		if !found {
			return -1, nil
		}
		return extreme - 1, nil
	}
	if !found {
		return 1, nil
	}
	return extreme + 1, nil
}
