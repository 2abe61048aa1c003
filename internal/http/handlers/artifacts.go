package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"clipforge/internal/domain"
	"clipforge/internal/middleware"
)

// GetArtifact returns one recorded artifact owned by the caller. Artifacts
// belonging to someone else read as not found.
func (a *App) GetArtifact(w http.ResponseWriter, r *http.Request) {
	artifact, ok := a.ownedArtifact(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, artifact)
}

// GetArtifactChain returns the artifact together with every clip extending
// it, ordered by chain position (prepends first, root at zero).
func (a *App) GetArtifactChain(w http.ResponseWriter, r *http.Request) {
	artifact, ok := a.ownedArtifact(w, r)
	if !ok {
		return
	}

	rootID := artifact.ID
	if artifact.ParentID != nil {
		rootID = *artifact.ParentID
	}
	chain, err := a.Repo.ListChain(r.Context(), rootID)
	if err != nil {
		a.Logger.Error().Err(err).Str("artifact_id", artifact.ID.String()).Msg("list chain")
		a.fault(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"artifacts": chain})
}

func (a *App) ownedArtifact(w http.ResponseWriter, r *http.Request) (*domain.Artifact, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid_request", "invalid artifact id")
		return nil, false
	}

	artifact, err := a.Repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "artifact not found")
			return nil, false
		}
		a.fault(w, err)
		return nil, false
	}

	if artifact.OwnerID != middleware.UserIDFromContext(r.Context()) {
		a.error(w, http.StatusNotFound, "not_found", "artifact not found")
		return nil, false
	}
	return artifact, true
}
