package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// CancelGeneration flags a running generation for cancellation. The flag is
// observed at the next poll boundary, so the response is an acknowledgement
// rather than a completion.
func (a *App) CancelGeneration(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		a.error(w, http.StatusBadRequest, "invalid_request", "generation id required")
		return
	}
	if err := a.Cancels.Set(r.Context(), id); err != nil {
		a.Logger.Error().Err(err).Str("generation_id", id).Msg("set cancel flag")
		a.fault(w, err)
		return
	}
	a.json(w, http.StatusAccepted, map[string]string{"id": id, "status": "cancelling"})
}
