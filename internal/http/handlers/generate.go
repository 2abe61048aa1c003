package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"clipforge/internal/domain"
	"clipforge/internal/middleware"
	"clipforge/internal/stream"
)

// Generate starts a generation and streams its progress as Server-Sent
// Events. Validation failures are reported as a plain JSON error before the
// stream opens; once the stream is open every outcome arrives as an event.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.UserIDFromContext(r.Context())

	var req domain.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_request", "invalid payload")
		return
	}

	payload, err := a.Prep.Prepare(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest),
			errors.Is(err, domain.ErrAttachmentEmpty),
			errors.Is(err, domain.ErrAttachmentLarge),
			errors.Is(err, domain.ErrNotFound):
			a.error(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			a.fault(w, err)
		}
		return
	}

	generationID := uuid.NewString()
	w.Header().Set("X-Generation-ID", generationID)

	sink, err := stream.NewSSE(w)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "unknown_error", "streaming unsupported")
		return
	}

	ctx := r.Context()
	done := make(chan struct{})
	if err := a.Workers.Submit(func() {
		defer close(done)
		a.Mux.Stream(ctx, generationID, ownerID, payload, sink)
	}); err != nil {
		a.Logger.Warn().Err(err).Msg("worker pool rejected generation")
		_ = sink.Send(domain.ErrorEvent("quota_exceeded", http.StatusTooManyRequests, "server is at capacity, retry shortly"))
		return
	}
	<-done
}
