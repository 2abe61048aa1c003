// Package handlers implements the HTTP surface of the service.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/panjf2000/ants/v2"

	"clipforge/internal/attach"
	"clipforge/internal/cancelflag"
	"clipforge/internal/domain"
	"clipforge/internal/faults"
	"clipforge/internal/infra"
	"clipforge/internal/orchestrator"
)

// App carries the wired dependencies for all handlers.
type App struct {
	Logger      infra.Logger
	Prep        *attach.Preprocessor
	Attachments attach.Store
	Mux         *orchestrator.Multiplexer
	Repo        domain.ArtifactRepository
	Cancels     cancelflag.Store
	Workers     *ants.Pool
}

func NewApp(logger infra.Logger, prep *attach.Preprocessor, attachments attach.Store, mux *orchestrator.Multiplexer, repo domain.ArtifactRepository, cancels cancelflag.Store, workers *ants.Pool) *App {
	return &App{
		Logger:      logger,
		Prep:        prep,
		Attachments: attachments,
		Mux:         mux,
		Repo:        repo,
		Cancels:     cancels,
		Workers:     workers,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, errorBody{Error: errorDetail{Type: kind, Message: message}})
}

// fault classifies err and writes it as a structured error response. Used
// only before a stream is open; in-stream failures become terminal events.
func (a *App) fault(w http.ResponseWriter, err error) {
	kind := faults.Classify(err)
	a.error(w, kind.StatusCode(), string(kind), err.Error())
}
