// Package httpapi assembles the chi router for the service.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"clipforge/internal/http/handlers"
	"clipforge/internal/infra"
	"clipforge/internal/middleware"
)

// Options carries the cross-cutting wiring the router needs beyond handlers.
type Options struct {
	Logger          infra.Logger
	JWTSecret       string
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	AllowedOrigins  []string
	RateLimitPerMin int
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/v1/healthz", app.Health)

	r.Group(func(r chi.Router) {
		if opts.RateLimitPerMin > 0 {
			r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
		}
		r.Use(middleware.AuthOptional(opts.JWTSecret))

		r.Post("/v1/generations", app.Generate)
		r.Post("/v1/generations/{id}/cancel", app.CancelGeneration)
		r.Post("/v1/attachments", app.UploadAttachment)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(opts.JWTSecret))

		r.Get("/v1/artifacts/{id}", app.GetArtifact)
		r.Get("/v1/artifacts/{id}/chain", app.GetArtifactChain)
	})

	return r
}
