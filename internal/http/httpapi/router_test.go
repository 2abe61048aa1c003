package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"

	"clipforge/internal/attach"
	"clipforge/internal/cancelflag"
	"clipforge/internal/domain"
	"clipforge/internal/http/handlers"
	"clipforge/internal/middleware"
	"clipforge/internal/orchestrator"
	"clipforge/internal/providers/motion"
)

type noopGenerator struct{}

func (noopGenerator) Submit(_ context.Context, _ motion.SubmitRequest) (*motion.Job, error) {
	return &motion.Job{ID: "job-1", State: motion.StatePending}, nil
}

func (noopGenerator) Poll(_ context.Context, jobID string) (*motion.Job, error) {
	return &motion.Job{ID: jobID, State: motion.StateSucceeded, ResultURI: "/r/1"}, nil
}

func (noopGenerator) Cancel(_ context.Context, _ string) error { return nil }

func (noopGenerator) FetchResult(_ context.Context, _ string) ([]byte, string, error) {
	return []byte("clip"), "video/mp4", nil
}

type noopRepo struct{}

func (noopRepo) Insert(_ context.Context, a *domain.Artifact) (*domain.Artifact, error) {
	return a, nil
}

func (noopRepo) GetByID(_ context.Context, _ uuid.UUID) (*domain.Artifact, error) {
	return nil, domain.ErrNotFound
}

func (noopRepo) ParentExists(_ context.Context, _ uuid.UUID) (bool, error) { return false, nil }

func (noopRepo) ExtremeChainOrder(_ context.Context, _ uuid.UUID, _ domain.ExtendSide) (int, bool, error) {
	return 0, false, nil
}

func (noopRepo) ListChain(_ context.Context, _ uuid.UUID) ([]domain.Artifact, error) {
	return nil, nil
}

type noopGateway struct{}

func (noopGateway) Upload(_ context.Context, key string, _ []byte, _ string, temporary bool) (string, error) {
	if temporary {
		return "ephemeral/" + key, nil
	}
	return key, nil
}

func (noopGateway) SignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://cdn.example.com/" + key, nil
}

func (noopGateway) Fetch(_ context.Context, _ string) ([]byte, error) { return nil, domain.ErrNotFound }

type noopTranscriber struct{}

func (noopTranscriber) Transcribe(_ context.Context, _ []byte, _, _ string) (string, error) {
	return "", nil
}

type noopFetcher struct{}

func (noopFetcher) Fetch(_ context.Context, _ string, _ int64) ([]byte, string, error) {
	return nil, "", nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zerolog.New(io.Discard)

	buffer := attach.NewMemoryStore(4, time.Minute)
	prep := attach.NewPreprocessor(buffer, noopTranscriber{}, noopFetcher{}, logger)
	cancels := cancelflag.NewMemoryStore()
	repo := noopRepo{}

	controller := orchestrator.NewController(noopGenerator{}, cancels, time.Millisecond, 2, logger)
	placer := orchestrator.NewPlacer(noopGateway{}, repo, time.Hour, time.Minute, logger)
	mux := orchestrator.NewMultiplexer(controller, noopGenerator{}, placer, logger)

	workers, err := ants.NewPool(2)
	if err != nil {
		t.Fatalf("ants.NewPool: %v", err)
	}
	t.Cleanup(workers.Release)

	app := handlers.NewApp(logger, prep, buffer, mux, repo, cancels, workers)
	return NewRouter(app, Options{
		Logger:    logger,
		JWTSecret: "test-secret",
	})
}

func TestHealthRoute(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestGenerateWithoutAuthStreamsAnonymously(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/generations", strings.NewReader(`{"prompt":"hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"status":"complete"`) {
		t.Fatalf("body = %q, want complete event", body)
	}
	if !strings.Contains(body, `"isTemporary":true`) {
		t.Fatalf("anonymous artifact should be temporary: %q", body)
	}
}

func TestGenerateWithValidTokenIsOwned(t *testing.T) {
	router := newTestRouter(t)

	token, err := middleware.SignJWT("test-secret", middleware.TokenClaims{Sub: "user-9"})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/generations", strings.NewReader(`{"prompt":"hello"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"ownerId":"user-9"`) {
		t.Fatalf("body = %q, want owned artifact", body)
	}
}

func TestGenerateWithForgedTokenRejected(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/generations", strings.NewReader(`{"prompt":"hello"}`))
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestArtifactRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/artifacts/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
