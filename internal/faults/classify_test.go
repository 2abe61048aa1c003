package faults

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string   { return e.message }
func (e *apiError) HTTPStatus() int { return e.status }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, Unknown},
		{"deadline", context.DeadlineExceeded, Timeout},
		{"wrapped deadline", fmt.Errorf("poll: %w", context.DeadlineExceeded), Timeout},
		{"status 401", &apiError{status: 401, message: "nope"}, Authentication},
		{"status 429", &apiError{status: 429, message: "slow down"}, QuotaExceeded},
		{"status 400", &apiError{status: 400, message: "bad"}, InvalidRequest},
		{"status 503", &apiError{status: 503, message: "down"}, Network},
		{"status 422", &apiError{status: 422, message: "rejected"}, Generation},
		{"api key keyword", errors.New("missing API key"), Authentication},
		{"quota keyword", errors.New("quota exceeded for project"), QuotaExceeded},
		{"invalid keyword", errors.New("invalid duration value"), InvalidRequest},
		{"timeout keyword", errors.New("request timed out"), Timeout},
		{"network keyword", errors.New("dial tcp: connection refused"), Network},
		{"transcription keyword", errors.New("transcription backend unavailable"), Transcription},
		{"upload keyword", errors.New("upload rejected by bucket policy"), Upload},
		{"safety keyword", errors.New("prompt blocked by safety filter"), Generation},
		{"pinned kind wins", WithKind(errors.New("invalid duration value"), Timeout), Timeout},
		{"wrapped pinned kind", fmt.Errorf("outer: %w", WithKind(errors.New("x"), Upload)), Upload},
		{"unknown", errors.New("something odd happened"), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Fatalf("Classify(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}

func TestKindStatusCodes(t *testing.T) {
	codes := map[Kind]int{
		Authentication: http.StatusUnauthorized,
		QuotaExceeded:  http.StatusTooManyRequests,
		InvalidRequest: http.StatusBadRequest,
		Timeout:        http.StatusRequestTimeout,
		Network:        http.StatusServiceUnavailable,
		Generation:     http.StatusUnprocessableEntity,
		Upload:         http.StatusBadRequest,
		Transcription:  http.StatusUnprocessableEntity,
		Unknown:        http.StatusInternalServerError,
	}
	for kind, want := range codes {
		if got := kind.StatusCode(); got != want {
			t.Errorf("%s.StatusCode() = %d, want %d", kind, got, want)
		}
	}
}
