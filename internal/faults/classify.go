// Package faults maps failures from external calls into a closed taxonomy of
// error kinds, each with a default HTTP-style status code. Classification is
// keyword and field based rather than a hard type match, because the upstream
// dependencies are best-effort categorized third parties.
package faults

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
)

// Kind is one member of the closed error taxonomy.
type Kind string

const (
	Authentication Kind = "authentication_error"
	QuotaExceeded  Kind = "quota_exceeded"
	InvalidRequest Kind = "invalid_request"
	Timeout        Kind = "timeout_error"
	Network        Kind = "network_error"
	Generation     Kind = "generation_failed"
	Upload         Kind = "upload_failed"
	Transcription  Kind = "transcription_failed"
	Unknown        Kind = "unknown_error"
)

// StatusCode returns the default HTTP status code for the kind.
func (k Kind) StatusCode() int {
	switch k {
	case Authentication:
		return http.StatusUnauthorized
	case QuotaExceeded:
		return http.StatusTooManyRequests
	case InvalidRequest, Upload:
		return http.StatusBadRequest
	case Timeout:
		return http.StatusRequestTimeout
	case Network:
		return http.StatusServiceUnavailable
	case Generation, Transcription:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// StatusCoder is implemented by errors that carry an upstream HTTP status.
type StatusCoder interface {
	HTTPStatus() int
}

type kindError struct {
	err  error
	kind Kind
}

func (e *kindError) Error() string { return e.err.Error() }
func (e *kindError) Unwrap() error { return e.err }

// WithKind pins err to a specific kind, overriding classification.
func WithKind(err error, kind Kind) error {
	return &kindError{err: err, kind: kind}
}

// Classify maps an arbitrary failure to a taxonomy kind. A nil error
// classifies as Unknown; callers should not classify success paths.
func Classify(err error) Kind {
	if err == nil {
		return Unknown
	}

	var pinned *kindError
	if errors.As(err, &pinned) {
		return pinned.kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}

	var coder StatusCoder
	if errors.As(err, &coder) {
		if kind, ok := kindForStatus(coder.HTTPStatus()); ok {
			return kind
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return Timeout
		}
		return Network
	}

	return kindForMessage(err.Error())
}

func kindForStatus(status int) (Kind, bool) {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return Authentication, true
	case http.StatusTooManyRequests:
		return QuotaExceeded, true
	case http.StatusBadRequest:
		return InvalidRequest, true
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return Timeout, true
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return Network, true
	case http.StatusUnprocessableEntity:
		return Generation, true
	}
	return Unknown, false
}

func kindForMessage(msg string) Kind {
	lower := strings.ToLower(msg)
	switch {
	case containsAny(lower, "api key", "unauthorized", "unauthenticated", "permission denied", "forbidden"):
		return Authentication
	case containsAny(lower, "quota", "rate limit", "too many requests", "resource exhausted"):
		return QuotaExceeded
	case containsAny(lower, "invalid", "bad request", "unsupported", "malformed"):
		return InvalidRequest
	case containsAny(lower, "timeout", "timed out", "deadline exceeded"):
		return Timeout
	case containsAny(lower, "connection refused", "connection reset", "no such host", "network", "unreachable", "eof"):
		return Network
	case containsAny(lower, "transcri"):
		return Transcription
	case containsAny(lower, "upload", "sign artifact", "signed url"):
		return Upload
	case containsAny(lower, "generation", "safety", "blocked", "content policy"):
		return Generation
	default:
		return Unknown
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
