// Package stream delivers ordered progress events to a client over
// Server-Sent Events. A stream has a single writer and accepts exactly one
// terminal event; anything sent after that is rejected.
package stream

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"clipforge/internal/domain"
)

// Sink accepts progress events in order.
type Sink interface {
	Send(event domain.Event) error
}

// SSE writes events to an HTTP response as Server-Sent Events.
type SSE struct {
	w       http.ResponseWriter
	flusher http.Flusher

	mu       sync.Mutex
	terminal bool
}

// NewSSE prepares the response for event streaming and flushes the headers
// so the client sees the stream open before the first event.
func NewSSE(w http.ResponseWriter) (*SSE, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("stream: response writer does not support flushing")
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &SSE{w: w, flusher: flusher}, nil
}

// Send emits one event and flushes it immediately. After a terminal event
// has been sent, further sends fail with domain.ErrStreamTerminated.
func (s *SSE) Send(event domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminal {
		return domain.ErrStreamTerminated
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("stream: marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("stream: write event: %w", err)
	}
	s.flusher.Flush()

	if event.Terminal() {
		s.terminal = true
	}
	return nil
}

// Terminated reports whether the terminal event has been sent.
func (s *SSE) Terminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminal
}
