package stream

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"clipforge/internal/domain"
)

func TestSSEWritesEventFrames(t *testing.T) {
	rec := httptest.NewRecorder()
	s, err := NewSSE(rec)
	if err != nil {
		t.Fatalf("NewSSE returned error: %v", err)
	}

	if err := s.Send(domain.ProgressEvent(domain.EventInitiating, 0)); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "data: ") || !strings.HasSuffix(body, "\n\n") {
		t.Fatalf("frame = %q", body)
	}

	var event domain.Event
	if err := json.Unmarshal([]byte(strings.TrimSuffix(strings.TrimPrefix(body, "data: "), "\n\n")), &event); err != nil {
		t.Fatalf("frame payload is not JSON: %v", err)
	}
	if event.Status != domain.EventInitiating || event.Progress == nil || *event.Progress != 0 {
		t.Fatalf("decoded event = %+v", event)
	}
}

func TestSSERejectsEventsAfterTerminal(t *testing.T) {
	rec := httptest.NewRecorder()
	s, err := NewSSE(rec)
	if err != nil {
		t.Fatalf("NewSSE returned error: %v", err)
	}

	if err := s.Send(domain.CancelledEvent()); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if !s.Terminated() {
		t.Fatal("stream not marked terminated after terminal event")
	}

	err = s.Send(domain.ProgressEvent(domain.EventGenerating, 50))
	if !errors.Is(err, domain.ErrStreamTerminated) {
		t.Fatalf("err = %v, want ErrStreamTerminated", err)
	}
	if count := strings.Count(rec.Body.String(), "data: "); count != 1 {
		t.Fatalf("frames written = %d, want 1", count)
	}
}

func TestSSEAllowsOnlyOneTerminal(t *testing.T) {
	rec := httptest.NewRecorder()
	s, _ := NewSSE(rec)

	if err := s.Send(domain.ErrorEvent("timeout_error", 408, "gave up")); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if err := s.Send(domain.CompleteEvent(nil)); !errors.Is(err, domain.ErrStreamTerminated) {
		t.Fatalf("second terminal err = %v, want ErrStreamTerminated", err)
	}
}
