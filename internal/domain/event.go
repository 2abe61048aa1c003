package domain

// EventStatus is the closed vocabulary of progress event tags.
type EventStatus string

const (
	EventInitiating  EventStatus = "initiating"
	EventUploading   EventStatus = "uploading"
	EventGenerating  EventStatus = "generating"
	EventRetrieving  EventStatus = "retrieving"
	EventReady       EventStatus = "ready"
	EventDownloading EventStatus = "downloading"
	EventComplete    EventStatus = "complete"
	EventCancelled   EventStatus = "cancelled"
	EventError       EventStatus = "error"
)

// Event is one record in the ordered push sequence delivered to the caller.
// Progress is monotonically non-decreasing within one generation, except
// that a terminal error may arrive without intermediate continuity when the
// job fails outside the poll loop.
type Event struct {
	ID         string      `json:"id,omitempty"`
	Status     EventStatus `json:"status"`
	Progress   *int        `json:"progress,omitempty"`
	Video      *Artifact   `json:"video,omitempty"`
	Error      string      `json:"error,omitempty"`
	Type       string      `json:"type,omitempty"`
	StatusCode int         `json:"statusCode,omitempty"`
}

// Terminal reports whether no further events may follow this one.
func (e Event) Terminal() bool {
	switch e.Status {
	case EventComplete, EventCancelled, EventError:
		return true
	}
	return false
}

// ProgressEvent builds a non-terminal event with a progress percentage.
func ProgressEvent(status EventStatus, progress int) Event {
	return Event{Status: status, Progress: &progress}
}

// CompleteEvent builds the terminal success event carrying the artifact.
func CompleteEvent(artifact *Artifact) Event {
	progress := 100
	return Event{Status: EventComplete, Progress: &progress, Video: artifact}
}

// CancelledEvent builds the terminal cancellation event.
func CancelledEvent() Event {
	return Event{Status: EventCancelled}
}

// ErrorEvent builds the terminal failure event.
func ErrorEvent(kind string, statusCode int, message string) Event {
	return Event{Status: EventError, Error: message, Type: kind, StatusCode: statusCode}
}
