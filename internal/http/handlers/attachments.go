package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"clipforge/internal/attach"
)

// Attachment bodies above this are rejected at the door; per-kind ceilings
// are enforced again during preprocessing.
const maxAttachmentBody = 100 << 20

type attachmentResponse struct {
	BufferKey string    `json:"bufferKey"`
	Kind      string    `json:"kind"`
	SizeBytes int64     `json:"sizeBytes"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UploadAttachment buffers raw seed media for a later generation request.
// The body is the media bytes; Content-Type declares what they are.
func (a *App) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	kind := attach.KindFromMIME(contentType)
	if kind == "" {
		a.error(w, http.StatusBadRequest, "invalid_request", "unsupported attachment content type")
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxAttachmentBody)
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusRequestEntityTooLarge, "invalid_request", "attachment exceeds size ceiling")
			return
		}
		a.error(w, http.StatusBadRequest, "invalid_request", "failed to read attachment body")
		return
	}
	if len(data) == 0 {
		a.error(w, http.StatusBadRequest, "invalid_request", "attachment is empty")
		return
	}

	key, err := a.Attachments.Put(r.Context(), attach.Buffered{
		Kind:     kind,
		MIME:     contentType,
		Data:     data,
		StoredAt: time.Now(),
	})
	if err != nil {
		a.fault(w, err)
		return
	}

	a.json(w, http.StatusCreated, attachmentResponse{
		BufferKey: key,
		Kind:      string(kind),
		SizeBytes: int64(len(data)),
		ExpiresAt: time.Now().Add(a.attachTTL()).UTC(),
	})
}

func (a *App) attachTTL() time.Duration {
	if s, ok := a.Attachments.(interface{ TTL() time.Duration }); ok {
		return s.TTL()
	}
	return 30 * time.Minute
}
