package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrAttachmentEmpty  = errors.New("attachment is empty")
	ErrAttachmentLarge  = errors.New("attachment exceeds size ceiling")
	ErrProviderFailure  = errors.New("provider failure")
	ErrStreamTerminated = errors.New("stream already terminated")
)
