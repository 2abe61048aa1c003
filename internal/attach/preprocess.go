package attach

import (
	"context"
	"fmt"
	"strings"

	"clipforge/internal/domain"
	"clipforge/internal/infra"
	"clipforge/internal/middleware"
)

// Size ceilings per attachment kind.
const (
	maxImageBytes = 10 << 20
	maxAudioBytes = 25 << 20
	maxVideoBytes = 100 << 20
)

// Transcriber produces best-effort text from audio bytes. An empty string
// with a nil error means the service had nothing to say.
type Transcriber interface {
	Transcribe(ctx context.Context, data []byte, mime, locale string) (string, error)
}

// Fetcher retrieves attachment bytes from a remote locator.
type Fetcher interface {
	Fetch(ctx context.Context, url string, maxBytes int64) (data []byte, contentType string, err error)
}

// Preprocessor converts a caller request plus its seed attachment into a
// validated generation payload.
type Preprocessor struct {
	store       Store
	transcriber Transcriber
	fetcher     Fetcher
	logger      infra.Logger
}

// NewPreprocessor wires a Preprocessor. The transcriber may be nil, in which
// case audio attachments keep the original prompt.
func NewPreprocessor(store Store, transcriber Transcriber, fetcher Fetcher, logger infra.Logger) *Preprocessor {
	return &Preprocessor{store: store, transcriber: transcriber, fetcher: fetcher, logger: logger}
}

// A handful of container types are rejected by the generation service even
// though they carry compatible codecs. Remap them before forwarding.
var videoMIMERemap = map[string]string{
	"video/quicktime":  "video/mp4",
	"video/x-msvideo":  "video/mp4",
	"video/x-matroska": "video/mp4",
}

// Prepare validates the request and produces a submission-ready payload.
func (p *Preprocessor) Prepare(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationPayload, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", domain.ErrInvalidRequest)
	}

	model := domain.DefaultModel()
	if req.Model != "" {
		m, ok := domain.ModelByID(req.Model)
		if !ok {
			return nil, fmt.Errorf("%w: unknown model %q", domain.ErrInvalidRequest, req.Model)
		}
		model = m
	}

	if req.ParentID != nil && req.Side != domain.ExtendStart && req.Side != domain.ExtendEnd {
		return nil, fmt.Errorf("%w: extension side must be %q or %q", domain.ErrInvalidRequest, domain.ExtendStart, domain.ExtendEnd)
	}

	payload := &domain.GenerationPayload{
		Prompt:   prompt,
		Model:    model,
		ParentID: req.ParentID,
		Side:     req.Side,
	}

	if req.Attachment != nil {
		if err := p.resolveAttachment(ctx, req.Attachment, payload); err != nil {
			return nil, err
		}
	}

	// Image-seeded generation enforces a constant duration, so the caller's
	// requested value is ignored when an image seed is present.
	if payload.SeedKind == domain.AttachmentKindImage {
		payload.Duration = model.Max()
	} else {
		payload.Duration = model.ClampDuration(req.Duration)
	}

	return payload, nil
}

func (p *Preprocessor) resolveAttachment(ctx context.Context, att *domain.Attachment, payload *domain.GenerationPayload) error {
	hasKey := att.BufferKey != ""
	hasURL := att.RemoteURL != ""
	if hasKey == hasURL {
		return fmt.Errorf("%w: attachment needs exactly one of bufferKey or remoteUrl", domain.ErrInvalidRequest)
	}

	kind := att.Kind
	mime := att.MIME
	var data []byte

	switch {
	case hasKey:
		buffered, ok := p.store.Get(ctx, att.BufferKey)
		if !ok {
			return fmt.Errorf("%w: buffered attachment %q not found", domain.ErrInvalidRequest, att.BufferKey)
		}
		data = buffered.Data
		if mime == "" {
			mime = buffered.MIME
		}
		if kind == "" {
			kind = buffered.Kind
		}
	case hasURL:
		fetched, contentType, err := p.fetcher.Fetch(ctx, att.RemoteURL, ceilingFor(kind))
		if err != nil {
			return fmt.Errorf("fetch attachment: %w", err)
		}
		data = fetched
		if mime == "" {
			mime = contentType
		}
	}

	if kind == "" {
		kind = kindFromMIME(mime)
	}
	if kind == "" {
		return fmt.Errorf("%w: attachment kind could not be determined", domain.ErrInvalidRequest)
	}

	if len(data) == 0 {
		return fmt.Errorf("%w", domain.ErrAttachmentEmpty)
	}
	if int64(len(data)) > ceilingFor(kind) {
		return fmt.Errorf("%w: %s attachment is %d bytes", domain.ErrAttachmentLarge, kind, len(data))
	}

	switch kind {
	case domain.AttachmentKindAudio:
		payload.Prompt = p.promptWithTranscript(ctx, data, mime, payload.Prompt)
	case domain.AttachmentKindVideo:
		if mapped, ok := videoMIMERemap[strings.ToLower(mime)]; ok {
			mime = mapped
		}
	}

	payload.SeedKind = kind
	payload.SeedMIME = mime
	payload.SeedData = data
	return nil
}

// promptWithTranscript prefixes best-effort transcription output as context.
// Transcription failure degrades to the original prompt; it is never an
// error path.
func (p *Preprocessor) promptWithTranscript(ctx context.Context, data []byte, mime, prompt string) string {
	if p.transcriber == nil {
		return prompt
	}
	locale := localeFromContext(ctx)
	text, err := p.transcriber.Transcribe(ctx, data, mime, locale)
	if err != nil {
		p.logger.Warn().Err(err).Msg("attach: transcription failed, keeping original prompt")
		return prompt
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return prompt
	}
	return fmt.Sprintf("Audio transcript for context:\n%s\n\n%s", text, prompt)
}

func localeFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(middleware.LocaleKey).(string); ok {
		return v
	}
	return ""
}

func ceilingFor(kind domain.AttachmentKind) int64 {
	switch kind {
	case domain.AttachmentKindImage:
		return maxImageBytes
	case domain.AttachmentKindAudio:
		return maxAudioBytes
	case domain.AttachmentKindVideo:
		return maxVideoBytes
	default:
		return maxVideoBytes
	}
}

// KindFromMIME derives the attachment kind from a MIME type prefix.
func KindFromMIME(mime string) domain.AttachmentKind {
	return kindFromMIME(mime)
}

func kindFromMIME(mime string) domain.AttachmentKind {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return domain.AttachmentKindImage
	case strings.HasPrefix(mime, "audio/"):
		return domain.AttachmentKindAudio
	case strings.HasPrefix(mime, "video/"):
		return domain.AttachmentKindVideo
	default:
		return ""
	}
}
