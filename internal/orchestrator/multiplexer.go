package orchestrator

import (
	"context"

	"clipforge/internal/domain"
	"clipforge/internal/infra"
	"clipforge/internal/stream"
)

// Multiplexer runs one generation end to end over a single event sink:
// submit and poll through the controller, then retrieve, place, and announce
// the finished artifact. Exactly one terminal event is emitted per stream
// unless the client disconnects first.
type Multiplexer struct {
	controller *Controller
	gen        Generator
	placer     *Placer
	logger     infra.Logger
}

func NewMultiplexer(controller *Controller, gen Generator, placer *Placer, logger infra.Logger) *Multiplexer {
	return &Multiplexer{controller: controller, gen: gen, placer: placer, logger: logger}
}

// Stream drives the full lifecycle. It never returns an error: every
// failure is delivered to the sink as a terminal event, and delivery
// failures mean the client is gone and no outcome can be reported anyway.
func (m *Multiplexer) Stream(ctx context.Context, generationID, ownerID string, payload *domain.GenerationPayload, sink stream.Sink) {
	job, err := m.controller.Run(ctx, generationID, payload, sink)
	if job == nil {
		if err != nil {
			m.logger.Debug().Err(err).Str("generation_id", generationID).Msg("generation ended before retrieval")
		}
		return
	}

	if err := sink.Send(domain.ProgressEvent(domain.EventRetrieving, progressRetrieving)); err != nil {
		return
	}

	data, contentType, err := m.gen.FetchResult(ctx, job.ResultURI)
	if err != nil {
		m.logger.Error().Err(err).Str("generation_id", generationID).Msg("retrieve result")
		emitFailure(sink, err)
		return
	}

	artifact, err := m.placer.Place(ctx, data, contentType, ownerID, payload)
	if err != nil {
		m.logger.Error().Err(err).Str("generation_id", generationID).Msg("place artifact")
		emitFailure(sink, err)
		return
	}

	if err := sink.Send(domain.ProgressEvent(domain.EventReady, progressReady)); err != nil {
		return
	}
	_ = sink.Send(domain.CompleteEvent(artifact))
	m.logger.Info().Str("generation_id", generationID).Str("artifact_id", artifact.ID.String()).Msg("generation complete")
}
