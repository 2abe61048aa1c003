// Package orchestrator drives an accepted generation request through the
// upstream job lifecycle: submit, poll until terminal, retrieve the result,
// and place the artifact, emitting ordered progress events along the way.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clipforge/internal/domain"
	"clipforge/internal/faults"
	"clipforge/internal/infra"
	"clipforge/internal/providers/motion"
	"clipforge/internal/stream"
)

// Generator is the slice of the upstream video service the controller needs.
// *motion.Client satisfies it.
type Generator interface {
	Submit(ctx context.Context, req motion.SubmitRequest) (*motion.Job, error)
	Poll(ctx context.Context, jobID string) (*motion.Job, error)
	Cancel(ctx context.Context, jobID string) error
	FetchResult(ctx context.Context, resultURI string) ([]byte, string, error)
}

// CancelSignal reports whether a generation has been cancelled out of band.
type CancelSignal interface {
	Cancelled(ctx context.Context, generationID string) bool
}

// Progress milestones for the fixed phases. Polling interpolates between
// progressSubmitted and progressPollCap.
const (
	progressInitiating = 0
	progressUploading  = 5
	progressSubmitted  = 10
	progressPollCap    = 80
	progressRetrieving = 85
	progressReady      = 90
	progressComplete   = 100
)

// Controller owns the submit-and-poll half of a generation. Run returns the
// completed upstream job for the caller to retrieve and place; a nil job with
// a nil error means the run ended quietly (client gone or cancelled) and the
// stream needs nothing further.
type Controller struct {
	gen          Generator
	cancels      CancelSignal
	pollInterval time.Duration
	maxAttempts  int
	logger       infra.Logger
}

func NewController(gen Generator, cancels CancelSignal, pollInterval time.Duration, maxAttempts int, logger infra.Logger) *Controller {
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 60
	}
	return &Controller{
		gen:          gen,
		cancels:      cancels,
		pollInterval: pollInterval,
		maxAttempts:  maxAttempts,
		logger:       logger,
	}
}

// Run submits the payload and polls the job to completion. Every terminal
// outcome except success emits its own terminal event before returning.
func (c *Controller) Run(ctx context.Context, generationID string, payload *domain.GenerationPayload, sink stream.Sink) (*motion.Job, error) {
	first := domain.ProgressEvent(domain.EventInitiating, progressInitiating)
	first.ID = generationID
	if err := sink.Send(first); err != nil {
		return nil, nil
	}

	if payload.HasSeed() {
		if err := sink.Send(domain.ProgressEvent(domain.EventUploading, progressUploading)); err != nil {
			return nil, nil
		}
	}

	job, err := c.gen.Submit(ctx, submitRequest(payload))
	if err != nil {
		c.logger.Error().Err(err).Str("generation_id", generationID).Msg("submit generation")
		emitFailure(sink, err)
		return nil, err
	}
	c.logger.Info().Str("generation_id", generationID).Str("job_id", job.ID).Msg("generation submitted")

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			c.abandon(generationID, job.ID)
			return nil, nil
		}
		if c.cancels != nil && c.cancels.Cancelled(ctx, generationID) {
			c.abandon(generationID, job.ID)
			_ = sink.Send(domain.CancelledEvent())
			return nil, nil
		}

		if err := sink.Send(domain.ProgressEvent(domain.EventGenerating, c.progressAt(attempt))); err != nil {
			c.abandon(generationID, job.ID)
			return nil, nil
		}

		select {
		case <-ctx.Done():
			c.abandon(generationID, job.ID)
			return nil, nil
		case <-time.After(c.pollInterval):
		}

		polled, err := c.gen.Poll(ctx, job.ID)
		if err != nil {
			if ctx.Err() != nil {
				c.abandon(generationID, job.ID)
				return nil, nil
			}
			c.logger.Error().Err(err).Str("generation_id", generationID).Msg("poll generation")
			emitFailure(sink, err)
			return nil, err
		}
		job = polled
		if !job.Done() {
			continue
		}

		switch {
		case job.State == motion.StateCancelled:
			_ = sink.Send(domain.CancelledEvent())
			return nil, nil
		case job.Error != "":
			err := fmt.Errorf("generation failed: %s", job.Error)
			emitFailure(sink, err)
			return nil, err
		case job.ResultURI == "":
			err := errors.New("generation failed: job completed without a result")
			emitFailure(sink, err)
			return nil, err
		}
		return job, nil
	}

	err = fmt.Errorf("generation timed out after %d polls", c.maxAttempts)
	c.logger.Warn().Str("generation_id", generationID).Int("attempts", c.maxAttempts).Msg("generation deadline exhausted")
	emitFailure(sink, faults.WithKind(err, faults.Timeout))
	return nil, err
}

// progressAt interpolates polling progress between the submitted and capped
// milestones so long-running jobs still show forward motion.
func (c *Controller) progressAt(attempt int) int {
	p := progressSubmitted + attempt*(progressPollCap-progressSubmitted)/c.maxAttempts
	if p > progressPollCap {
		p = progressPollCap
	}
	return p
}

// abandon tells the upstream service to stop working on a job whose consumer
// is gone. Failures are logged and otherwise ignored.
func (c *Controller) abandon(generationID, jobID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.gen.Cancel(ctx, jobID); err != nil {
		c.logger.Warn().Err(err).Str("generation_id", generationID).Str("job_id", jobID).Msg("cancel upstream job")
	}
}

func submitRequest(payload *domain.GenerationPayload) motion.SubmitRequest {
	req := motion.SubmitRequest{
		Prompt:   payload.Prompt,
		Model:    payload.Model.ID,
		Duration: payload.Duration,
	}
	if payload.HasSeed() {
		req.SeedMIME = payload.SeedMIME
		req.SeedData = payload.SeedData
	}
	return req
}

// emitFailure classifies err and writes the terminal error event. Send
// failures are ignored: the client is gone and there is nobody to tell.
func emitFailure(sink stream.Sink, err error) {
	kind := faults.Classify(err)
	_ = sink.Send(domain.ErrorEvent(string(kind), kind.StatusCode(), err.Error()))
}
