// Package motion implements the HTTP client for the Motion Labs asynchronous
// video-generation API: submit a job, refresh its status, request
// cancellation, and download result bytes.
package motion

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clipforge/internal/domain"
	"clipforge/internal/infra"
)

// Job states reported by the service.
const (
	StatePending   = "PENDING"
	StateRunning   = "RUNNING"
	StateSucceeded = "SUCCEEDED"
	StateFailed    = "FAILED"
	StateCancelled = "CANCELLED"
)

// Job is the opaque handle plus mutable status returned by the service. It
// is owned by exactly one controller for the lifetime of one request.
type Job struct {
	ID        string `json:"id"`
	State     string `json:"state"`
	Error     string `json:"error,omitempty"`
	ResultURI string `json:"resultUri,omitempty"`
}

// Done reports whether the job reached a terminal service state.
func (j *Job) Done() bool {
	switch j.State {
	case StateSucceeded, StateFailed, StateCancelled:
		return true
	}
	return false
}

// SubmitRequest carries everything needed to start one generation job.
type SubmitRequest struct {
	Prompt   string
	Model    string
	Duration int
	SeedMIME string
	SeedData []byte
}

// APIError is a structured failure from the Motion API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("motion: %s (%s, status %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("motion: %s (status %d)", e.Message, e.StatusCode)
}

// HTTPStatus implements faults.StatusCoder.
func (e *APIError) HTTPStatus() int { return e.StatusCode }

// Options controls how the client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client talks to the Motion API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     infra.Logger
}

// NewClient constructs a Motion client with sane defaults. Callers may
// provide a nil HTTP client; a reusable one with sensible timeouts will be
// created.
func NewClient(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.motionlabs.dev/v1"
	}

	var logger infra.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: client,
		logger:     logger,
	}
}

type submitPayload struct {
	Prompt   string     `json:"prompt"`
	Model    string     `json:"model"`
	Duration int        `json:"durationSeconds"`
	Seed     *seedMedia `json:"seed,omitempty"`
}

type seedMedia struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type jobEnvelope struct {
	Job *Job `json:"job"`
}

// Submit starts a generation job on the service.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) (*Job, error) {
	payload := submitPayload{
		Prompt:   req.Prompt,
		Model:    req.Model,
		Duration: req.Duration,
	}
	if len(req.SeedData) > 0 {
		payload.Seed = &seedMedia{
			MIMEType: req.SeedMIME,
			Data:     base64.StdEncoding.EncodeToString(req.SeedData),
		}
	}

	var resp jobEnvelope
	if err := c.invoke(ctx, http.MethodPost, "/videos:generate", payload, &resp); err != nil {
		return nil, err
	}
	if resp.Job == nil || resp.Job.ID == "" {
		return nil, fmt.Errorf("%w: submit returned no job handle", domain.ErrProviderFailure)
	}

	c.logger.Debug().Str("job_id", resp.Job.ID).Str("model", req.Model).Msg("motion: job submitted")
	return resp.Job, nil
}

// Poll refreshes the job status. The call is idempotent.
func (c *Client) Poll(ctx context.Context, jobID string) (*Job, error) {
	var resp jobEnvelope
	path := fmt.Sprintf("/videos/jobs/%s", url.PathEscape(jobID))
	if err := c.invoke(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Job == nil {
		return nil, fmt.Errorf("%w: poll returned no job", domain.ErrProviderFailure)
	}
	return resp.Job, nil
}

// Cancel asks the service to stop the job. Best effort; the service may have
// already finished.
func (c *Client) Cancel(ctx context.Context, jobID string) error {
	path := fmt.Sprintf("/videos/jobs/%s:cancel", url.PathEscape(jobID))
	return c.invoke(ctx, http.MethodPost, path, nil, nil)
}

// FetchResult downloads the bytes behind a result locator and returns them
// with the reported content type.
func (c *Client) FetchResult(ctx context.Context, resultURI string) ([]byte, string, error) {
	target := resultURI
	if !strings.HasPrefix(resultURI, "http://") && !strings.HasPrefix(resultURI, "https://") {
		target = c.baseURL + "/" + strings.TrimLeft(resultURI, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create download request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, "", c.decodeError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read result: %w", err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/mp4"
	}
	return data, contentType, nil
}

func (c *Client) invoke(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke motion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode motion response: %w", err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	var decoded apiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err == nil && decoded.Error.Message != "" {
		apiErr.Code = decoded.Error.Code
		apiErr.Message = decoded.Error.Message
	}
	return apiErr
}
