// Package submission sends student registrations to the remote
// student-storage API and folds whatever happens into a Result.
//
// Only one endpoint is used:
//
//	POST {baseURL}/student/post   { "name": "John Doe", "age": 18 }
//
// A 200 means the student was stored. Any other status is reported as a
// ServerError carrying the body verbatim, and a request that never got an
// answer is reported as a TransportError. Blank names never leave the
// process.
//
// Error bodies are read up to 1 MiB; anything past that is cut off and the
// cut is logged at WARN.
package submission

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/aanand-mishra/edutrack/internal/types"
	"github.com/aanand-mishra/edutrack/internal/validate"
)

const (
	// PostPath is the backend route that creates a student.
	PostPath = "student/post"

	// DefaultTimeout applies when no client or timeout is supplied.
	DefaultTimeout = 5 * time.Second

	// RequestIDHeader carries the per-submission correlation id.
	RequestIDHeader = "X-Request-ID"

	maxBodyBytes = 1 << 20
)

// Handler submits students to one backend. It holds no mutable state and is
// safe for concurrent use.
type Handler struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

// Option customises a Handler.
type Option func(*Handler)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *Handler) { h.client = c }
}

// WithTimeout sets the timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.client = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) { h.log = l }
}

// New returns a Handler bound to baseURL, e.g. "http://localhost:8081".
func New(baseURL string, opts ...Option) *Handler {
	h := &Handler{
		baseURL: baseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// BaseURL returns the backend root this handler targets.
func (h *Handler) BaseURL() string { return h.baseURL }

// Submit registers one student. It blocks until the backend answers or the
// client timeout fires, and always returns a Result: failures are values,
// never panics or errors.
func (h *Handler) Submit(ctx context.Context, name string, age int) Result {
	input := types.StudentInput{Name: name, Age: age}

	if err := validate.Struct(input); err != nil {
		var fields validate.FieldErrors
		if errors.As(err, &fields) {
			h.log.Debug("submission rejected locally", slog.String("error", fields.Error()))
			return Result{Outcome: ValidationError, Message: fields.Error(), Fields: fields}
		}
		return Result{Outcome: ValidationError, Message: err.Error()}
	}

	requestID := uuid.NewString()
	log := h.log.With(slog.String("request_id", requestID))

	status, body, err := h.post(ctx, log, requestID, input)
	if err != nil {
		log.Error("submission failed", slog.String("error", err.Error()))
		return Result{Outcome: TransportError, Message: transportMessage(err)}
	}

	if status != http.StatusOK {
		log.Warn("submission refused by backend",
			slog.Int("status", status),
			slog.String("body", body))
		return Result{Outcome: ServerError, Message: body, StatusCode: status}
	}

	log.Debug("student submitted", slog.String("name", name))
	log.Info("student submitted", slog.Int("age", age))
	return Result{Outcome: Success, StatusCode: status}
}

// post sends input and returns the status code with the response body.
// The body of a 200 is drained and discarded.
func (h *Handler) post(ctx context.Context, log *slog.Logger, requestID string, input types.StudentInput) (int, string, error) {
	endpoint, err := url.JoinPath(h.baseURL, PostPath)
	if err != nil {
		return 0, "", fmt.Errorf("post: build url: %w", err)
	}

	payload, err := json.Marshal(input)
	if err != nil {
		return 0, "", fmt.Errorf("post: encode body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, "", fmt.Errorf("post: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return resp.StatusCode, "", nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return 0, "", fmt.Errorf("post: read body: %w", err)
	}
	if len(raw) > maxBodyBytes {
		raw = raw[:maxBodyBytes]
		log.Warn("backend error body truncated", slog.Int("limit_bytes", maxBodyBytes))
	}
	return resp.StatusCode, string(raw), nil
}

// transportMessage keeps the error description non-empty.
func transportMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "request failed"
}
