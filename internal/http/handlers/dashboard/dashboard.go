// Package dashboard contains the HTTP handlers of the registration UI.
//
// Handlers are factories: each one receives its dependencies once at
// startup and returns the http.HandlerFunc the router calls on every request.
//
//	router.HandleFunc("POST /", dashboard.Submit(submitter, renderer))
package dashboard

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/aanand-mishra/edutrack/internal/submission"
	"github.com/aanand-mishra/edutrack/internal/types"
	"github.com/aanand-mishra/edutrack/internal/utils/response"
)

const maxRequestBytes = 1 << 16

// Submitter is what the handlers need from the submission layer.
type Submitter interface {
	Submit(ctx context.Context, name string, age int) submission.Result
}

// Index handles GET /
// Renders the registration form with its defaults.
func Index(renderer *Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderer.Render(w, http.StatusOK, NewPage())
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Submit handles POST /
// Reads the name and age form fields, submits them and re-renders the page
// with one feedback line. The form is cleared after every attempt.
//
// Every outcome is answered with 200: a refused or failed submission is
// shown to the user, and the form stays usable for another try.
// ─────────────────────────────────────────────────────────────────────────────
func Submit(submitter Submitter, renderer *Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			page := NewPage()
			page.Feedback = &Feedback{Level: LevelError, Text: "Error: " + err.Error()}
			renderer.Render(w, http.StatusBadRequest, page)
			return
		}

		name := r.PostFormValue("name")
		age := ParseAge(r.PostFormValue("age"))
		slog.Info("submitting a student", slog.Int("age", age))

		// A submission runs to completion even if the browser goes away.
		res := submitter.Submit(context.WithoutCancel(r.Context()), name, age)
		feedback := FeedbackFor(name, res)

		page := NewPage()
		page.Feedback = &feedback
		renderer.Render(w, http.StatusOK, page)
	}
}

// submissionRequest is the body of POST /api/submissions.
type submissionRequest struct {
	Name string `json:"name"`
	Age  *int   `json:"age"`
}

// submissionResponse reports one attempt to JSON clients. Failures carry
// the standard envelope's "error" key like every other error response.
type submissionResponse struct {
	response.Response
	Outcome        string `json:"outcome"`
	Message        string `json:"message"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// SubmitJSON handles POST /api/submissions
// Same flow as Submit for script front ends.
//
// Request body (JSON):
//
//	{ "name": "John Doe", "age": 18 }
//
// age is optional (default 18) and clamped to [1, 100], same as the form.
//
// Responses:
//
//	200 OK              backend stored the student
//	400 Bad Request     empty/malformed body or blank name
//	502 Bad Gateway     backend answered non-200, error is its body
//	504 Gateway Timeout backend unreachable
//
// ─────────────────────────────────────────────────────────────────────────────
func SubmitJSON(submitter Submitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		if len(bytes.TrimSpace(raw)) == 0 {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}

		var req submissionRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		age := types.DefaultAge
		if req.Age != nil {
			age = types.ClampAge(*req.Age)
		}

		res := submitter.Submit(context.WithoutCancel(r.Context()), req.Name, age)
		feedback := FeedbackFor(req.Name, res)

		body := submissionResponse{
			Outcome: res.Outcome.String(),
			Message: feedback.Text,
		}

		status := http.StatusOK
		switch {
		case res.OK():
			body.Response = response.OK()
		case res.Outcome == submission.ValidationError && len(res.Fields) > 0:
			status = http.StatusBadRequest
			body.Response = response.ValidationError(res.Fields)
		case res.Outcome == submission.ValidationError:
			status = http.StatusBadRequest
			body.Response = response.GeneralError(errors.New(res.Message))
		case res.Outcome == submission.ServerError:
			status = http.StatusBadGateway
			body.Response = response.GeneralError(errors.New(res.Message))
			body.UpstreamStatus = res.StatusCode
		default:
			status = http.StatusGatewayTimeout
			body.Response = response.GeneralError(errors.New(res.Message))
		}

		slog.Info("json submission handled",
			slog.String("outcome", body.Outcome),
			slog.Int("status", status))
		response.WriteJSON(w, status, body)
	}
}

// Health handles GET /healthz
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, response.OK())
	}
}
