// Package response provides helpers for writing consistent JSON HTTP responses.
//
// The dashboard's JSON endpoints all answer through WriteJSON. Error
// responses always look like:
//
//	{ "status": "error", "error": "name cannot be blank" }
package response

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/aanand-mishra/edutrack/internal/validate"
)

// Response is the standard envelope returned for error cases.
type Response struct {
	Status string            `json:"status"`           // "ok" or "error"
	Error  string            `json:"error,omitempty"`  // human-readable error detail
	Fields map[string]string `json:"fields,omitempty"` // per-field validation messages
}

// Status string constants, so a typo is caught by the compiler.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes data JSON-encoded with the given HTTP status code.
// Header() → WriteHeader() → body, in that order: headers are locked once
// WriteHeader is called.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// OK is the body of a bare success response.
func OK() Response {
	return Response{Status: StatusOK}
}

// GeneralError wraps any Go error into the standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ValidationError turns translated field errors into a Response keeping
// both the joined sentence and the per-field messages.
func ValidationError(fields validate.FieldErrors) Response {
	return Response{
		Status: StatusError,
		Error:  fields.Error(),
		Fields: fields,
	}
}
