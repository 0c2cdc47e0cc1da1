package submission

import "github.com/aanand-mishra/edutrack/internal/validate"

// Outcome tags a Result.
type Outcome int

const (
	// Success means the backend answered 200.
	Success Outcome = iota
	// ValidationError means the input was rejected locally; no request was sent.
	ValidationError
	// ServerError means the backend answered with a non-200 status.
	ServerError
	// TransportError means no usable answer came back: DNS failure,
	// refused connection, timeout and the like.
	TransportError
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case ValidationError:
		return "validation_error"
	case ServerError:
		return "server_error"
	case TransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Result is the outcome of one submission attempt. Switch on Outcome:
//
//	Success         StatusCode is 200, Message is empty
//	ValidationError Fields holds the failing fields, Message joins them
//	ServerError     StatusCode is the backend's, Message is its raw body
//	TransportError  Message describes the failure, never empty
type Result struct {
	Outcome    Outcome
	Message    string
	StatusCode int
	Fields     validate.FieldErrors
}

// OK reports whether the student was accepted by the backend.
func (r Result) OK() bool { return r.Outcome == Success }
