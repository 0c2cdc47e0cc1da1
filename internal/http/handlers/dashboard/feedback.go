package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aanand-mishra/edutrack/internal/submission"
	"github.com/aanand-mishra/edutrack/internal/types"
)

// Feedback levels, also used as CSS class names by the template.
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelWarning = "warning"
)

// Feedback is the one line shown under the form after a submission.
type Feedback struct {
	Level string
	Text  string
}

// FeedbackFor maps a submission result to its user-facing line.
func FeedbackFor(name string, res submission.Result) Feedback {
	if res.OK() {
		return Feedback{Level: LevelSuccess, Text: fmt.Sprintf("Student '%s' added successfully!", name)}
	}
	switch res.Outcome {
	case submission.ServerError:
		return Feedback{Level: LevelError, Text: "Error: " + res.Message}
	case submission.TransportError:
		return Feedback{Level: LevelError, Text: "Backend Error: " + res.Message}
	default:
		return Feedback{Level: LevelWarning, Text: "Please enter a name."}
	}
}

// ParseAge reads the age field the way the number input would constrain it:
// empty or non-numeric falls back to the default, anything else is clamped.
func ParseAge(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return types.DefaultAge
	}
	age, err := strconv.Atoi(raw)
	if err != nil {
		return types.DefaultAge
	}
	return types.ClampAge(age)
}
