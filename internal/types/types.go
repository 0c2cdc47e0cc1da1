// Package types holds the data structures shared across the application.
// Keeping them in one place prevents import cycles: the submission client,
// the dashboard handlers and the validators all import types without
// depending on each other.
package types

// Bounds of the age input control on the registration form.
const (
	MinAge     = 1
	MaxAge     = 100
	DefaultAge = 18
)

// StudentInput is one student registration as typed into the form.
// It is created per submission and thrown away once the backend answers.
//
// The json tags define the wire body sent to POST /student/post:
//
//	{ "name": "John Doe", "age": 18 }
//
// Age carries no validate tag: the input layer clamps it to [MinAge, MaxAge]
// before it ever reaches the submission handler.
type StudentInput struct {
	Name string `json:"name" validate:"notblank"`
	Age  int    `json:"age"`
}

// ClampAge pins age into [MinAge, MaxAge].
func ClampAge(age int) int {
	switch {
	case age < MinAge:
		return MinAge
	case age > MaxAge:
		return MaxAge
	default:
		return age
	}
}
