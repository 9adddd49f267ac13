package errs

import "strings"

// FieldError is a single field-level validation failure.
//
//	{ "field": "disciplina_id", "error": "is required" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType tells the client what to do next.
type ActionType string

const (
	// ActionTypeRedirect asks the client to navigate to Action.Value.
	ActionTypeRedirect ActionType = "redirect"
)

// Action is an optional client instruction attached to an error.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the error type every layer returns when it already knows
// which status the client should see.
//
// Override marks messages that are safe to show to end users verbatim.
// Errors carries per-field validation failures and is empty for domain errors.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	Errors []FieldError `json:"errors"`

	Action *Action `json:"action"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is an *HTTPError. Status and code are not compared,
// use errors.As and inspect the fields for that.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of e carrying message.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	clone := *e
	clone.Message = message
	return &clone
}

// MakeUpperCaseWithUnderscores turns "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
