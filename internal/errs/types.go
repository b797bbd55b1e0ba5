package errs

import "strings"

// FieldError is a validation problem tied to one input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the API error payload. It implements error so handlers can
// return it directly and the global error handler can render it.
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`

	// Override marks messages that are safe to show verbatim to clients.
	Override bool `json:"override"`

	Errors []FieldError `json:"errors,omitempty"`

	// Retryable hints that the same request may succeed later, e.g. when
	// the cluster reported too few live replicas.
	Retryable bool `json:"retryable,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is matches any *HTTPError, so errors.Is(err, &HTTPError{}) asks
// "is this already an API error?".
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	cp := *e
	cp.Message = message
	return &cp
}

// MakeUpperCaseWithUnderscores turns "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
