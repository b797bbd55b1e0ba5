package errs

import (
	"net/http"
)

func statusCode(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// NewBadRequestError creates a 400. code overrides the default BAD_REQUEST
// when non-nil.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError) *HTTPError {
	formattedCode := statusCode(http.StatusBadRequest)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
	}
}

// NewNotFoundError creates a 404.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := statusCode(http.StatusNotFound)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewTooManyRequestsError creates a 429 for the rate limiter.
func NewTooManyRequestsError(message string) *HTTPError {
	return &HTTPError{
		Code:      statusCode(http.StatusTooManyRequests),
		Message:   message,
		Status:    http.StatusTooManyRequests,
		Override:  true,
		Retryable: true,
	}
}

// NewServiceUnavailableError creates a 503, used when the cluster cannot
// serve the request right now (unavailable replicas, timeouts, no hosts).
func NewServiceUnavailableError(message string, code *string) *HTTPError {
	formattedCode := statusCode(http.StatusServiceUnavailable)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:      formattedCode,
		Message:   message,
		Status:    http.StatusServiceUnavailable,
		Override:  true,
		Retryable: true,
	}
}

// NewInternalServerError creates a 500 carrying only the generic status
// text; the real cause stays in the logs.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    statusCode(http.StatusInternalServerError),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
	}
}

// ValidationError wraps a validator error in a 400.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil)
}
