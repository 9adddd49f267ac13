package errs

import (
	"net/http"
)

func statusCode(status int, code *string) string {
	if code != nil {
		return *code
	}
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// NewUnauthorizedError creates a 401 error. The auth gate returns it when the
// request carries no usable session.
func NewUnauthorizedError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusUnauthorized, nil),
		Message:  message,
		Status:   http.StatusUnauthorized,
		Override: override,
	}
}

// NewForbiddenError creates a 403 error for an authenticated caller who is not
// allowed to touch the resource.
func NewForbiddenError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusForbidden, nil),
		Message:  message,
		Status:   http.StatusForbidden,
		Override: override,
	}
}

// NewBadRequestError creates a 400 error.
//
// code replaces the default "BAD_REQUEST" when non-nil, errors carries the
// field-level failures of a validation rule set and action is an optional
// client instruction.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusBadRequest, code),
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewNotFoundError creates a 404 error.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusNotFound, code),
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewConflictError creates a 409 error: the request is well formed but clashes
// with the current state of a resource (duplicate active monitoria, a status
// transition that already happened, a unique constraint).
func NewConflictError(message string, override bool, code *string) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusConflict, code),
		Message:  message,
		Status:   http.StatusConflict,
		Override: override,
	}
}

// NewInternalServerError creates a generic 500. The real cause is logged by
// the global error handler and never sent to the client.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusInternalServerError, nil),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// ValidationError wraps a validator error into a 400.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil, nil)
}
