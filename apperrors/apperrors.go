package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies a domain error so HTTP status codes can be derived
// mechanically instead of collapsing everything into 400.
type Kind int

const (
	// NotFound means an entity id could not be resolved.
	NotFound Kind = iota
	// Conflict means a uniqueness or business-limit violation (duplicate
	// email/phone, pet limit exceeded, wrong-type actor, lost write race).
	Conflict
	// Forbidden means the acting user is not allowed to perform a
	// lifecycle operation on the target entity.
	Forbidden
	// InvalidState means a lifecycle transition precondition was unmet.
	InvalidState
	// Validation means malformed or out-of-range request data.
	Validation
	// Unauthorized means a failed credential check.
	Unauthorized
)

// Error is a domain error with a machine-readable kind, a stable code for
// API clients and a human-readable message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// HTTPStatus maps the error kind to its HTTP status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Forbidden:
		return http.StatusForbidden
	case InvalidState:
		return http.StatusUnprocessableEntity
	case Unauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

// New builds a domain error.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// As unwraps err into an *Error, or nil if it is not one.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	if appErr := As(err); appErr != nil {
		return appErr.Kind == kind
	}
	return false
}
