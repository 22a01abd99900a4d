package apperr

import (
	"errors"
	"net/http"
)

// Kinds classify failures surfaced to API callers. Match them with errors.Is.
var (
	InvalidInput        = errors.New("invalid input")
	Conflict            = errors.New("conflict")
	Unauthorized        = errors.New("unauthorized")
	Unauthenticated     = errors.New("unauthenticated")
	NotFound            = errors.New("not found")
	InsufficientBalance = errors.New("insufficient balance")
)

// Error carries a caller-facing message alongside its kind.
type Error struct {
	Kind    error
	Message string
}

// New builds an Error of the given kind.
func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// HTTPStatus maps an error onto the status code the API replies with.
// Errors outside the taxonomy are internal failures.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, InvalidInput), errors.Is(err, InsufficientBalance):
		return http.StatusBadRequest
	case errors.Is(err, Conflict):
		return http.StatusConflict
	case errors.Is(err, Unauthorized), errors.Is(err, Unauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, NotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show a caller.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	return "internal error"
}
