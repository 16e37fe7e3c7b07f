package application

import (
	"errors"
	"net/http"
)

// Kind classifies failures raised at the flow boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindConflict
	KindUnauthorized
	KindForbidden
	KindNotFound
)

// AppError is a typed failure carrying an HTTP-style status and a client-safe message.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches on Kind so callers can write errors.Is(err, ErrForbidden).
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Status maps the kind onto an HTTP status. Conflicts are reported as 400.
func (e *AppError) Status() int {
	switch e.Kind {
	case KindBadRequest, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Sentinels for errors.Is checks.
var (
	ErrBadRequest   = &AppError{Kind: KindBadRequest, Message: "bad request"}
	ErrConflict     = &AppError{Kind: KindConflict, Message: "conflict"}
	ErrUnauthorized = &AppError{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrForbidden    = &AppError{Kind: KindForbidden, Message: "forbidden"}
	ErrNotFound     = &AppError{Kind: KindNotFound, Message: "not found"}
)

func badRequest(msg string, err error) *AppError {
	return &AppError{Kind: KindBadRequest, Message: msg, Err: err}
}
func conflict(msg string) *AppError     { return &AppError{Kind: KindConflict, Message: msg} }
func unauthorized(msg string) *AppError { return &AppError{Kind: KindUnauthorized, Message: msg} }
func forbidden(msg string) *AppError    { return &AppError{Kind: KindForbidden, Message: msg} }
func notFound(msg string) *AppError     { return &AppError{Kind: KindNotFound, Message: msg} }

// AsAppError returns err as *AppError, wrapping unknown errors as internal.
func AsAppError(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return &AppError{Kind: KindInternal, Message: "internal server error", Err: err}
}
