// Package apperrors defines the failure taxonomy shared by the auth guard,
// the services and the HTTP handlers.
package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies a failure. Handlers map it to an HTTP status and a
// machine-readable code.
type Kind string

const (
	KindInvalidInput        Kind = "invalid_input"
	KindUnauthenticated     Kind = "unauthenticated"
	KindForbidden           Kind = "forbidden"
	KindNotFound            Kind = "not_found"
	KindServerMisconfigured Kind = "server_misconfigured"
	KindInternal            Kind = "internal"
)

// HTTPStatus returns the response status for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Message is safe to show to callers; Err
// carries the underlying cause for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match against another *Error of the same kind, so callers can
// write errors.Is(err, apperrors.ErrForbidden).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// Kind sentinels for errors.Is checks.
var (
	ErrInvalidInput        = &Error{Kind: KindInvalidInput}
	ErrUnauthenticated     = &Error{Kind: KindUnauthenticated}
	ErrForbidden           = &Error{Kind: KindForbidden}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrServerMisconfigured = &Error{Kind: KindServerMisconfigured}
	ErrInternal            = &Error{Kind: KindInternal}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func InvalidInput(message string) *Error { return New(KindInvalidInput, message) }

func NotFound(message string) *Error { return New(KindNotFound, message) }

func Internal(message string, err error) *Error { return Wrap(KindInternal, message, err) }

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage returns the caller-facing message for err. Unclassified
// errors never leak their text.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Internal server error"
}
