// Package apperrors defines the error taxonomy shared by the intake pipeline
// and the HTTP layer.
package apperrors

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

type Kind int

const (
	KindInternal Kind = iota
	KindAuth
	KindValidation
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error carries a kind and a caller-facing message. The wrapped cause, if
// any, stays reachable through errors.Is / errors.As.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind Kind, msg string, cause error) error {
	return &Error{Kind: kind, Message: msg, cause: cause}
}

func Auth(msg string) error {
	return newError(KindAuth, msg, nil)
}

func Validation(msg string) error {
	return newError(KindValidation, msg, nil)
}

func Validationf(format string, args ...interface{}) error {
	return newError(KindValidation, errors.Newf(format, args...).Error(), nil)
}

func NotFound(msg string) error {
	return newError(KindNotFound, msg, nil)
}

func Conflict(msg string, cause error) error {
	return newError(KindConflict, msg, cause)
}

// Internal wraps a collaborator failure. The collaborator message is kept as
// the caller-facing message.
func Internal(cause error, context string) error {
	if cause == nil {
		return nil
	}
	wrapped := errors.Wrap(cause, context)
	return newError(KindInternal, cause.Error(), wrapped)
}

// KindOf reports the kind of err. Errors outside the taxonomy are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Message returns the caller-facing message for err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindAuth:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
