// Package apperror defines the error kinds surfaced at the HTTP boundary.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/seawatch-systems/seawatch-stack/common/httputil"
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindDatabase
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
	KindTooManyRequests
)

func (k Kind) String() string {
	switch k {
	case KindDatabase:
		return "database"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindTooManyRequests:
		return "too_many_requests"
	default:
		return "internal"
	}
}

// Error is an error with a kind and a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Kind == KindDatabase {
		if e.Err != nil {
			return "Database error: " + e.Err.Error()
		}
		return "Database error: " + e.Message
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code for the error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

func Forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Message: msg} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

func Internal(msg string) *Error { return &Error{Kind: KindInternal, Message: msg} }

func TooManyRequests(msg string) *Error { return &Error{Kind: KindTooManyRequests, Message: msg} }

// Database wraps a storage failure.
func Database(err error) *Error {
	return &Error{Kind: KindDatabase, Message: err.Error(), Err: err}
}

// Forbiddenf formats a Forbidden message.
func Forbiddenf(format string, args ...any) *Error {
	return Forbidden(fmt.Sprintf(format, args...))
}

// From converts any error into an *Error. Errors that are not already
// application errors become Internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Kind: KindInternal, Message: err.Error(), Err: err}
}

// IsKind reports whether err is an application error of kind k.
func IsKind(err error, k Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == k
}

// Write renders err as a JSON message body with the status of its kind.
func Write(w http.ResponseWriter, err error) {
	appErr := From(err)
	httputil.WriteError(w, appErr.Status(), appErr.Error())
}
