package validation

import (
	"net/http"

	"github.com/next-trace/scg-mediator/outcome"
)

// Kind classifies a domain Error.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindConflict
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// HTTPStatus maps a Kind to the status code a transport layer would normally use.
// The dispatch core never calls it.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is an immutable business-level failure carried inside outcome containers.
type Error struct {
	code        string
	description string
	kind        Kind
}

func newError(code, description string, kind Kind) Error {
	return Error{code: code, description: description, kind: kind}
}

func Validation(code, description string) Error { return newError(code, description, KindValidation) }

func NotFound(code, description string) Error { return newError(code, description, KindNotFound) }

func Unauthorized(code, description string) Error {
	return newError(code, description, KindUnauthorized)
}

func Forbidden(code, description string) Error { return newError(code, description, KindForbidden) }

func Conflict(code, description string) Error { return newError(code, description, KindConflict) }

func Internal(code, description string) Error { return newError(code, description, KindInternal) }

func (e Error) Code() string { return e.code }

// Description is empty when none was given.
func (e Error) Description() string { return e.description }

func (e Error) Kind() Kind { return e.kind }

func (e Error) Error() string {
	if e.description == "" {
		return e.kind.String() + ": " + e.code
	}

	return e.kind.String() + ": " + e.code + ": " + e.description
}

// Option wraps e as a non-empty optional error, the failure outcome of a request handler.
func (e Error) Option() outcome.Option[Error] { return outcome.Some(e) }

// NoError is the success outcome of a request handler.
func NoError() outcome.Option[Error] { return outcome.None[Error]() }

// Fail builds the failure outcome of a query handler returning T.
func Fail[T any](e Error) outcome.Result[T, Error] { return outcome.FromError[T](e) }

// Ok builds the success outcome of a query handler returning T.
func Ok[T any](v T) outcome.Result[T, Error] { return outcome.FromValue[T, Error](v) }
