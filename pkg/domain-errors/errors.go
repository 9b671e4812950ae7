// Package domainerrors provides coded errors for the domain-service boundary.
//
// Services translate store sentinels into coded errors here; transport
// adapters map codes to wire representations (HTTP status, reply envelope)
// without inspecting error text. Import with the dErrors alias.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for transport mapping.
type Code string

const (
	// CodeValidation marks malformed or out-of-range input caught before the
	// domain service runs.
	CodeValidation Code = "invalid_request"
	// CodeBadRequest marks a request whose body could not be decoded at all.
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks operations referencing a nonexistent record.
	CodeNotFound Code = "not_found"
	// CodeConflict marks uniqueness or referential rule breaches.
	CodeConflict Code = "conflict"
	// CodeInternal marks infrastructure faults. These are never reinterpreted
	// as absence; the description is not exposed on the wire.
	CodeInternal Code = "internal_error"
	// CodeInvariantViolation marks a model constructor rejecting bad state.
	// Services convert it to CodeValidation before it reaches a transport.
	CodeInvariantViolation Code = "invariant_violation"
)

// Error is a coded domain error with an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New constructs a coded error with no cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf constructs a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is / errors.As inspection.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for uncoded
// errors so infrastructure faults never leak as client errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HTTPStatus maps a code to its HTTP response status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
