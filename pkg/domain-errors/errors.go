// Package domainerrors provides coded errors for domain and service layers.
//
// Services return these so transports can map failures to protocol responses
// and callers can branch on failure kind without string matching. Stores keep
// returning pkg/platform/sentinel errors; services translate at the boundary.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	// CodeValidation marks malformed or out-of-range input.
	CodeValidation Code = "validation"
	// CodeBadRequest marks structurally invalid requests (unparseable body, bad id).
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks a missing entity that the operation requires.
	CodeNotFound Code = "not_found"
	// CodeConflict marks a state conflict (duplicate registration, repeated transition).
	CodeConflict Code = "conflict"
	// CodeForbidden marks an operation the caller is not allowed to perform.
	CodeForbidden Code = "forbidden"
	// CodeUnprocessable marks a well-formed request the current state rejects.
	CodeUnprocessable Code = "unprocessable"
	// CodeTimeout marks an aborted operation due to deadline or cancellation.
	CodeTimeout Code = "timeout"
	// CodeUnavailable marks a failed external collaborator (value mover, broker).
	CodeUnavailable Code = "unavailable"
	// CodeInvariantViolation marks a broken model invariant; services usually
	// translate it into CodeValidation or CodeConflict before it leaves.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInternal marks unexpected infrastructure failures.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. Named conditions are declared as package
// variables in the owning module's models package and matched with errors.Is;
// the code rides along for logging and HTTP translation.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error with the given message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a code and message, keeping err in the chain for
// errors.Is / errors.As matching.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if errors.As(err, &de) {
			if de.Code == code {
				return true
			}
			err = de.Err
			continue
		}
		return false
	}
	return false
}

// CodeOf returns the code of the outermost coded error, or CodeInternal when
// the chain carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HTTPStatus maps a code to the HTTP status used by the transport layer.
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeForbidden:
		return http.StatusForbidden
	case CodeUnprocessable, CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
