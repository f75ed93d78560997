package apperr

import (
	"errors"
	"fmt"
)

// Code classifies an error for the transport layer.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeInternal     Code = "internal"
)

// Error is a service-level error with a machine code and a human message.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func BadRequest(message string) *Error {
	return newError(CodeBadRequest, message)
}

func Unauthorized(message string) *Error {
	return newError(CodeUnauthorized, message)
}

func Forbidden(message string) *Error {
	return newError(CodeForbidden, message)
}

func NotFound(message string) *Error {
	return newError(CodeNotFound, message)
}

func Conflict(message string) *Error {
	return newError(CodeConflict, message)
}

// Internal wraps an unexpected failure. The cause is kept for logs, the
// message shown to the caller stays generic.
func Internal(cause error) *Error {
	return &Error{Code: CodeInternal, Message: "Something went wrong!", cause: cause}
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	return CodeInternal
}

// MessageOf extracts the user-visible message from err.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}

	return "Something went wrong!"
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
