// Package errors provides structured error types for bspgen.
//
// Every error that crosses a package boundary towards the CLI or the HTTP
// server carries a machine-readable [Code]. The CLI prints the message, the
// server maps the code to a status with [HTTPStatus].
//
// # Error Codes
//
// INVALID_* codes reject a request before any generation work starts and
// map to 400. TIMEOUT and CANCELED come from the caller's context, see
// [FromContext]. CACHE_ERROR is only returned when a cache failure cannot
// be degraded to a miss.
//
//	if err := cfg.Validate(); err != nil {
//	    return errors.Wrap(errors.ErrCodeInvalidConfig, err, "generator")
//	}
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Code is the machine-readable part of an [Error].
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidSeed   Code = "INVALID_SEED"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	ErrCodeCache Code = "CACHE_ERROR"

	ErrCodeTimeout  Code = "TIMEOUT"
	ErrCodeCanceled Code = "CANCELED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error. Message is what the CLI prints and what the
// server puts in the "error" field of its JSON body.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap keeps cause reachable through errors.Is and errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage strips the code prefix and the cause from coded errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// FromContext codes a context error for op: an expired deadline becomes
// ErrCodeTimeout and any other error ErrCodeCanceled.
func FromContext(err error, op string) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(ErrCodeTimeout, err, "%s: deadline exceeded", op)
	}
	return Wrap(ErrCodeCanceled, err, "%s: canceled", op)
}

// HTTPStatus maps the code carried by err to an HTTP status. Uncoded
// errors map to 500.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeInvalidSeed, ErrCodeInvalidFormat, ErrCodeInvalidPath:
		return http.StatusBadRequest
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
