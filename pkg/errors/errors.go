// Package errors provides structured error types for chartcore.
//
// Errors carry a machine-readable Code so that the CLI and the HTTP API can
// map failures consistently:
//   - INVALID_*: malformed chart options or data, surfaced to the caller
//   - UNKNOWN_*: references to unregistered series or coordinate systems
//   - NOT_FOUND: missing stored documents
//   - INTERNAL_ERROR: unexpected failures
//
// Per-item numeric problems are never errors; they degrade to NaN.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidData, "series %d: unsupported data", i)
//	if errors.Is(err, errors.ErrCodeInvalidData) {
//	    // report the bad option to the user
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidOption, cause, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidData   Code = "INVALID_DATA"
	ErrCodeInvalidOption Code = "INVALID_OPTION"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidSize   Code = "INVALID_SIZE"
	ErrCodeInvalidID     Code = "INVALID_ID"

	// Registry lookups
	ErrCodeUnknownCoordSys    Code = "UNKNOWN_COORD_SYS"
	ErrCodeUnknownSeriesType  Code = "UNKNOWN_SERIES_TYPE"
	ErrCodeUnknownLayoutStage Code = "UNKNOWN_LAYOUT_STAGE"

	// Storage
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeStorage  Code = "STORAGE_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Status is the HTTP status the API answers with for errors of code c.
func (c Code) Status() int {
	switch c {
	case ErrCodeInvalidData, ErrCodeInvalidOption, ErrCodeInvalidFormat,
		ErrCodeInvalidSize, ErrCodeInvalidID,
		ErrCodeUnknownCoordSys, ErrCodeUnknownSeriesType:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	case ErrCodeStorage:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is makes the standard errors.Is match any *Error of the same code, so a
// bare &Error{Code: c} works as a sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code && t.Message == "" && t.Cause == nil
}

// New returns an error of code with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in the chain of err has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in the chain of err, or
// "" when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of a coded error without its code and
// cause, or the full text of any other error.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus returns the status for err, 500 for uncoded errors.
func HTTPStatus(err error) int {
	return GetCode(err).Status()
}
