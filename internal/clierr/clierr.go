// Package clierr defines structured errors shared by the CLI and the HTTP API.
// Errors carry a machine-readable code, a human-readable message,
// and optional details for scripted consumers.
package clierr

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Error code constants: uppercase, underscore-separated, stable across minor versions.
const (
	NoDirectory      = "NO_DIRECTORY"
	InvalidPath      = "INVALID_PATH"
	InvalidInput     = "INVALID_INPUT"
	InvalidStatus    = "INVALID_STATUS"
	InvalidGroupBy   = "INVALID_GROUP_BY"
	InvalidSort      = "INVALID_SORT"
	NotFound         = "NOT_FOUND"
	SequenceNotFound = "SEQUENCE_NOT_FOUND"
	FileNotFound     = "FILE_NOT_FOUND"
	InternalError    = "INTERNAL_ERROR"
)

// Error represents a structured error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails returns the error with the given details map attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode returns 2 for InternalError, 1 for all others.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// HTTPStatus maps the error code to a response status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case NoDirectory:
		return http.StatusServiceUnavailable
	case InvalidPath, InvalidInput, InvalidStatus, InvalidGroupBy, InvalidSort:
		return http.StatusBadRequest
	case NotFound, SequenceNotFound, FileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// As returns err as an *Error, wrapping anything else as InternalError.
func As(err error) *Error {
	var cliErr *Error
	if errors.As(err, &cliErr) {
		return cliErr
	}
	return New(InternalError, err.Error())
}

// SilentError signals an exit code without additional output.
// Used when results are already written to stdout.
type SilentError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
