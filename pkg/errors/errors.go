// Package errors provides the module's operational error taxonomy,
// reserved for genuinely exceptional caller-input problems. Feasibility
// outcomes (why an assignment was rejected) are a separate, richer
// tagged union living in pkg/model as *model.Reason; this package never
// represents those.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code is a closed operational error taxonomy.
type Code string

const (
	CodeUnknown           Code = "UNKNOWN"
	CodeInternal          Code = "INTERNAL_ERROR"
	CodeInvalidInput      Code = "INVALID_INPUT"
	CodeTimeout           Code = "TIMEOUT"
	CodeNoFeasibleSolution Code = "NO_FEASIBLE_SOLUTION"
)

// AppError is the module's error type: a stable code plus a message,
// optionally wrapping an underlying cause.
type AppError struct {
	Code    Code                   `json:"code"`
	Message string                 `json:"message"`
	Details string                 `json:"details,omitempty"`
	Cause   error                  `json:"-"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails attaches a longer diagnostic string.
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithField attaches a structured field for logging.
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// New creates a new AppError.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap creates a new AppError wrapping an underlying cause.
func Wrap(err error, code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, Cause: err}
}

// Is reports whether err is an AppError with the given code.
func Is(err error, code Code) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the Code from err, or CodeUnknown if err is not an
// AppError.
func GetCode(err error) Code {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// InvalidInput builds the error for a malformed scheduling request: an
// empty roster, a non-positive group count, or a lock naming an
// out-of-range group.
func InvalidInput(field, reason string) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf("field '%s' invalid: %s", field, reason))
}

// NoFeasibleSolution builds the error for a run that could not produce
// any usable partial schedule at all (distinct from an incomplete one,
// which is reported via coverage and conflicts, never as an error).
func NoFeasibleSolution(reason string) *AppError {
	return New(CodeNoFeasibleSolution, reason)
}
