package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRouting    Category = "routing"
	CategoryNavigation Category = "navigation"
	CategoryConfig     Category = "config"
	CategoryProtocol   Category = "protocol"
	CategoryStorage    Category = "storage"
	CategoryAssistant  Category = "assistant"
	CategoryCLI        Category = "cli"
)

// ParkError is a structured error with a code, explanation and fix suggestion.
type ParkError struct {
	// Code is a unique error identifier (e.g., "R002").
	Code string

	// Category is the error type (routing, config, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ParkError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ParkError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a ParkError with the same code.
func (e *ParkError) Is(target error) bool {
	t, ok := target.(*ParkError)
	if !ok || t.Code == "" {
		return false
	}
	return e.Code == t.Code
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ParkError) WithSuggestion(s string) *ParkError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *ParkError) WithDetail(d string) *ParkError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *ParkError) WithDetailf(format string, args ...any) *ParkError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *ParkError) Wrap(err error) *ParkError {
	e.Wrapped = err
	return e
}

// New creates a ParkError from a registered error code.
// Detail is left empty; the template's detail is reachable via GetTemplate.
func New(code string) *ParkError {
	template, ok := registry[code]
	if !ok {
		return &ParkError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &ParkError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
	}
}

// Newf creates a new ParkError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *ParkError {
	return &ParkError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a ParkError.
func FromError(err error, code string) *ParkError {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*ParkError); ok {
		return pe
	}
	return New(code).Wrap(err)
}

// As is errors.As, re-exported so callers importing this package under the
// name errors keep access to it.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Is is errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// Join is errors.Join.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// CodeOf returns the code of the first ParkError in err's tree, or "".
func CodeOf(err error) string {
	var pe *ParkError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
