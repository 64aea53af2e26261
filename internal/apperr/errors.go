// Package apperr defines the coded errors surfaced by the notes client.
package apperr

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure.
type Code string

const (
	ErrFetchFailure      Code = "FETCH_FAILURE"
	ErrValidationFailure Code = "VALIDATION_FAILURE"
	ErrMutationFailure   Code = "MUTATION_FAILURE"
	ErrInvalidField      Code = "INVALID_FIELD"
	ErrNotFound          Code = "NOT_FOUND"
	ErrConfig            Code = "CONFIG"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// NewFetchFailure wraps a failed initial read.
func NewFetchFailure(err error) *Error {
	return &Error{
		Code:    ErrFetchFailure,
		Message: "could not load notes",
		Err:     err,
	}
}

// NewValidationFailure reports missing required form input.
func NewValidationFailure(err error) *Error {
	return &Error{
		Code:    ErrValidationFailure,
		Message: "please enter a name and description",
		Err:     err,
	}
}

// NewMutationFailure wraps a failed remote create, update or delete.
func NewMutationFailure(op, id string, err error) *Error {
	return &Error{
		Code:    ErrMutationFailure,
		Message: fmt.Sprintf("%s note %s failed", op, id),
		Details: map[string]any{"op": op, "id": id},
		Err:     err,
	}
}

// NewInvalidField reports an unknown form field name.
func NewInvalidField(field string) *Error {
	return &Error{
		Code:    ErrInvalidField,
		Message: fmt.Sprintf("unknown form field %q", field),
		Details: map[string]any{"field": field},
	}
}

// NewNotFound reports a note reference that matches nothing.
func NewNotFound(ref string) *Error {
	return &Error{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("note not found: %s", ref),
		Details: map[string]any{"ref": ref},
	}
}

// NewConfig wraps a configuration load or validation failure.
func NewConfig(err error) *Error {
	return &Error{
		Code:    ErrConfig,
		Message: "invalid configuration",
		Err:     err,
	}
}

// Is reports whether err, or anything it wraps, is an *Error with the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
