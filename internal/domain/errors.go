package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports malformed or incomplete input. It is the
// caller's fault and is never retried.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, f+": "+msg)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// OrderPlacementError is returned after the submission retry budget is
// exhausted. Err is the error from the final attempt.
type OrderPlacementError struct {
	Attempts int
	Err      error
}

func (e *OrderPlacementError) Error() string {
	if e.Err == nil {
		return "order could not be placed, please try again"
	}
	return fmt.Sprintf("order could not be placed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *OrderPlacementError) Unwrap() error { return e.Err }

// NotFoundError reports a missing referenced entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError reports a duplicate completion or an invalid state
// transition. Never retried.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}
