package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateSession checks a Session for constraint violations.
func ValidateSession(s *Session) error {
	var ve ValidationError

	title := strings.TrimSpace(s.Title)
	if title == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "is required"})
	} else if len([]rune(title)) > 500 {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "must be 500 characters or fewer"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateTask checks a Task for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the task is valid.
func ValidateTask(t *Task) error {
	var ve ValidationError

	// Title: required and at most 500 characters.
	title := strings.TrimSpace(t.Title)
	if title == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "is required"})
	} else if len([]rune(title)) > 500 {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "must be 500 characters or fewer"})
	}

	// Difficulty: must be 1-5.
	if t.Difficulty < MinDifficulty || t.Difficulty > MaxDifficulty {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "difficulty",
			Message: fmt.Sprintf("must be between %d and %d, got %d", MinDifficulty, MaxDifficulty, t.Difficulty),
		})
	}

	// Status: must be a valid enum value (closed set).
	if !t.Status.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "status",
			Message: fmt.Sprintf("invalid value %q", t.Status),
		})
	}

	// CancelReason consistency with Status: set iff cancelled.
	if t.Status == StatusCancelled && strings.TrimSpace(t.CancelReason) == "" {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "cancel_reason",
			Message: "is required when status is cancelled",
		})
	}
	if t.Status != StatusCancelled && t.CancelReason != "" {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "cancel_reason",
			Message: "must be empty when status is not cancelled",
		})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
