package model

import (
	"strings"
	"testing"
)

// validTask returns a Task that passes all validation rules.
func validTask() Task {
	return Task{
		Title:      "Implement login flow",
		Status:     StatusPending,
		Difficulty: 3,
	}
}

// fieldErrors extracts a *ValidationError from err or fails the test.
func fieldErrors(t *testing.T, err error) []FieldError {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	return ve.Errors
}

// hasFieldError reports whether the error list contains an error for the given field.
func hasFieldError(errs []FieldError, field string) bool {
	for _, fe := range errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func TestValidateTask_TitleRequired(t *testing.T) {
	task := validTask()
	task.Title = ""
	errs := fieldErrors(t, ValidateTask(&task))
	if !hasFieldError(errs, "title") {
		t.Error("expected error on field 'title' for empty title")
	}
}

func TestValidateTask_TitleWhitespaceOnly(t *testing.T) {
	task := validTask()
	task.Title = "   \t\n  "
	errs := fieldErrors(t, ValidateTask(&task))
	if !hasFieldError(errs, "title") {
		t.Error("expected error on field 'title' for whitespace-only title")
	}
}

func TestValidateTask_TitleExactly500(t *testing.T) {
	task := validTask()
	task.Title = strings.Repeat("a", 500)
	if err := ValidateTask(&task); err != nil {
		t.Errorf("title with exactly 500 chars should be valid, got: %v", err)
	}
	task.Title = strings.Repeat("a", 501)
	errs := fieldErrors(t, ValidateTask(&task))
	if !hasFieldError(errs, "title") {
		t.Error("expected error on field 'title' for title exceeding 500 chars")
	}
}

func TestValidateTask_DifficultyBounds(t *testing.T) {
	for _, d := range []int{1, 2, 3, 4, 5} {
		task := validTask()
		task.Difficulty = d
		if err := ValidateTask(&task); err != nil {
			t.Errorf("difficulty %d should be valid, got: %v", d, err)
		}
	}
	for _, d := range []int{0, -1, 6, 100} {
		task := validTask()
		task.Difficulty = d
		errs := fieldErrors(t, ValidateTask(&task))
		if !hasFieldError(errs, "difficulty") {
			t.Errorf("expected error on field 'difficulty' for %d", d)
		}
	}
}

func TestValidateTask_InvalidStatus(t *testing.T) {
	task := validTask()
	task.Status = Status("open")
	errs := fieldErrors(t, ValidateTask(&task))
	if !hasFieldError(errs, "status") {
		t.Error("expected error on field 'status' for unknown status")
	}
}

func TestValidateTask_CancelReasonRequiredWhenCancelled(t *testing.T) {
	task := validTask()
	task.Status = StatusCancelled
	errs := fieldErrors(t, ValidateTask(&task))
	if !hasFieldError(errs, "cancel_reason") {
		t.Error("expected error on field 'cancel_reason' for cancelled task without a reason")
	}

	task.CancelReason = "superseded by ts-xyz"
	if err := ValidateTask(&task); err != nil {
		t.Errorf("cancelled task with a reason should be valid, got: %v", err)
	}
}

func TestValidateTask_CancelReasonForbiddenOtherwise(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusInProgress, StatusDone} {
		task := validTask()
		task.Status = s
		task.CancelReason = "should not be here"
		errs := fieldErrors(t, ValidateTask(&task))
		if !hasFieldError(errs, "cancel_reason") {
			t.Errorf("expected error on field 'cancel_reason' for status %q", s)
		}
	}
}

func TestValidateTask_MultipleErrors(t *testing.T) {
	task := Task{Title: "", Status: Status("bogus"), Difficulty: 9}
	errs := fieldErrors(t, ValidateTask(&task))
	for _, field := range []string{"title", "status", "difficulty"} {
		if !hasFieldError(errs, field) {
			t.Errorf("expected error on field %q", field)
		}
	}
}

func TestValidateSession(t *testing.T) {
	s := Session{Title: "Sprint 12"}
	if err := ValidateSession(&s); err != nil {
		t.Errorf("valid session rejected: %v", err)
	}
	s.Title = "  "
	errs := fieldErrors(t, ValidateSession(&s))
	if !hasFieldError(errs, "title") {
		t.Error("expected error on field 'title' for blank session title")
	}
}

func TestValidationError_Message(t *testing.T) {
	ve := &ValidationError{Errors: []FieldError{
		{Field: "title", Message: "is required"},
		{Field: "difficulty", Message: "must be between 1 and 5, got 9"},
	}}
	msg := ve.Error()
	if !strings.Contains(msg, "title: is required") || !strings.Contains(msg, "difficulty:") {
		t.Errorf("unexpected message: %q", msg)
	}
}
