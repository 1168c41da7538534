package model

import (
	"errors"
	"fmt"
)

// NotFoundError indicates a referenced session or task does not exist.
type NotFoundError struct {
	Kind string // "session" or "task"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// NotFound reports whether err is a NotFoundError.
func NotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// CycleError indicates a requested edge would close a directed cycle.
type CycleError struct {
	Relation Relation
	From     string
	To       string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("adding %s edge %s -> %s would create a cycle", e.Relation, e.From, e.To)
}

// ConflictError indicates a structural precondition failed, e.g. deleting a
// task that still has subtasks without cascade.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// ErrTxConflict is returned when the storage layer detects a concurrent
// modification. Unlike the other error kinds it is retryable; retry policy
// belongs to the caller.
var ErrTxConflict = errors.New("transaction conflict: concurrent modification detected")
