package model

import "time"

// Status represents the current state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether the status counts toward blocking and readiness.
// Done and cancelled tasks are terminal: they neither block nor become ready.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusInProgress
}

// Difficulty bounds for tasks.
const (
	MinDifficulty = 1
	MaxDifficulty = 5

	// DefaultDifficulty is used when a task is created without one.
	DefaultDifficulty = 3
)

// Task is the unit of work. Structural relationships (session membership,
// parent, blockers) live in edges, not on the task record.
type Task struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Status       Status    `json:"status"`
	CancelReason string    `json:"cancel_reason,omitempty"`
	Assignee     string    `json:"assignee,omitempty"`
	Difficulty   int       `json:"difficulty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relational data -- populated by queries, not stored in the tasks table.
	SessionID string `json:"session_id,omitempty"`
	Order     int    `json:"order,omitempty"`
	ParentID  string `json:"parent_id,omitempty"`
}
