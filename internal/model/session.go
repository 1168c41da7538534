package model

import "time"

// Session is a named grouping and ordering context for tasks.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartedAt time.Time `json:"started_at"`

	// Relational data -- populated by queries, not stored in the sessions table.
	Tasks []*Task `json:"tasks,omitempty"`
}
