package model

import "time"

// Relation categorizes the directed edges of the task graph.
type Relation string

const (
	// RelContains links a session to a task it owns. Carries an ordering key.
	RelContains Relation = "contains"
	// RelParentOf links a parent task to a child task. In-degree is capped
	// at one on the child side; the relation forms a forest.
	RelParentOf Relation = "parent_of"
	// RelBlocks links a blocker task to the task it blocks. Must stay a DAG.
	RelBlocks Relation = "blocks"
)

// String returns the string representation of the relation.
func (r Relation) String() string {
	return string(r)
}

// IsValid checks whether the relation is a known value.
func (r Relation) IsValid() bool {
	switch r {
	case RelContains, RelParentOf, RelBlocks:
		return true
	}
	return false
}

// Edge is a directed relationship between two nodes, keyed by
// (relation, from, to). Endpoints are referenced by ID only; edge integrity
// across deletes is the kernel's job, not the database's.
type Edge struct {
	Relation  Relation  `json:"relation"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Ord       int       `json:"ord,omitempty"` // contains only: position within the session
	CreatedAt time.Time `json:"created_at"`
}
