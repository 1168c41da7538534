package model

// TaskFilter holds criteria for querying tasks.
type TaskFilter struct {
	SessionID  string   `json:"session_id,omitempty"` // restrict to one session (ordered by contains.ord)
	Status     []Status `json:"status,omitempty"`
	Assignee   string   `json:"assignee,omitempty"`
	Difficulty *int     `json:"difficulty,omitempty"`
	Search     string   `json:"search,omitempty"` // substring match on title/description
	Sort       string   `json:"sort,omitempty"`   // e.g. "-difficulty", "created_at"; prefix "-" = descending
	Limit      int      `json:"limit,omitempty"`
	Offset     int      `json:"offset,omitempty"`
}

// ReadyFilter narrows a ready-tasks query within a session.
type ReadyFilter struct {
	Assignee string `json:"assignee,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}
