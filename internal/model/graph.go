package model

// GraphEdge represents a relationship as a graph edge for visualization.
type GraphEdge struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation"`
}

// GraphStats holds aggregate task counts by status.
type GraphStats struct {
	TotalPending    int `json:"total_pending"`
	TotalInProgress int `json:"total_in_progress"`
	TotalDone       int `json:"total_done"`
	TotalCancelled  int `json:"total_cancelled"`
}

// GraphResponse is the response for the graph visualization endpoint.
type GraphResponse struct {
	Nodes []*Task      `json:"nodes"`
	Edges []*GraphEdge `json:"edges"`
	Stats *GraphStats  `json:"stats"`
}
