package model

// ChainNode is one task in a dependency chain, annotated with the minimum
// number of blocks hops from the queried task. Nodes reachable via multiple
// paths appear once, at their shortest depth. Depth is exposed so callers
// can sort either direction.
type ChainNode struct {
	Task  *Task `json:"task"`
	Depth int   `json:"depth"`
}

// Chain is the full dependency chain of a task: upstream are its transitive
// blockers, downstream the tasks it transitively blocks. The queried task
// itself is excluded from both lists.
type Chain struct {
	TaskID     string       `json:"task_id"`
	Upstream   []*ChainNode `json:"upstream"`
	Downstream []*ChainNode `json:"downstream"`
}
