package graph

import "github.com/alfredjeanlab/loom/internal/model"

// WouldCreateCycle reports whether adding the edge from -> to in the given
// relation would close a directed cycle. It searches from `to` along the
// relation's existing forward edges: if `from` is reachable, a path
// to -> ... -> from already exists and the candidate edge would complete
// the loop.
//
// Self-loops are the caller's job to reject before calling; they are an
// input error, not a cycle.
func (idx *Index) WouldCreateCycle(rel model.Relation, from, to string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if from == to {
		return true
	}

	// BFS over forward edges starting at the candidate target.
	visited := map[string]struct{}{to: {}}
	queue := []string{to}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for next := range idx.fwd[rel][node] {
			if next == from {
				return true
			}
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	return false
}
