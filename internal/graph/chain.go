package graph

import (
	"sort"

	"github.com/alfredjeanlab/loom/internal/model"
)

// Hop is one node of a dependency chain with its minimum blocks-hop distance
// from the queried task.
type Hop struct {
	TaskID string
	Depth  int
}

// Upstream returns the transitive blockers of the task: every node with a
// directed blocks path into it, at its minimum hop depth. The queried task
// is excluded. Results come out in BFS order, i.e. ascending depth; callers
// that want descending order sort on Depth.
func (idx *Index) Upstream(task string) []Hop {
	return idx.closure(task, func(node string) map[string]int {
		return idx.rev[model.RelBlocks][node]
	})
}

// Downstream returns the tasks transitively blocked by the task, at minimum
// hop depth, excluding the task itself.
func (idx *Index) Downstream(task string) []Hop {
	return idx.closure(task, func(node string) map[string]int {
		return idx.fwd[model.RelBlocks][node]
	})
}

// closure runs a BFS from task over the given neighbor map. BFS visits each
// node the first time at its shortest distance, which is exactly the
// min-depth semantics: a node reachable via several paths appears once.
func (idx *Index) closure(task string, neighbors func(string) map[string]int) []Hop {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	visited := map[string]struct{}{task: {}}
	var out []Hop
	frontier := []string{task}
	depth := 0
	for len(frontier) > 0 {
		depth++
		var next []string
		for _, node := range frontier {
			for n := range neighbors(node) {
				if _, seen := visited[n]; seen {
					continue
				}
				visited[n] = struct{}{}
				next = append(next, n)
			}
		}
		// Sort within the level so output is deterministic.
		sort.Strings(next)
		for _, n := range next {
			out = append(out, Hop{TaskID: n, Depth: depth})
		}
		frontier = next
	}
	return out
}
