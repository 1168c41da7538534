// Package graph is the task-graph consistency kernel: an in-memory adjacency
// index over the three relations, cycle detection, per-session ordering, and
// the readiness/chain queries derived from them. The index mirrors the edge
// rows in the store; the server applies every committed mutation to both.
package graph

import (
	"sort"
	"sync"

	"github.com/alfredjeanlab/loom/internal/model"
)

// Index holds forward and reverse adjacency for every relation, with the
// contains ordering key stored as the edge attribute. All methods are safe
// for concurrent use; mutations take the write lock, queries the read lock,
// so a reader never observes a half-applied structural change.
type Index struct {
	mu  sync.RWMutex
	fwd map[model.Relation]map[string]map[string]int // from -> to -> ord
	rev map[model.Relation]map[string]map[string]int // to -> from -> ord
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	idx := &Index{}
	idx.reset()
	return idx
}

func (idx *Index) reset() {
	idx.fwd = make(map[model.Relation]map[string]map[string]int)
	idx.rev = make(map[model.Relation]map[string]map[string]int)
	for _, rel := range []model.Relation{model.RelContains, model.RelParentOf, model.RelBlocks} {
		idx.fwd[rel] = make(map[string]map[string]int)
		idx.rev[rel] = make(map[string]map[string]int)
	}
}

// Rebuild replaces the index contents with the given edge set.
// Used at startup to hydrate from the store.
func (idx *Index) Rebuild(edges []*model.Edge) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.reset()
	for _, e := range edges {
		idx.upsertLocked(e.Relation, e.From, e.To, e.Ord)
	}
}

// Upsert adds the edge (relation, from, to) with the given attribute, or
// updates the attribute if the edge already exists (MERGE semantics: never
// a duplicate).
func (idx *Index) Upsert(rel model.Relation, from, to string, ord int) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.upsertLocked(rel, from, to, ord)
}

func (idx *Index) upsertLocked(rel model.Relation, from, to string, ord int) {
	if idx.fwd[rel][from] == nil {
		idx.fwd[rel][from] = make(map[string]int)
	}
	idx.fwd[rel][from][to] = ord
	if idx.rev[rel][to] == nil {
		idx.rev[rel][to] = make(map[string]int)
	}
	idx.rev[rel][to][from] = ord
}

// Remove deletes the edge if present and reports whether it existed.
// Removing a non-existent edge is a no-op, not an error.
func (idx *Index) Remove(rel model.Relation, from, to string) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.removeLocked(rel, from, to)
}

func (idx *Index) removeLocked(rel model.Relation, from, to string) bool {
	tos, ok := idx.fwd[rel][from]
	if !ok {
		return false
	}
	if _, ok := tos[to]; !ok {
		return false
	}
	delete(tos, to)
	if len(tos) == 0 {
		delete(idx.fwd[rel], from)
	}
	froms := idx.rev[rel][to]
	delete(froms, from)
	if len(froms) == 0 {
		delete(idx.rev[rel], to)
	}
	return true
}

// Has reports whether the edge (relation, from, to) exists.
func (idx *Index) Has(rel model.Relation, from, to string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.fwd[rel][from][to]
	return ok
}

// Forward returns the targets of all edges leaving node in the relation.
func (idx *Index) Forward(rel model.Relation, node string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return keys(idx.fwd[rel][node])
}

// Reverse returns the sources of all edges entering node in the relation.
func (idx *Index) Reverse(rel model.Relation, node string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return keys(idx.rev[rel][node])
}

// Apply installs one logical write's edge changes under a single write lock:
// removals first, then upserts. Readers observe the whole change or none of
// it, never an in-between state.
func (idx *Index) Apply(removals, upserts []*model.Edge) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, e := range removals {
		idx.removeLocked(e.Relation, e.From, e.To)
	}
	for _, e := range upserts {
		idx.upsertLocked(e.Relation, e.From, e.To, e.Ord)
	}
}

// RemoveAllIncident removes every edge touching any of the nodes, in any
// relation and either direction, under one write lock so a multi-node
// cascade disappears atomically. Returns each removed edge once so the
// caller can mirror the removals in the store.
func (idx *Index) RemoveAllIncident(nodes ...string) []*model.Edge {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	var removed []*model.Edge
	for _, node := range nodes {
		var incident []*model.Edge
		for _, rel := range []model.Relation{model.RelContains, model.RelParentOf, model.RelBlocks} {
			for to, ord := range idx.fwd[rel][node] {
				incident = append(incident, &model.Edge{Relation: rel, From: node, To: to, Ord: ord})
			}
			for from, ord := range idx.rev[rel][node] {
				incident = append(incident, &model.Edge{Relation: rel, From: from, To: node, Ord: ord})
			}
		}
		// Removing as we go keeps an edge between two condemned nodes
		// from being reported twice.
		for _, e := range incident {
			idx.removeLocked(e.Relation, e.From, e.To)
		}
		removed = append(removed, incident...)
	}
	return removed
}

// SessionOf returns the session containing the task, if any. A task has at
// most one contains edge pointing at it.
func (idx *Index) SessionOf(task string) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for session := range idx.rev[model.RelContains][task] {
		return session, true
	}
	return "", false
}

// Order returns the ordering key of the task within its session.
func (idx *Index) Order(session, task string) (int, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	ord, ok := idx.fwd[model.RelContains][session][task]
	return ord, ok
}

// TasksInSession returns the session's task IDs sorted by ordering key.
func (idx *Index) TasksInSession(session string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	members := idx.fwd[model.RelContains][session]
	tasks := make([]string, 0, len(members))
	for t := range members {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		oi, oj := members[tasks[i]], members[tasks[j]]
		if oi != oj {
			return oi < oj
		}
		return tasks[i] < tasks[j]
	})
	return tasks
}

// Parent returns the parent of the task, if any.
func (idx *Index) Parent(task string) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for parent := range idx.rev[model.RelParentOf][task] {
		return parent, true
	}
	return "", false
}

// Children returns the direct children of the task, sorted for determinism.
func (idx *Index) Children(task string) []string {
	return sortedCopy(idx.Forward(model.RelParentOf, task))
}

// Blockers returns the tasks with a blocks edge into the task.
func (idx *Index) Blockers(task string) []string {
	return sortedCopy(idx.Reverse(model.RelBlocks, task))
}

// Blocking returns the tasks the given task has a blocks edge into.
func (idx *Index) Blocking(task string) []string {
	return sortedCopy(idx.Forward(model.RelBlocks, task))
}

// Descendants returns every task reachable from task via parent_of edges,
// ordered leaves-first so callers can delete children before their parents.
// The task itself is excluded.
func (idx *Index) Descendants(task string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var out []string
	var walk func(node string)
	walk = func(node string) {
		children := keys(idx.fwd[model.RelParentOf][node])
		sort.Strings(children)
		for _, c := range children {
			walk(c)
			out = append(out, c)
		}
	}
	walk(task)
	return out
}

// Edges returns a snapshot of every edge in the index.
func (idx *Index) Edges() []*model.Edge {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var out []*model.Edge
	for _, rel := range []model.Relation{model.RelContains, model.RelParentOf, model.RelBlocks} {
		for from, tos := range idx.fwd[rel] {
			for to, ord := range tos {
				out = append(out, &model.Edge{Relation: rel, From: from, To: to, Ord: ord})
			}
		}
	}
	return out
}

func keys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func sortedCopy(s []string) []string {
	sort.Strings(s)
	return s
}
