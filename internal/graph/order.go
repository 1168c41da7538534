package graph

import (
	"fmt"

	"github.com/alfredjeanlab/loom/internal/model"
)

// NextOrder returns one past the session's current maximum ordering key,
// or 1 for an empty session.
func (idx *Index) NextOrder(session string) int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	max := 0
	for _, ord := range idx.fwd[model.RelContains][session] {
		if ord > max {
			max = ord
		}
	}
	return max + 1
}

// PlanReorder validates a full reordering of a session's tasks and returns
// the dense 1..N assignment matching the input order. The batch is rejected
// whole — no partial reorder — when the input contains duplicates, references
// a task without a contains edge in the session, or does not cover the
// session's task set exactly. Covering the whole set is what guarantees the
// order values are exactly {1..N} afterward.
func (idx *Index) PlanReorder(session string, orderedIDs []string) ([]*model.Edge, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	members := idx.fwd[model.RelContains][session]

	seen := make(map[string]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, dup := seen[id]; dup {
			return nil, &model.ValidationError{Errors: []model.FieldError{{
				Field:   "task_ids",
				Message: fmt.Sprintf("duplicate task ID %s", id),
			}}}
		}
		seen[id] = struct{}{}
		if _, ok := members[id]; !ok {
			return nil, &model.NotFoundError{Kind: "task", ID: id}
		}
	}
	if len(orderedIDs) != len(members) {
		return nil, &model.ValidationError{Errors: []model.FieldError{{
			Field:   "task_ids",
			Message: fmt.Sprintf("must list every task in the session exactly once (got %d of %d)", len(orderedIDs), len(members)),
		}}}
	}

	edges := make([]*model.Edge, 0, len(orderedIDs))
	for i, id := range orderedIDs {
		edges = append(edges, &model.Edge{
			Relation: model.RelContains,
			From:     session,
			To:       id,
			Ord:      i + 1,
		})
	}
	return edges, nil
}

// ApplyReorder installs a reorder plan produced by PlanReorder as one
// atomic index change.
func (idx *Index) ApplyReorder(edges []*model.Edge) {
	idx.Apply(nil, edges)
}
