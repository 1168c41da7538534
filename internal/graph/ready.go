package graph

import "github.com/alfredjeanlab/loom/internal/model"

// StatusFunc resolves a task's current status. It returns false when the
// task is unknown (e.g. an edge survived a racing delete); unknown blockers
// are treated as non-blocking.
type StatusFunc func(taskID string) (model.Status, bool)

// IsReady reports whether the task is actionable: its own status is active
// and no active task has a blocks edge into it. Done and cancelled blockers
// never block, so completing a blocker can only move a task toward ready,
// never away from it.
func (idx *Index) IsReady(taskID string, statusOf StatusFunc) bool {
	status, ok := statusOf(taskID)
	if !ok || !status.IsActive() {
		return false
	}
	return !idx.IsBlocked(taskID, statusOf)
}

// IsBlocked reports whether any active task has a blocks edge into taskID.
func (idx *Index) IsBlocked(taskID string, statusOf StatusFunc) bool {
	for _, blocker := range idx.Reverse(model.RelBlocks, taskID) {
		if s, ok := statusOf(blocker); ok && s.IsActive() {
			return true
		}
	}
	return false
}

// ReadyTasks returns the session's ready task IDs ordered by contains.ord
// ascending. The result is recomputed from the current edge set and statuses
// on every call; nothing is cached across mutations.
func (idx *Index) ReadyTasks(session string, statusOf StatusFunc) []string {
	var ready []string
	for _, taskID := range idx.TasksInSession(session) {
		if idx.IsReady(taskID, statusOf) {
			ready = append(ready, taskID)
		}
	}
	return ready
}
