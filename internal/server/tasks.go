package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alfredjeanlab/loom/internal/events"
	"github.com/alfredjeanlab/loom/internal/idgen"
	"github.com/alfredjeanlab/loom/internal/model"
	"github.com/alfredjeanlab/loom/internal/store"
)

// createTaskInput holds transport-agnostic parameters for creating a task.
type createTaskInput struct {
	SessionID   string `json:"session_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ParentID    string `json:"parent_id"`
	Assignee    string `json:"assignee"`
	Difficulty  *int   `json:"difficulty"`
	Actor       string `json:"actor"`
}

// createTask validates input, persists the task row and its structural edges
// in one transaction, applies them to the index, and publishes TaskCreated.
// The new task joins its session at the next free position.
func (s *GraphServer) createTask(ctx context.Context, in createTaskInput) (*model.Task, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if in.SessionID == "" {
		return nil, inputError("session_id is required")
	}
	if _, err := s.store.GetSession(ctx, in.SessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &model.NotFoundError{Kind: "session", ID: in.SessionID}
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	now := time.Now().UTC()
	id, err := idgen.NewTaskID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ID: %w", err)
	}

	difficulty := model.DefaultDifficulty
	if in.Difficulty != nil {
		difficulty = *in.Difficulty
	}

	task := &model.Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Status:      model.StatusPending,
		Assignee:    in.Assignee,
		Difficulty:  difficulty,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := model.ValidateTask(task); err != nil {
		return nil, err
	}

	if in.ParentID != "" {
		if _, err := s.store.GetTask(ctx, in.ParentID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, &model.NotFoundError{Kind: "task", ID: in.ParentID}
			}
			return nil, fmt.Errorf("failed to get parent: %w", err)
		}
		if s.index.WouldCreateCycle(model.RelParentOf, in.ParentID, id) {
			return nil, &model.CycleError{Relation: model.RelParentOf, From: in.ParentID, To: id}
		}
	}

	ord := s.index.NextOrder(in.SessionID)

	err = s.store.RunInTransaction(ctx, func(tx store.Store) error {
		if err := tx.CreateTask(ctx, task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		if err := tx.UpsertEdge(ctx, &model.Edge{
			Relation: model.RelContains, From: in.SessionID, To: id, Ord: ord,
		}); err != nil {
			return fmt.Errorf("failed to attach task to session: %w", err)
		}
		if in.ParentID != "" {
			if err := tx.UpsertEdge(ctx, &model.Edge{
				Relation: model.RelParentOf, From: in.ParentID, To: id,
			}); err != nil {
				return fmt.Errorf("failed to set parent: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	upserts := []*model.Edge{{Relation: model.RelContains, From: in.SessionID, To: id, Ord: ord}}
	if in.ParentID != "" {
		upserts = append(upserts, &model.Edge{Relation: model.RelParentOf, From: in.ParentID, To: id})
	}
	s.index.Apply(nil, upserts)

	task.SessionID = in.SessionID
	task.Order = ord
	task.ParentID = in.ParentID

	s.recordAndPublish(ctx, events.TopicTaskCreated, task.ID, in.Actor, events.TaskCreated{Task: task})

	return task, nil
}

// updateTaskInput holds transport-agnostic parameters for updating a task.
// Nil pointers mean "leave unchanged"; for ParentID an explicit empty string
// detaches the task from its parent.
type updateTaskInput struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Status       *string `json:"status"`
	CancelReason *string `json:"cancel_reason"`
	Assignee     *string `json:"assignee"`
	Difficulty   *int    `json:"difficulty"`
	ParentID     *string `json:"parent_id"`
	Actor        string  `json:"actor"`
}

// updateTask applies field deltas and an optional reparent atomically.
// Cancelling requires a reason; moving to any other status clears it.
func (s *GraphServer) updateTask(ctx context.Context, id string, in updateTaskInput) (*model.Task, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &model.NotFoundError{Kind: "task", ID: id}
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	changes := make(map[string]any)

	if in.Title != nil {
		task.Title = *in.Title
		changes["title"] = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
		changes["description"] = *in.Description
	}
	if in.Assignee != nil {
		task.Assignee = *in.Assignee
		changes["assignee"] = *in.Assignee
	}
	if in.Difficulty != nil {
		task.Difficulty = *in.Difficulty
		changes["difficulty"] = *in.Difficulty
	}
	if in.Status != nil {
		status := model.Status(*in.Status)
		if !status.IsValid() {
			return nil, inputError(fmt.Sprintf("invalid status %q", *in.Status))
		}
		task.Status = status
		changes["status"] = string(status)
	}
	if in.CancelReason != nil {
		task.CancelReason = *in.CancelReason
		changes["cancel_reason"] = *in.CancelReason
	}
	// Leaving cancelled without an explicit reason clears the stale one.
	if task.Status != model.StatusCancelled && in.CancelReason == nil {
		task.CancelReason = ""
	}

	if err := model.ValidateTask(task); err != nil {
		return nil, err
	}

	// Reparent plan, validated against the current index before anything
	// is written.
	oldParent, _ := s.index.Parent(id)
	newParent := oldParent
	if in.ParentID != nil {
		newParent = strings.TrimSpace(*in.ParentID)
		if newParent == id {
			return nil, inputError("task cannot be its own parent")
		}
		if newParent != "" && newParent != oldParent {
			if _, err := s.store.GetTask(ctx, newParent); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return nil, &model.NotFoundError{Kind: "task", ID: newParent}
				}
				return nil, fmt.Errorf("failed to get parent: %w", err)
			}
			if s.index.WouldCreateCycle(model.RelParentOf, newParent, id) {
				return nil, &model.CycleError{Relation: model.RelParentOf, From: newParent, To: id}
			}
		}
		if newParent != oldParent {
			changes["parent_id"] = newParent
		}
	}

	err = s.store.RunInTransaction(ctx, func(tx store.Store) error {
		if err := tx.UpdateTask(ctx, task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		if newParent != oldParent {
			if oldParent != "" {
				if err := tx.DeleteEdge(ctx, model.RelParentOf, oldParent, id); err != nil {
					return fmt.Errorf("failed to detach old parent: %w", err)
				}
			}
			if newParent != "" {
				if err := tx.UpsertEdge(ctx, &model.Edge{
					Relation: model.RelParentOf, From: newParent, To: id,
				}); err != nil {
					return fmt.Errorf("failed to set parent: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if newParent != oldParent {
		// One lock for the detach and the attach: a concurrent reader
		// sees the old parent or the new one, never neither.
		var removals, upserts []*model.Edge
		if oldParent != "" {
			removals = append(removals, &model.Edge{Relation: model.RelParentOf, From: oldParent, To: id})
		}
		if newParent != "" {
			upserts = append(upserts, &model.Edge{Relation: model.RelParentOf, From: newParent, To: id})
		}
		s.index.Apply(removals, upserts)
	}
	task.ParentID = newParent

	s.recordAndPublish(ctx, events.TopicTaskUpdated, task.ID, in.Actor, events.TaskUpdated{
		Task:    task,
		Changes: changes,
	})

	return task, nil
}

// deleteTask removes a task. A task with subtasks requires cascade; with it,
// the whole subtask tree goes, children before parents, and every incident
// edge (blocks edges included) of each removed node is dropped. Returns the
// IDs of cascaded descendants.
func (s *GraphServer) deleteTask(ctx context.Context, id string, cascade bool, actor string) ([]string, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.store.GetTask(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &model.NotFoundError{Kind: "task", ID: id}
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	children := s.index.Children(id)
	if len(children) > 0 && !cascade {
		return nil, &model.ConflictError{
			Reason: fmt.Sprintf("task %s has %d subtasks; pass cascade=true to delete them", id, len(children)),
		}
	}

	removed := s.cascadeSet([]string{id})

	err := s.store.RunInTransaction(ctx, func(tx store.Store) error {
		for _, taskID := range removed {
			if err := tx.DeleteEdgesTouching(ctx, taskID); err != nil {
				return fmt.Errorf("failed to delete edges of %s: %w", taskID, err)
			}
			if err := tx.DeleteTask(ctx, taskID); err != nil {
				return fmt.Errorf("failed to delete task %s: %w", taskID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.index.RemoveAllIncident(removed...)

	var cascaded []string
	for _, taskID := range removed {
		if taskID != id {
			cascaded = append(cascaded, taskID)
		}
	}

	s.recordAndPublish(ctx, events.TopicTaskDeleted, id, actor, events.TaskDeleted{
		TaskID:     id,
		CascadeIDs: cascaded,
	})

	return cascaded, nil
}

// batchTaskUpdate is one element of a best-effort batch update.
type batchTaskUpdate struct {
	ID string `json:"id"`
	updateTaskInput
}

// taskUpdateResult reports the outcome of one batch element.
type taskUpdateResult struct {
	ID    string      `json:"id"`
	Task  *model.Task `json:"task,omitempty"`
	Error string      `json:"error,omitempty"`
}

// updateTasks applies a batch of task updates best-effort: each element
// succeeds or fails on its own, unlike reorder which is all-or-nothing.
func (s *GraphServer) updateTasks(ctx context.Context, batch []batchTaskUpdate) []taskUpdateResult {
	results := make([]taskUpdateResult, 0, len(batch))
	for _, item := range batch {
		res := taskUpdateResult{ID: item.ID}
		if item.ID == "" {
			res.Error = "id is required"
			results = append(results, res)
			continue
		}
		task, err := s.updateTask(ctx, item.ID, item.updateTaskInput)
		if err != nil {
			res.Error = err.Error()
		} else {
			res.Task = task
		}
		results = append(results, res)
	}
	return results
}
