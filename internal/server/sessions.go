package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alfredjeanlab/loom/internal/events"
	"github.com/alfredjeanlab/loom/internal/idgen"
	"github.com/alfredjeanlab/loom/internal/model"
	"github.com/alfredjeanlab/loom/internal/store"
)

// createSessionInput holds transport-agnostic parameters for creating a session.
type createSessionInput struct {
	Title string `json:"title"`
	Actor string `json:"actor"`
}

// createSession validates input, persists a new session, and publishes a
// SessionCreated event.
func (s *GraphServer) createSession(ctx context.Context, in createSessionInput) (*model.Session, error) {
	session := &model.Session{
		Title:     in.Title,
		StartedAt: time.Now().UTC(),
	}
	if err := model.ValidateSession(session); err != nil {
		return nil, err
	}

	id, err := idgen.NewSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ID: %w", err)
	}
	session.ID = id

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.recordAndPublish(ctx, events.TopicSessionCreated, session.ID, in.Actor, events.SessionCreated{Session: session})

	return session, nil
}

// deleteSession removes a session. Without cascade a session that still
// contains tasks is a structural conflict. With cascade every contained task
// and its parent_of descendants are removed first, along with all of their
// edges. Returns the IDs of removed tasks.
func (s *GraphServer) deleteSession(ctx context.Context, id string, cascade bool, actor string) ([]string, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.store.GetSession(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &model.NotFoundError{Kind: "session", ID: id}
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	contained := s.index.TasksInSession(id)
	if len(contained) > 0 && !cascade {
		return nil, &model.ConflictError{
			Reason: fmt.Sprintf("session %s still contains %d tasks; pass cascade=true to delete them", id, len(contained)),
		}
	}

	// Removal set: contained tasks plus their subtask trees, leaves first
	// so no node outlives its children.
	removed := s.cascadeSet(contained)

	err := s.store.RunInTransaction(ctx, func(tx store.Store) error {
		for _, taskID := range removed {
			if err := tx.DeleteEdgesTouching(ctx, taskID); err != nil {
				return fmt.Errorf("failed to delete edges of %s: %w", taskID, err)
			}
			if err := tx.DeleteTask(ctx, taskID); err != nil && !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("failed to delete task %s: %w", taskID, err)
			}
		}
		if err := tx.DeleteEdgesTouching(ctx, id); err != nil {
			return fmt.Errorf("failed to delete session edges: %w", err)
		}
		return tx.DeleteSession(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	s.index.RemoveAllIncident(append(append([]string{}, removed...), id)...)

	s.recordAndPublish(ctx, events.TopicSessionDeleted, id, actor, events.SessionDeleted{
		SessionID: id,
		TaskIDs:   removed,
	})

	return removed, nil
}

// cascadeSet expands a set of root task IDs to include their parent_of
// descendants, deduplicated, descendants before their ancestors.
func (s *GraphServer) cascadeSet(roots []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, root := range roots {
		for _, d := range s.index.Descendants(root) {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			out = append(out, d)
		}
		if _, ok := seen[root]; !ok {
			seen[root] = struct{}{}
			out = append(out, root)
		}
	}
	return out
}

// readyTasks returns the session's actionable tasks in session order: active
// status and no active blocker. Blockers outside the session count too.
func (s *GraphServer) readyTasks(ctx context.Context, sessionID string, filter model.ReadyFilter) ([]*model.Task, error) {
	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &model.NotFoundError{Kind: "session", ID: sessionID}
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	taskIDs := s.index.TasksInSession(sessionID)

	// Load the session's tasks and every direct blocker in one batch;
	// blocker statuses decide readiness even when the blocker lives in
	// another session.
	want := make(map[string]struct{}, len(taskIDs))
	ids := make([]string, 0, len(taskIDs))
	for _, id := range taskIDs {
		want[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, id := range taskIDs {
		for _, blocker := range s.index.Blockers(id) {
			if _, ok := want[blocker]; !ok {
				want[blocker] = struct{}{}
				ids = append(ids, blocker)
			}
		}
	}

	tasks, err := s.store.GetTasks(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	byID := make(map[string]*model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	statuses := statusOf(tasks)
	var ready []*model.Task
	for _, id := range s.index.ReadyTasks(sessionID, statuses) {
		t, ok := byID[id]
		if !ok {
			continue
		}
		if filter.Assignee != "" && t.Assignee != filter.Assignee {
			continue
		}
		ready = append(ready, t)
		if filter.Limit > 0 && len(ready) >= filter.Limit {
			break
		}
	}
	return ready, nil
}

// reorderTasks atomically reassigns the ordering of every task in the
// session. The input must list the session's tasks exactly once each; the
// result is positions 1..N in input order.
func (s *GraphServer) reorderTasks(ctx context.Context, sessionID string, taskIDs []string, actor string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &model.NotFoundError{Kind: "session", ID: sessionID}
		}
		return fmt.Errorf("failed to get session: %w", err)
	}

	plan, err := s.index.PlanReorder(sessionID, taskIDs)
	if err != nil {
		return err
	}

	err = s.store.RunInTransaction(ctx, func(tx store.Store) error {
		for _, e := range plan {
			if err := tx.UpsertEdge(ctx, e); err != nil {
				return fmt.Errorf("failed to update order of %s: %w", e.To, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.index.ApplyReorder(plan)

	s.recordAndPublish(ctx, events.TopicTasksReordered, sessionID, actor, events.TasksReordered{
		SessionID: sessionID,
		TaskIDs:   taskIDs,
	})

	return nil
}
