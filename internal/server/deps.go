package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alfredjeanlab/loom/internal/events"
	"github.com/alfredjeanlab/loom/internal/graph"
	"github.com/alfredjeanlab/loom/internal/model"
	"github.com/alfredjeanlab/loom/internal/store"
)

// addDependency records that blockerID blocks blockedID. Adding an edge that
// already exists succeeds without effect; an edge that would close a cycle
// in the blocks graph is rejected with no change.
func (s *GraphServer) addDependency(ctx context.Context, blockedID, blockerID, actor string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if blockerID == "" {
		return inputError("blocker_id is required")
	}
	if blockerID == blockedID {
		return inputError("task cannot block itself")
	}

	for _, id := range []string{blockedID, blockerID} {
		if _, err := s.store.GetTask(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &model.NotFoundError{Kind: "task", ID: id}
			}
			return fmt.Errorf("failed to get task: %w", err)
		}
	}

	if s.index.Has(model.RelBlocks, blockerID, blockedID) {
		return nil
	}

	if s.index.WouldCreateCycle(model.RelBlocks, blockerID, blockedID) {
		return &model.CycleError{Relation: model.RelBlocks, From: blockerID, To: blockedID}
	}

	err := s.store.RunInTransaction(ctx, func(tx store.Store) error {
		return tx.UpsertEdge(ctx, &model.Edge{
			Relation: model.RelBlocks, From: blockerID, To: blockedID,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to add dependency: %w", err)
	}

	s.index.Upsert(model.RelBlocks, blockerID, blockedID, 0)

	s.recordAndPublish(ctx, events.TopicDependencyAdded, blockedID, actor, events.DependencyAdded{
		BlockerID: blockerID,
		BlockedID: blockedID,
	})

	return nil
}

// removeDependency deletes the blocks edge from blockerID to blockedID.
// Removing an edge that does not exist is a no-op, not an error.
func (s *GraphServer) removeDependency(ctx context.Context, blockedID, blockerID, actor string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if blockerID == "" {
		return inputError("blocker_id is required")
	}

	existed := s.index.Has(model.RelBlocks, blockerID, blockedID)

	err := s.store.RunInTransaction(ctx, func(tx store.Store) error {
		return tx.DeleteEdge(ctx, model.RelBlocks, blockerID, blockedID)
	})
	if err != nil {
		return fmt.Errorf("failed to remove dependency: %w", err)
	}

	s.index.Remove(model.RelBlocks, blockerID, blockedID)

	if existed {
		s.recordAndPublish(ctx, events.TopicDependencyRemoved, blockedID, actor, events.DependencyRemoved{
			BlockerID: blockerID,
			BlockedID: blockedID,
		})
	}

	return nil
}

// isBlocked reports whether any active task currently blocks the given task.
func (s *GraphServer) isBlocked(ctx context.Context, id string) (bool, error) {
	if _, err := s.store.GetTask(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, &model.NotFoundError{Kind: "task", ID: id}
		}
		return false, fmt.Errorf("failed to get task: %w", err)
	}

	blockers := s.index.Blockers(id)
	if len(blockers) == 0 {
		return false, nil
	}
	tasks, err := s.store.GetTasks(ctx, blockers)
	if err != nil {
		return false, fmt.Errorf("failed to load blockers: %w", err)
	}
	return s.index.IsBlocked(id, statusOf(tasks)), nil
}

// dependencyChain resolves the full transitive dependency neighborhood of a
// task: upstream blockers and downstream blocked tasks, each at minimum hop
// depth, ascending.
func (s *GraphServer) dependencyChain(ctx context.Context, id string) (*model.Chain, error) {
	if _, err := s.store.GetTask(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &model.NotFoundError{Kind: "task", ID: id}
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	upstream := s.index.Upstream(id)
	downstream := s.index.Downstream(id)

	ids := make([]string, 0, len(upstream)+len(downstream))
	for _, h := range upstream {
		ids = append(ids, h.TaskID)
	}
	for _, h := range downstream {
		ids = append(ids, h.TaskID)
	}

	tasks, err := s.store.GetTasks(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load chain tasks: %w", err)
	}
	byID := make(map[string]*model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	return &model.Chain{
		TaskID:     id,
		Upstream:   chainNodes(upstream, byID),
		Downstream: chainNodes(downstream, byID),
	}, nil
}

func chainNodes(hops []graph.Hop, byID map[string]*model.Task) []*model.ChainNode {
	nodes := make([]*model.ChainNode, 0, len(hops))
	for _, h := range hops {
		t, ok := byID[h.TaskID]
		if !ok {
			continue
		}
		nodes = append(nodes, &model.ChainNode{Task: t, Depth: h.Depth})
	}
	return nodes
}

// listDependencies returns a task's direct blockers and the tasks it blocks.
func (s *GraphServer) listDependencies(ctx context.Context, id string) (blockers, blocking []*model.Task, err error) {
	if _, err := s.store.GetTask(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, &model.NotFoundError{Kind: "task", ID: id}
		}
		return nil, nil, fmt.Errorf("failed to get task: %w", err)
	}

	blockerIDs := s.index.Blockers(id)
	blockingIDs := s.index.Blocking(id)

	tasks, err := s.store.GetTasks(ctx, append(append([]string{}, blockerIDs...), blockingIDs...))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load dependencies: %w", err)
	}
	byID := make(map[string]*model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	for _, bid := range blockerIDs {
		if t, ok := byID[bid]; ok {
			blockers = append(blockers, t)
		}
	}
	for _, bid := range blockingIDs {
		if t, ok := byID[bid]; ok {
			blocking = append(blocking, t)
		}
	}
	return blockers, blocking, nil
}
