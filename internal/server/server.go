// Package server implements the task graph operations and their HTTP surface.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alfredjeanlab/loom/internal/events"
	"github.com/alfredjeanlab/loom/internal/graph"
	"github.com/alfredjeanlab/loom/internal/model"
	"github.com/alfredjeanlab/loom/internal/store"
)

// GraphServer owns the task graph: every structural mutation flows through
// it so the in-memory edge index and the database stay consistent.
type GraphServer struct {
	store     store.Store
	publisher events.Publisher
	index     *graph.Index
	sseHub    *sseHub

	// writeMu serializes structural mutations. It is held across index
	// validation, the store transaction, and the index apply, so readers
	// never observe a partially applied write and validation never races
	// a concurrent mutation.
	writeMu sync.Mutex
}

// NewGraphServer builds a server backed by the given store and publisher,
// hydrating the edge index from the database.
func NewGraphServer(ctx context.Context, s store.Store, p events.Publisher) (*GraphServer, error) {
	edges, err := s.ListEdges(ctx)
	if err != nil {
		return nil, fmt.Errorf("hydrate edge index: %w", err)
	}
	idx := graph.NewIndex()
	idx.Rebuild(edges)
	return &GraphServer{
		store:     s,
		publisher: p,
		index:     idx,
		sseHub:    newSSEHub(),
	}, nil
}

// recordAndPublish persists an event to the store and publishes it to NATS.
// Both operations are best-effort; failures are logged but do not block the caller.
func (s *GraphServer) recordAndPublish(ctx context.Context, topic, entityID, actor string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to marshal event", "topic", topic, "entity_id", entityID, "error", err)
		return
	}
	if err := s.store.RecordEvent(ctx, &model.Event{
		Topic:    topic,
		EntityID: entityID,
		Actor:    actor,
		Payload:  payload,
	}); err != nil {
		slog.Warn("failed to record event", "topic", topic, "entity_id", entityID, "error", err)
	}
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "entity_id", entityID, "error", err)
	}
	s.broadcastEvent(topic, event)
}

// inputError indicates invalid user input.
// The HTTP layer maps this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }

// statusOf returns a graph.StatusFunc that resolves statuses from the given
// task set. Used after a single batched load so readiness checks do not hit
// the database per task.
func statusOf(tasks []*model.Task) graph.StatusFunc {
	byID := make(map[string]model.Status, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t.Status
	}
	return func(id string) (model.Status, bool) {
		s, ok := byID[id]
		return s, ok
	}
}
