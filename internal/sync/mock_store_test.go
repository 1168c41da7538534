package sync

import (
	"context"
	"database/sql"
	"sort"

	"github.com/alfredjeanlab/loom/internal/model"
	"github.com/alfredjeanlab/loom/internal/store"
)

// mockStore is a minimal in-memory store.Store for sync tests.
type mockStore struct {
	sessions map[string]*model.Session
	tasks    map[string]*model.Task
	edges    []*model.Edge
	events   []*model.Event
}

func newMockStore() *mockStore {
	return &mockStore{
		sessions: make(map[string]*model.Session),
		tasks:    make(map[string]*model.Task),
	}
}

func (m *mockStore) CreateSession(_ context.Context, session *model.Session) error {
	m.sessions[session.ID] = session
	return nil
}

func (m *mockStore) GetSession(_ context.Context, id string) (*model.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (m *mockStore) ListSessions(_ context.Context, _, _ int) ([]*model.Session, int, error) {
	var result []*model.Session
	for _, s := range m.sessions {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, len(result), nil
}

func (m *mockStore) DeleteSession(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *mockStore) CreateTask(_ context.Context, task *model.Task) error {
	m.tasks[task.ID] = task
	return nil
}

func (m *mockStore) GetTask(_ context.Context, id string) (*model.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return t, nil
}

func (m *mockStore) GetTasks(_ context.Context, ids []string) ([]*model.Task, error) {
	var result []*model.Task
	for _, id := range ids {
		if t, ok := m.tasks[id]; ok {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockStore) ListTasks(_ context.Context, _ model.TaskFilter) ([]*model.Task, int, error) {
	var result []*model.Task
	for _, t := range m.tasks {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, len(result), nil
}

func (m *mockStore) UpdateTask(_ context.Context, task *model.Task) error {
	m.tasks[task.ID] = task
	return nil
}

func (m *mockStore) DeleteTask(_ context.Context, id string) error {
	delete(m.tasks, id)
	return nil
}

func (m *mockStore) UpsertEdge(_ context.Context, edge *model.Edge) error {
	m.edges = append(m.edges, edge)
	return nil
}

func (m *mockStore) DeleteEdge(_ context.Context, relation model.Relation, from, to string) error {
	for i, e := range m.edges {
		if e.Relation == relation && e.From == from && e.To == to {
			m.edges = append(m.edges[:i], m.edges[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockStore) DeleteEdgesTouching(_ context.Context, node string) error {
	kept := m.edges[:0]
	for _, e := range m.edges {
		if e.From != node && e.To != node {
			kept = append(kept, e)
		}
	}
	m.edges = kept
	return nil
}

func (m *mockStore) ListEdges(_ context.Context) ([]*model.Edge, error) {
	return m.edges, nil
}

func (m *mockStore) RecordEvent(_ context.Context, event *model.Event) error {
	m.events = append(m.events, event)
	return nil
}

func (m *mockStore) GetEvents(_ context.Context, entityID string) ([]*model.Event, error) {
	var result []*model.Event
	for _, e := range m.events {
		if e.EntityID == entityID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockStore) GetStats(_ context.Context) (*model.GraphStats, error) {
	return &model.GraphStats{}, nil
}

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error { return nil }
