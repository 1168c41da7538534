package store

import (
	"context"

	"github.com/alfredjeanlab/loom/internal/model"
)

// Store defines the persistence interface for loom.
type Store interface {
	// Session CRUD
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	ListSessions(ctx context.Context, limit, offset int) ([]*model.Session, int, error) // returns sessions, total count, error
	DeleteSession(ctx context.Context, id string) error

	// Task CRUD
	CreateTask(ctx context.Context, task *model.Task) error
	GetTask(ctx context.Context, id string) (*model.Task, error)
	GetTasks(ctx context.Context, ids []string) ([]*model.Task, error)
	ListTasks(ctx context.Context, filter model.TaskFilter) ([]*model.Task, int, error) // returns tasks, total count, error
	UpdateTask(ctx context.Context, task *model.Task) error
	DeleteTask(ctx context.Context, id string) error

	// Edges
	UpsertEdge(ctx context.Context, edge *model.Edge) error
	DeleteEdge(ctx context.Context, relation model.Relation, from, to string) error
	DeleteEdgesTouching(ctx context.Context, node string) error
	ListEdges(ctx context.Context) ([]*model.Edge, error)

	// Events
	RecordEvent(ctx context.Context, event *model.Event) error
	GetEvents(ctx context.Context, entityID string) ([]*model.Event, error)

	// Aggregates
	GetStats(ctx context.Context) (*model.GraphStats, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
