// Package client provides a transport-agnostic interface for the loom service
// and an HTTP/JSON implementation that talks to the loom REST API.
package client

import (
	"context"

	"github.com/alfredjeanlab/loom/internal/model"
)

// LoomClient is the interface that all loom CLI commands use to communicate
// with the server. It is implemented by HTTPClient and can be backed by any
// transport.
type LoomClient interface {
	// Sessions
	CreateSession(ctx context.Context, title, actor string) (*model.Session, error)
	GetSession(ctx context.Context, id string) (*model.Session, error)
	ListSessions(ctx context.Context, limit, offset int) (*ListSessionsResponse, error)
	DeleteSession(ctx context.Context, id string, cascade bool, actor string) ([]string, error)
	SessionTasks(ctx context.Context, id string) (*ListTasksResponse, error)
	ReadyTasks(ctx context.Context, id string, filter model.ReadyFilter) ([]*model.Task, error)
	ReorderTasks(ctx context.Context, id string, taskIDs []string, actor string) error

	// Tasks
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context, filter model.TaskFilter) (*ListTasksResponse, error)
	UpdateTask(ctx context.Context, id string, req *UpdateTaskRequest) (*model.Task, error)
	UpdateTasks(ctx context.Context, updates []BatchTaskUpdate) ([]TaskUpdateResult, error)
	DeleteTask(ctx context.Context, id string, cascade bool, actor string) ([]string, error)
	Subtasks(ctx context.Context, id string) ([]*model.Task, error)

	// Dependencies
	AddDependency(ctx context.Context, blockedID, blockerID, actor string) error
	RemoveDependency(ctx context.Context, blockedID, blockerID, actor string) error
	GetDependencies(ctx context.Context, id string) (*DependenciesResponse, error)
	IsBlocked(ctx context.Context, id string) (bool, error)
	DependencyChain(ctx context.Context, id string) (*model.Chain, error)

	// Graph
	GetGraph(ctx context.Context, limit int) (*model.GraphResponse, error)
	GetStats(ctx context.Context) (*model.GraphStats, error)

	// Events
	GetEvents(ctx context.Context, entityID string) ([]*model.Event, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// CreateTaskRequest holds parameters for creating a task.
type CreateTaskRequest struct {
	SessionID   string `json:"session_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ParentID    string `json:"parent_id,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
	Difficulty  *int   `json:"difficulty,omitempty"`
	Actor       string `json:"actor,omitempty"`
}

// UpdateTaskRequest holds optional parameters for updating a task.
// Nil pointer fields mean "don't change".
type UpdateTaskRequest struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Status       *string `json:"status,omitempty"`
	CancelReason *string `json:"cancel_reason,omitempty"`
	Assignee     *string `json:"assignee,omitempty"`
	Difficulty   *int    `json:"difficulty,omitempty"`
	ParentID     *string `json:"parent_id,omitempty"`
	Actor        string  `json:"actor,omitempty"`
}

// BatchTaskUpdate is one element of a batch update.
type BatchTaskUpdate struct {
	ID string `json:"id"`
	UpdateTaskRequest
}

// TaskUpdateResult reports the outcome of one batch element.
type TaskUpdateResult struct {
	ID    string      `json:"id"`
	Task  *model.Task `json:"task,omitempty"`
	Error string      `json:"error,omitempty"`
}

// ListSessionsResponse is the response from ListSessions.
type ListSessionsResponse struct {
	Sessions []*model.Session `json:"sessions"`
	Total    int              `json:"total"`
}

// ListTasksResponse is the response from ListTasks and SessionTasks.
type ListTasksResponse struct {
	Tasks []*model.Task `json:"tasks"`
	Total int           `json:"total"`
}

// DependenciesResponse lists a task's direct blockers and the tasks it blocks.
type DependenciesResponse struct {
	Blockers []*model.Task `json:"blockers"`
	Blocking []*model.Task `json:"blocking"`
}
