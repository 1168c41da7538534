package events

import (
	"context"

	"github.com/alfredjeanlab/loom/internal/model"
)

// Event topic constants
const (
	TopicSessionCreated = "loom.session.created"
	TopicSessionDeleted = "loom.session.deleted"

	TopicTaskCreated    = "loom.task.created"
	TopicTaskUpdated    = "loom.task.updated"
	TopicTaskDeleted    = "loom.task.deleted"
	TopicTasksReordered = "loom.task.reordered"

	TopicDependencyAdded   = "loom.dependency.added"
	TopicDependencyRemoved = "loom.dependency.removed"
)

// Event types

type SessionCreated struct {
	Session *model.Session `json:"session"`
}

type SessionDeleted struct {
	SessionID string `json:"session_id"`
	// TaskIDs lists tasks removed by a cascading delete.
	TaskIDs []string `json:"task_ids,omitempty"`
}

type TaskCreated struct {
	Task *model.Task `json:"task"`
}

type TaskUpdated struct {
	Task    *model.Task    `json:"task"`
	Changes map[string]any `json:"changes"` // field name -> new value
}

type TaskDeleted struct {
	TaskID string `json:"task_id"`
	// CascadeIDs lists descendant tasks removed alongside it.
	CascadeIDs []string `json:"cascade_ids,omitempty"`
}

type TasksReordered struct {
	SessionID string   `json:"session_id"`
	TaskIDs   []string `json:"task_ids"` // new order, position 1 first
}

type DependencyAdded struct {
	BlockerID string `json:"blocker_id"`
	BlockedID string `json:"blocked_id"`
}

type DependencyRemoved struct {
	BlockerID string `json:"blocker_id"`
	BlockedID string `json:"blocked_id"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
