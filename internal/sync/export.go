// Package sync exports the task graph as JSONL and ships it to remote
// destinations on a schedule.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alfredjeanlab/loom/internal/model"
	"github.com/alfredjeanlab/loom/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version      string    `json:"version"`
	Type         string    `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	SessionCount int       `json:"session_count"`
	TaskCount    int       `json:"task_count"`
	EdgeCount    int       `json:"edge_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes every session, task, and edge from the store as JSONL
// to w, sorted so identical graphs produce identical output.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	sessions, _, err := s.ListSessions(ctx, 0, 0)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ID < sessions[j].ID
	})

	tasks, _, err := s.ListTasks(ctx, model.TaskFilter{})
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].ID < tasks[j].ID
	})

	edges, err := s.ListEdges(ctx)
	if err != nil {
		return fmt.Errorf("list edges: %w", err)
	}
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.Relation != b.Relation {
			return a.Relation < b.Relation
		}
		if a.From != b.From {
			return a.From < b.From
		}
		return a.To < b.To
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:      "1",
		Type:         "header",
		Timestamp:    time.Now().UTC(),
		SessionCount: len(sessions),
		TaskCount:    len(tasks),
		EdgeCount:    len(edges),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, sess := range sessions {
		// Contained tasks are exported as top-level records; keep the
		// session line itself flat.
		flat := *sess
		flat.Tasks = nil
		if err := enc.Encode(record{Type: "session", Data: &flat}); err != nil {
			return fmt.Errorf("encode session %s: %w", sess.ID, err)
		}
	}

	for _, t := range tasks {
		if err := enc.Encode(record{Type: "task", Data: t}); err != nil {
			return fmt.Errorf("encode task %s: %w", t.ID, err)
		}
	}

	for _, e := range edges {
		if err := enc.Encode(record{Type: "edge", Data: e}); err != nil {
			return fmt.Errorf("encode edge %s %s->%s: %w", e.Relation, e.From, e.To, err)
		}
	}

	return nil
}
