package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/alfredjeanlab/loom/internal/model"
)

// handleCreateTask handles POST /v1/tasks.
func (s *GraphServer) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in createTaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := s.createTask(r.Context(), in)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// handleListTasks handles GET /v1/tasks.
func (s *GraphServer) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, total, err := s.store.ListTasks(r.Context(), taskFilterFromQuery(r))
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": tasks,
		"total": total,
	})
}

// handleGetTask handles GET /v1/tasks/{id}.
func (s *GraphServer) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.store.GetTask(r.Context(), r.PathValue("id"))
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// handleUpdateTask handles PATCH /v1/tasks/{id}.
func (s *GraphServer) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var in updateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := s.updateTask(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// handleUpdateTasks handles PATCH /v1/tasks (batch update). Each update is
// applied independently; per-task failures come back in the results rather
// than failing the batch.
func (s *GraphServer) handleUpdateTasks(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Updates []batchTaskUpdate `json:"updates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(in.Updates) == 0 {
		writeError(w, http.StatusBadRequest, "updates is required")
		return
	}

	results := s.updateTasks(r.Context(), in.Updates)
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// handleDeleteTask handles DELETE /v1/tasks/{id}?cascade=true.
func (s *GraphServer) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	cascade := r.URL.Query().Get("cascade") == "true"
	actor := r.URL.Query().Get("actor")

	cascaded, err := s.deleteTask(r.Context(), r.PathValue("id"), cascade, actor)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cascaded": cascaded,
	})
}

// handleSubtasks handles GET /v1/tasks/{id}/subtasks.
func (s *GraphServer) handleSubtasks(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.store.GetTask(r.Context(), id); err != nil {
		writeOpError(w, err)
		return
	}

	tasks, err := s.store.GetTasks(r.Context(), s.index.Children(id))
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": tasks,
	})
}

// handleGetEvents handles GET /v1/tasks/{id}/events.
func (s *GraphServer) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.GetEvents(r.Context(), r.PathValue("id"))
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
	})
}

// taskFilterFromQuery builds a TaskFilter from the request's query parameters.
func taskFilterFromQuery(r *http.Request) model.TaskFilter {
	q := r.URL.Query()
	filter := model.TaskFilter{
		SessionID: q.Get("session_id"),
		Assignee:  q.Get("assignee"),
		Search:    q.Get("search"),
		Sort:      q.Get("sort"),
		Limit:     queryInt(r, "limit", 0),
		Offset:    queryInt(r, "offset", 0),
	}
	if v := q.Get("status"); v != "" {
		for _, st := range strings.Split(v, ",") {
			st = strings.TrimSpace(st)
			if st != "" {
				filter.Status = append(filter.Status, model.Status(st))
			}
		}
	}
	if v := queryInt(r, "difficulty", 0); v != 0 {
		filter.Difficulty = &v
	}
	return filter
}
