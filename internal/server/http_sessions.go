package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/alfredjeanlab/loom/internal/model"
)

// handleCreateSession handles POST /v1/sessions.
func (s *GraphServer) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var in createSessionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := s.createSession(r.Context(), in)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// handleListSessions handles GET /v1/sessions.
func (s *GraphServer) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	sessions, total, err := s.store.ListSessions(r.Context(), limit, offset)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": sessions,
		"total":    total,
	})
}

// handleGetSession handles GET /v1/sessions/{id}.
func (s *GraphServer) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// handleDeleteSession handles DELETE /v1/sessions/{id}?cascade=true.
func (s *GraphServer) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	cascade := r.URL.Query().Get("cascade") == "true"
	actor := r.URL.Query().Get("actor")

	deleted, err := s.deleteSession(r.Context(), r.PathValue("id"), cascade, actor)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"deleted_tasks": deleted,
	})
}

// handleSessionTasks handles GET /v1/sessions/{id}/tasks. Tasks come back in
// session order unless an explicit sort is requested.
func (s *GraphServer) handleSessionTasks(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.store.GetSession(r.Context(), id); err != nil {
		writeOpError(w, err)
		return
	}

	filter := taskFilterFromQuery(r)
	filter.SessionID = id
	tasks, total, err := s.store.ListTasks(r.Context(), filter)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": tasks,
		"total": total,
	})
}

// handleReadyTasks handles GET /v1/sessions/{id}/ready?assignee=&limit=.
func (s *GraphServer) handleReadyTasks(w http.ResponseWriter, r *http.Request) {
	filter := model.ReadyFilter{
		Assignee: r.URL.Query().Get("assignee"),
		Limit:    queryInt(r, "limit", 0),
	}

	tasks, err := s.readyTasks(r.Context(), r.PathValue("id"), filter)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": tasks,
	})
}

// handleReorderTasks handles POST /v1/sessions/{id}/reorder.
func (s *GraphServer) handleReorderTasks(w http.ResponseWriter, r *http.Request) {
	var in struct {
		TaskIDs []string `json:"task_ids"`
		Actor   string   `json:"actor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.reorderTasks(r.Context(), r.PathValue("id"), in.TaskIDs, in.Actor); err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
