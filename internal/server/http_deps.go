package server

import (
	"encoding/json"
	"net/http"
)

// handleAddDependency handles POST /v1/tasks/{id}/dependencies. The task in
// the path is the blocked one; the body names its blocker.
func (s *GraphServer) handleAddDependency(w http.ResponseWriter, r *http.Request) {
	var in struct {
		BlockerID string `json:"blocker_id"`
		Actor     string `json:"actor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.addDependency(r.Context(), r.PathValue("id"), in.BlockerID, in.Actor); err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

// handleRemoveDependency handles DELETE /v1/tasks/{id}/dependencies?blocker_id=.
func (s *GraphServer) handleRemoveDependency(w http.ResponseWriter, r *http.Request) {
	blockerID := r.URL.Query().Get("blocker_id")
	if blockerID == "" {
		writeError(w, http.StatusBadRequest, "blocker_id is required")
		return
	}
	actor := r.URL.Query().Get("actor")

	if err := s.removeDependency(r.Context(), r.PathValue("id"), blockerID, actor); err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListDependencies handles GET /v1/tasks/{id}/dependencies.
func (s *GraphServer) handleListDependencies(w http.ResponseWriter, r *http.Request) {
	blockers, blocking, err := s.listDependencies(r.Context(), r.PathValue("id"))
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"blockers": blockers,
		"blocking": blocking,
	})
}

// handleIsBlocked handles GET /v1/tasks/{id}/blocked.
func (s *GraphServer) handleIsBlocked(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	blocked, err := s.isBlocked(r.Context(), id)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"task_id": id,
		"blocked": blocked,
	})
}

// handleDependencyChain handles GET /v1/tasks/{id}/chain.
func (s *GraphServer) handleDependencyChain(w http.ResponseWriter, r *http.Request) {
	chain, err := s.dependencyChain(r.Context(), r.PathValue("id"))
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chain)
}
