package server

import (
	"net/http"

	"github.com/alfredjeanlab/loom/internal/model"
)

// handleGetGraph handles GET /v1/graph?limit=. It returns the most recently
// updated tasks as nodes plus the parent_of and blocks edges among them, with
// aggregate stats for the whole graph.
func (s *GraphServer) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 100)

	tasks, _, err := s.store.ListTasks(r.Context(), model.TaskFilter{
		Sort:  "-updated_at",
		Limit: limit,
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	inGraph := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		inGraph[t.ID] = true
	}

	// Contains edges fall out naturally: their from side is a session.
	edges := []*model.GraphEdge{}
	for _, e := range s.index.Edges() {
		if !inGraph[e.From] || !inGraph[e.To] {
			continue
		}
		edges = append(edges, &model.GraphEdge{
			Source:   e.From,
			Target:   e.To,
			Relation: e.Relation.String(),
		})
	}

	stats, err := s.store.GetStats(r.Context())
	if err != nil {
		writeOpError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &model.GraphResponse{
		Nodes: tasks,
		Edges: edges,
		Stats: stats,
	})
}

// handleGetStats handles GET /v1/stats.
func (s *GraphServer) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetStats(r.Context())
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
