package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStreamSSEOnce_TracksLastEventID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/events/stream" {
			t.Errorf("path = %q, want /v1/events/stream", r.URL.Path)
		}
		if got := r.URL.Query().Get("topics"); got != "loom.task.*" {
			t.Errorf("topics = %q, want loom.task.*", got)
		}
		if got := r.Header.Get("Last-Event-ID"); got != "7" {
			t.Errorf("Last-Event-ID = %q, want 7", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("id:8\nevent:loom.task.created\ndata:{\"task\":{}}\n\n"))
		w.Write([]byte("id:9\nevent:loom.task.updated\ndata:{\"task\":{}}\n\n"))
	}))
	defer srv.Close()

	oldURL := serverURL
	serverURL = srv.URL
	defer func() { serverURL = oldURL }()

	lastEventID := "7"
	if err := streamSSEOnce(context.Background(), "loom.task.*", &lastEventID); err != nil {
		t.Fatalf("stream: %v", err)
	}
	if lastEventID != "9" {
		t.Errorf("lastEventID = %q, want 9", lastEventID)
	}
}

func TestStreamSSEOnce_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q, want Bearer secret", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
	}))
	defer srv.Close()

	oldURL, oldToken := serverURL, authToken
	serverURL, authToken = srv.URL, "secret"
	defer func() { serverURL, authToken = oldURL, oldToken }()

	lastEventID := ""
	if err := streamSSEOnce(context.Background(), "", &lastEventID); err != nil {
		t.Fatalf("stream: %v", err)
	}
}

func TestStreamSSEOnce_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	oldURL := serverURL
	serverURL = srv.URL
	defer func() { serverURL = oldURL }()

	lastEventID := ""
	if err := streamSSEOnce(context.Background(), "", &lastEventID); err == nil {
		t.Error("expected error for non-200 response")
	}
}
