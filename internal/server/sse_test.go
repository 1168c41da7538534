package server

import (
	"fmt"
	"testing"
	"time"
)

func TestSSEHub_BroadcastAndReceive(t *testing.T) {
	hub := newSSEHub()

	client := hub.subscribe(nil) // all topics
	defer hub.unsubscribe(client)

	hub.broadcast("loom.task.created", []byte(`{"id":"ts-1"}`))

	select {
	case evt := <-client.ch:
		if evt.Topic != "loom.task.created" {
			t.Fatalf("expected topic=%q, got %q", "loom.task.created", evt.Topic)
		}
		if string(evt.Data) != `{"id":"ts-1"}` {
			t.Fatalf("expected data=%q, got %q", `{"id":"ts-1"}`, string(evt.Data))
		}
		if evt.ID != 1 {
			t.Fatalf("expected id=1, got %d", evt.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSSEHub_TopicFiltering(t *testing.T) {
	hub := newSSEHub()

	// Client only wants task events.
	client := hub.subscribe([]string{"loom.task.*"})
	defer hub.unsubscribe(client)

	hub.broadcast("loom.session.created", []byte(`{}`))
	hub.broadcast("loom.task.created", []byte(`{"id":"ts-1"}`))

	select {
	case evt := <-client.ch:
		if evt.Topic != "loom.task.created" {
			t.Fatalf("expected topic=%q, got %q", "loom.task.created", evt.Topic)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}

	// Ensure no more events (session.created should have been filtered).
	select {
	case evt := <-client.ch:
		t.Fatalf("unexpected event: topic=%q", evt.Topic)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSSEHub_Unsubscribe(t *testing.T) {
	hub := newSSEHub()

	client := hub.subscribe(nil)
	hub.unsubscribe(client)

	hub.broadcast("loom.task.created", []byte(`{}`))

	select {
	case <-client.ch:
		t.Fatal("should not receive events after unsubscribe")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSSEHub_EventsSince(t *testing.T) {
	hub := newSSEHub()

	for i := range 5 {
		hub.broadcast("loom.task.updated", fmt.Appendf(nil, `{"n":%d}`, i))
	}

	evts := hub.eventsSince(2)
	if len(evts) != 3 {
		t.Fatalf("expected 3 events, got %d", len(evts))
	}
	for i, evt := range evts {
		if evt.ID != uint64(3+i) {
			t.Fatalf("expected id=%d, got %d", 3+i, evt.ID)
		}
	}

	if evts := hub.eventsSince(5); len(evts) != 0 {
		t.Fatalf("expected no events past the newest, got %d", len(evts))
	}
}

func TestSSEHub_ReplayBufferBounded(t *testing.T) {
	hub := newSSEHub()

	for range sseReplayDepth + 10 {
		hub.broadcast("loom.task.updated", []byte(`{}`))
	}

	evts := hub.eventsSince(0)
	if len(evts) != sseReplayDepth {
		t.Fatalf("expected buffer capped at %d, got %d", sseReplayDepth, len(evts))
	}
	if evts[0].ID != 11 {
		t.Fatalf("expected oldest surviving id=11, got %d", evts[0].ID)
	}
}

func TestSSEHub_SlowClientDoesNotBlock(t *testing.T) {
	hub := newSSEHub()

	client := hub.subscribe(nil)
	defer hub.unsubscribe(client)

	// Overflow the client's buffer; broadcast must not block.
	done := make(chan struct{})
	go func() {
		for range 200 {
			hub.broadcast("loom.task.updated", []byte(`{}`))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow client")
	}
}

func TestMatchTopicPattern(t *testing.T) {
	for _, tc := range []struct {
		pattern string
		topic   string
		want    bool
	}{
		{"loom.task.created", "loom.task.created", true},
		{"loom.task.created", "loom.task.updated", false},
		{"loom.task.*", "loom.task.created", true},
		{"loom.task.*", "loom.session.created", false},
		{"loom.task.*", "loom.task.created.extra", false},
		{"loom.*.created", "loom.task.created", true},
		{"loom.>", "loom.task.created", true},
		{"loom.>", "loom.session.deleted", true},
		{"loom.>", "loom", false},
		{"loom.task.>", "loom.task.created", true},
		{"loom.task.>", "loom.task", false},
		{"*", "loom", true},
		{"*", "loom.task", false},
	} {
		t.Run(tc.pattern+"/"+tc.topic, func(t *testing.T) {
			if got := matchTopicPattern(tc.pattern, tc.topic); got != tc.want {
				t.Fatalf("matchTopicPattern(%q, %q) = %v, want %v", tc.pattern, tc.topic, got, tc.want)
			}
		})
	}
}
