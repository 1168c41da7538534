package idgen

import (
	"regexp"
	"testing"
)

func TestNewTaskID_PrefixAndLength(t *testing.T) {
	id, err := NewTaskID()
	if err != nil {
		t.Fatalf("NewTaskID() error: %v", err)
	}
	if id[:len(TaskPrefix)] != TaskPrefix {
		t.Errorf("NewTaskID() = %q, want prefix %q", id, TaskPrefix)
	}
	wantLen := len(TaskPrefix) + Length
	if len(id) != wantLen {
		t.Errorf("NewTaskID() length = %d, want %d (id=%q)", len(id), wantLen, id)
	}
}

func TestNewSessionID_Prefix(t *testing.T) {
	id, err := NewSessionID()
	if err != nil {
		t.Fatalf("NewSessionID() error: %v", err)
	}
	if id[:len(SessionPrefix)] != SessionPrefix {
		t.Errorf("NewSessionID() = %q, want prefix %q", id, SessionPrefix)
	}
}

func TestGenerateWithPrefix_Charset(t *testing.T) {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(TaskPrefix) + `[a-zA-Z0-9]+$`)
	for i := 0; i < 100; i++ {
		id, err := NewTaskID()
		if err != nil {
			t.Fatalf("NewTaskID() error on iteration %d: %v", i, err)
		}
		if !pattern.MatchString(id) {
			t.Fatalf("NewTaskID() = %q, does not match expected charset pattern", id)
		}
	}
}

func TestGenerate_Uniqueness(t *testing.T) {
	const count = 10_000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		id, err := NewTaskID()
		if err != nil {
			t.Fatalf("NewTaskID() error on iteration %d: %v", i, err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate ID after %d generations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}
