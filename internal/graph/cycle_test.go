package graph

import (
	"fmt"
	"testing"

	"github.com/alfredjeanlab/loom/internal/model"
)

func TestWouldCreateCycle(t *testing.T) {
	idx := NewIndex()
	// a -> b -> c, plus an unrelated d.
	idx.Upsert(model.RelBlocks, "ts-a", "ts-b", 0)
	idx.Upsert(model.RelBlocks, "ts-b", "ts-c", 0)

	tests := []struct {
		from, to string
		want     bool
	}{
		{"ts-c", "ts-a", true},  // closes the 3-cycle
		{"ts-b", "ts-a", true},  // direct back-edge
		{"ts-a", "ts-c", false}, // shortcut along existing direction
		{"ts-a", "ts-a", true},  // self-loop
		{"ts-d", "ts-a", false}, // new node into the chain
		{"ts-c", "ts-d", false}, // chain into new node
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			if got := idx.WouldCreateCycle(model.RelBlocks, tt.from, tt.to); got != tt.want {
				t.Errorf("WouldCreateCycle(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestWouldCreateCycle_RelationsIndependent(t *testing.T) {
	idx := NewIndex()
	idx.Upsert(model.RelParentOf, "ts-a", "ts-b", 0)

	// A parent_of path must not influence blocks cycle checks.
	if idx.WouldCreateCycle(model.RelBlocks, "ts-b", "ts-a") {
		t.Error("blocks check should ignore parent_of edges")
	}
	if !idx.WouldCreateCycle(model.RelParentOf, "ts-b", "ts-a") {
		t.Error("parent_of back-edge should be detected")
	}
}

func TestWouldCreateCycle_RejectionLeavesIndexUnchanged(t *testing.T) {
	idx := NewIndex()
	idx.Upsert(model.RelBlocks, "ts-a", "ts-b", 0)
	before := idx.Edges()

	if !idx.WouldCreateCycle(model.RelBlocks, "ts-b", "ts-a") {
		t.Fatal("expected cycle detection")
	}
	after := idx.Edges()
	if len(before) != len(after) {
		t.Errorf("cycle check mutated the index: %d edges before, %d after", len(before), len(after))
	}
}

func TestWouldCreateCycle_DeepChain(t *testing.T) {
	idx := NewIndex()
	for i := 0; i < 100; i++ {
		idx.Upsert(model.RelBlocks, fmt.Sprintf("ts-%03d", i), fmt.Sprintf("ts-%03d", i+1), 0)
	}
	if !idx.WouldCreateCycle(model.RelBlocks, "ts-100", "ts-000") {
		t.Error("long back-edge should be detected")
	}
	if idx.WouldCreateCycle(model.RelBlocks, "ts-000", "ts-100") {
		t.Error("forward shortcut is not a cycle")
	}
}
