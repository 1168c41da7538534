package graph

import (
	"reflect"
	"testing"

	"github.com/alfredjeanlab/loom/internal/model"
)

// diamondIndex builds a -> b, a -> c, b -> d, c -> d and a long detour
// a -> e -> d, so d is reachable from a at depths 2 and 3.
func diamondIndex() *Index {
	idx := NewIndex()
	idx.Upsert(model.RelBlocks, "ts-a", "ts-b", 0)
	idx.Upsert(model.RelBlocks, "ts-a", "ts-c", 0)
	idx.Upsert(model.RelBlocks, "ts-b", "ts-d", 0)
	idx.Upsert(model.RelBlocks, "ts-c", "ts-d", 0)
	idx.Upsert(model.RelBlocks, "ts-a", "ts-e", 0)
	idx.Upsert(model.RelBlocks, "ts-e", "ts-d", 0)
	return idx
}

func TestDownstream_MinDepthOncePerNode(t *testing.T) {
	idx := diamondIndex()

	got := idx.Downstream("ts-a")
	want := []Hop{
		{TaskID: "ts-b", Depth: 1},
		{TaskID: "ts-c", Depth: 1},
		{TaskID: "ts-e", Depth: 1},
		{TaskID: "ts-d", Depth: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Downstream = %v, want %v", got, want)
	}
}

func TestUpstream_MinDepthOncePerNode(t *testing.T) {
	idx := diamondIndex()

	got := idx.Upstream("ts-d")
	want := []Hop{
		{TaskID: "ts-b", Depth: 1},
		{TaskID: "ts-c", Depth: 1},
		{TaskID: "ts-e", Depth: 1},
		{TaskID: "ts-a", Depth: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Upstream = %v, want %v", got, want)
	}
}

func TestChain_ExcludesQueriedTask(t *testing.T) {
	idx := NewIndex()
	idx.Upsert(model.RelBlocks, "ts-a", "ts-b", 0)

	for _, hop := range idx.Downstream("ts-a") {
		if hop.TaskID == "ts-a" {
			t.Error("queried task appeared in its own downstream chain")
		}
	}
	for _, hop := range idx.Upstream("ts-b") {
		if hop.TaskID == "ts-b" {
			t.Error("queried task appeared in its own upstream chain")
		}
	}
}

func TestChain_IsolatedTask(t *testing.T) {
	idx := NewIndex()
	if got := idx.Upstream("ts-x"); len(got) != 0 {
		t.Errorf("Upstream of isolated task = %v, want empty", got)
	}
	if got := idx.Downstream("ts-x"); len(got) != 0 {
		t.Errorf("Downstream of isolated task = %v, want empty", got)
	}
}

func TestChain_IgnoresOtherRelations(t *testing.T) {
	idx := NewIndex()
	idx.Upsert(model.RelParentOf, "ts-a", "ts-b", 0)
	idx.Upsert(model.RelContains, "ss-1", "ts-b", 1)

	if got := idx.Downstream("ts-a"); len(got) != 0 {
		t.Errorf("chains must traverse only blocks edges, got %v", got)
	}
}

func TestChain_LevelsAreSorted(t *testing.T) {
	idx := NewIndex()
	idx.Upsert(model.RelBlocks, "ts-a", "ts-z", 0)
	idx.Upsert(model.RelBlocks, "ts-a", "ts-m", 0)
	idx.Upsert(model.RelBlocks, "ts-a", "ts-b", 0)

	got := idx.Downstream("ts-a")
	want := []Hop{
		{TaskID: "ts-b", Depth: 1},
		{TaskID: "ts-m", Depth: 1},
		{TaskID: "ts-z", Depth: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Downstream = %v, want sorted level %v", got, want)
	}
}
