package graph

import (
	"testing"

	"github.com/dcgraph-dev/dcgraph/internal/parser"
)

func TestBuilderKeepsForwardAndReverseInLockStep(t *testing.T) {
	b := NewBuilder()
	b.AddEdge("a", "b")
	b.AddEdge("a", "c")
	b.AddEdge("b", "c")

	calls, ok := b.Forward().Edges("a")
	if !ok || len(calls) != 2 || calls[0] != "b" || calls[1] != "c" {
		t.Fatalf("unexpected forward edges for a: %v (ok=%v)", calls, ok)
	}
	callers, ok := b.Reverse().Edges("c")
	if !ok || len(callers) != 2 || callers[0] != "a" || callers[1] != "b" {
		t.Fatalf("unexpected reverse edges for c: %v (ok=%v)", callers, ok)
	}
}

func TestBuilderPreservesOrderAndDuplicates(t *testing.T) {
	b := NewBuilder()
	b.AddEdge("a", "b")
	b.AddEdge("a", "b")
	b.AddEdge("a", "c")

	calls, _ := b.Forward().Edges("a")
	want := []string{"b", "b", "c"}
	if len(calls) != len(want) {
		t.Fatalf("expected %v, got %v", want, calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, calls)
		}
	}
}

func TestBuilderRedefinitionAppends(t *testing.T) {
	b := NewBuilder()
	b.AddFile(&parser.FileEdges{
		Path:  "one.tcl",
		Procs: []string{"a"},
		Edges: []parser.CallEdge{{Caller: "a", Callee: "b"}},
	})
	b.AddFile(&parser.FileEdges{
		Path:  "two.tcl",
		Procs: []string{"a"},
		Edges: []parser.CallEdge{{Caller: "a", Callee: "c"}},
	})

	calls, _ := b.Forward().Edges("a")
	if len(calls) != 2 || calls[0] != "b" || calls[1] != "c" {
		t.Fatalf("redefinition should append, got %v", calls)
	}
}

func TestBuilderStats(t *testing.T) {
	b := NewBuilder()
	b.AddFile(&parser.FileEdges{
		Path:  "one.tcl",
		Procs: []string{"a", "b"},
		Edges: []parser.CallEdge{{Caller: "a", Callee: "b"}, {Caller: "b", Callee: "c"}},
	})
	b.SkipFile()

	stats := b.Stats()
	if stats.FilesParsed != 1 || stats.FilesSkipped != 1 || stats.Procedures != 2 || stats.Edges != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestLookupMissingName(t *testing.T) {
	b := NewBuilder()
	b.AddEdge("a", "b")

	if _, ok := b.Forward().Edges("nope"); ok {
		t.Fatalf("expected missing name to report no entry")
	}
	if _, ok := b.Forward().Edges("b"); ok {
		t.Fatalf("b has no outgoing calls, expected no forward entry")
	}
	if _, ok := b.Reverse().Edges("a"); ok {
		t.Fatalf("a has no callers, expected no reverse entry")
	}
}

func TestLookupNamesSorted(t *testing.T) {
	b := NewBuilder()
	b.AddEdge("zebra", "x")
	b.AddEdge("apple", "x")
	b.AddEdge("mango", "x")

	names := b.Forward().Names()
	want := []string{"apple", "mango", "zebra"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestSnapshotResolvesOffsets(t *testing.T) {
	names := []string{"a", "b", "c"}
	forward := AdjacencyData{
		Keys:    []uint32{0, 1},
		Offsets: []uint32{0, 2, 3},
		Edges:   []uint32{1, 2, 2},
	}
	reverse := AdjacencyData{
		Keys:    []uint32{1, 2},
		Offsets: []uint32{0, 1, 3},
		Edges:   []uint32{0, 0, 1},
	}
	snap := NewSnapshot(names, forward, reverse)

	calls, ok := snap.Forward().Edges("a")
	if !ok || len(calls) != 2 || calls[0] != "b" || calls[1] != "c" {
		t.Fatalf("unexpected forward edges %v (ok=%v)", calls, ok)
	}
	callers, ok := snap.Reverse().Edges("c")
	if !ok || len(callers) != 2 || callers[0] != "a" || callers[1] != "b" {
		t.Fatalf("unexpected reverse edges %v (ok=%v)", callers, ok)
	}
	if _, ok := snap.Forward().Edges("c"); ok {
		t.Fatalf("c has no outgoing calls")
	}
	if snap.Forward().Len() != 2 || snap.Reverse().Len() != 2 {
		t.Fatalf("unexpected lengths %d/%d", snap.Forward().Len(), snap.Reverse().Len())
	}
}

func TestEqual(t *testing.T) {
	a := NewBuilder()
	a.AddEdge("x", "y")
	a.AddEdge("x", "z")

	b := NewBuilder()
	b.AddEdge("x", "y")
	b.AddEdge("x", "z")

	if !Equal(a.Forward(), b.Forward()) {
		t.Fatalf("identical graphs reported unequal")
	}

	b.AddEdge("x", "y")
	if Equal(a.Forward(), b.Forward()) {
		t.Fatalf("different edge counts reported equal")
	}
}
