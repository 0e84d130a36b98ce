package query

import (
	"bytes"
	"testing"

	"github.com/dcgraph-dev/dcgraph/internal/graph"
)

// a calls b and c, b calls c, c is never defined.
func testGraph() *graph.Builder {
	b := graph.NewBuilder()
	b.AddEdge("a", "b")
	b.AddEdge("a", "c")
	b.AddEdge("b", "c")
	return b
}

func callSequence(g graph.Lookup, name string, depth int) string {
	var buf bytes.Buffer
	PrintCallSequence(&buf, g, name, depth)
	return buf.String()
}

func TestPrintCallSequence(t *testing.T) {
	got := callSequence(testGraph().Forward(), "a", 5)
	want := `-> a
  -> b
    -> c
      -> ...
      <- ...
    <- c
  <- b
  -> c
    -> ...
    <- ...
  <- c
<- a
`
	if got != want {
		t.Fatalf("unexpected call sequence:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintCallSequenceDepthBound(t *testing.T) {
	got := callSequence(testGraph().Forward(), "a", 2)
	want := `-> a
  -> b
  <- b
  -> c
    -> ...
    <- ...
  <- c
<- a
`
	if got != want {
		t.Fatalf("unexpected depth-2 sequence:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintCallSequenceDepthOne(t *testing.T) {
	got := callSequence(testGraph().Forward(), "a", 1)
	if got != "-> a\n<- a\n" {
		t.Fatalf("unexpected depth-1 sequence:\n%s", got)
	}
}

func TestPrintCallSequenceDepthZeroPrintsNothing(t *testing.T) {
	if got := callSequence(testGraph().Forward(), "a", 0); got != "" {
		t.Fatalf("expected empty output at depth 0, got:\n%s", got)
	}
}

func TestPrintCallSequenceSkipsDirectSelfCall(t *testing.T) {
	b := graph.NewBuilder()
	b.AddEdge("loop", "loop")
	b.AddEdge("loop", "other")

	got := callSequence(b.Forward(), "loop", 10)
	want := `-> loop
  -> other
    -> ...
    <- ...
  <- other
<- loop
`
	if got != want {
		t.Fatalf("self call should be skipped:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintCallSequenceIndirectCycleBoundedByDepth(t *testing.T) {
	b := graph.NewBuilder()
	b.AddEdge("a", "b")
	b.AddEdge("b", "a")

	got := callSequence(b.Forward(), "a", 3)
	want := `-> a
  -> b
    -> a
    <- a
  <- b
<- a
`
	if got != want {
		t.Fatalf("unexpected cycle sequence:\n%s\nwant:\n%s", got, want)
	}
}

func TestKnown(t *testing.T) {
	g := testGraph()
	if !Known(g.Forward(), "a") {
		t.Fatalf("a should be known")
	}
	if Known(g.Forward(), "c") {
		t.Fatalf("c has no recorded calls, should be unknown")
	}
}

func TestDependencies(t *testing.T) {
	g := testGraph()
	deps, ok := Dependencies(g.Reverse(), "c")
	if !ok || len(deps) != 2 || deps[0] != "a" || deps[1] != "b" {
		t.Fatalf("unexpected dependencies %v (ok=%v)", deps, ok)
	}
	if _, ok := Dependencies(g.Reverse(), "a"); ok {
		t.Fatalf("a has no callers, expected no info")
	}
}

func TestPrintDependenciesAlignment(t *testing.T) {
	deps := []string{"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten"}
	var buf bytes.Buffer
	PrintDependencies(&buf, deps)
	got := buf.String()

	want := "\n 1. one\n 2. two\n 3. three\n 4. four\n 5. five\n 6. six\n 7. seven\n 8. eight\n 9. nine\n10. ten\n\n"
	if got != want {
		t.Fatalf("unexpected dependency list:\n%q\nwant:\n%q", got, want)
	}
}

func TestPrintDependenciesShortList(t *testing.T) {
	var buf bytes.Buffer
	PrintDependencies(&buf, []string{"caller"})
	if got := buf.String(); got != "\n1. caller\n\n" {
		t.Fatalf("unexpected output %q", got)
	}
}
