package graph

import (
	"sort"

	"github.com/dcgraph-dev/dcgraph/internal/parser"
)

// Lookup is the read contract shared by build-time and query-time graph
// representations: procedure name to its ordered, duplicate-preserving edge
// list. A name with no recorded edges is reported as absent.
type Lookup interface {
	// Edges returns the ordered edge list for name. ok is false when the
	// graph holds no entry for name.
	Edges(name string) (edges []string, ok bool)

	// Names returns every name that has at least one edge, sorted.
	Names() []string

	// Len returns the number of names with at least one edge.
	Len() int
}

// Stats counts build-side work for the post-build report. It replaces the
// original tool's process-global counter with explicit state on the Builder.
type Stats struct {
	FilesParsed  int
	FilesSkipped int
	Procedures   int
	Edges        int
}

// Builder owns the mutable forward (calls) and reverse (callers) graphs while
// an index build is running. Both sides are kept in lock-step: recording
// caller->callee forward always records callee->caller in reverse.
type Builder struct {
	forward adjacency
	reverse adjacency
	stats   Stats
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		forward: adjacency{edges: make(map[string][]string)},
		reverse: adjacency{edges: make(map[string][]string)},
	}
}

// AddFile merges one file's scanner output. Edges append in lexical order;
// a procedure already known from an earlier file keeps its existing edges and
// the new ones follow them (redefinitions accumulate rather than replace).
func (b *Builder) AddFile(file *parser.FileEdges) {
	for _, edge := range file.Edges {
		b.AddEdge(edge.Caller, edge.Callee)
	}
	b.stats.FilesParsed++
	b.stats.Procedures += len(file.Procs)
}

// AddEdge records one caller->callee pair in both directions.
func (b *Builder) AddEdge(caller, callee string) {
	b.forward.add(caller, callee)
	b.reverse.add(callee, caller)
	b.stats.Edges++
}

// SkipFile notes a file that was seen but could not be parsed.
func (b *Builder) SkipFile() {
	b.stats.FilesSkipped++
}

// Forward returns the calls graph view.
func (b *Builder) Forward() Lookup { return &b.forward }

// Reverse returns the callers graph view.
func (b *Builder) Reverse() Lookup { return &b.reverse }

// Stats returns the running build counters.
func (b *Builder) Stats() Stats { return b.stats }

// adjacency is the growable map-backed Lookup used during builds.
type adjacency struct {
	edges map[string][]string
}

func (a *adjacency) add(from, to string) {
	a.edges[from] = append(a.edges[from], to)
}

func (a *adjacency) Edges(name string) ([]string, bool) {
	edges, ok := a.edges[name]
	if !ok || len(edges) == 0 {
		return nil, false
	}
	return edges, true
}

func (a *adjacency) Names() []string {
	names := make([]string, 0, len(a.edges))
	for name := range a.edges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a *adjacency) Len() int { return len(a.edges) }

// Equal reports whether two lookups hold the same names with identical edge
// lists, including order and duplicates.
func Equal(a, b Lookup) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, name := range a.Names() {
		ae, _ := a.Edges(name)
		be, ok := b.Edges(name)
		if !ok || len(ae) != len(be) {
			return false
		}
		for i := range ae {
			if ae[i] != be[i] {
				return false
			}
		}
	}
	return true
}
