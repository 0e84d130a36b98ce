// Package query implements the read-only operations over a loaded index:
// depth-bounded call-sequence printing and direct dependency listing.
package query

import (
	"fmt"
	"io"

	"github.com/dcgraph-dev/dcgraph/internal/graph"
)

// Placeholder marks callees the index has no information about.
const Placeholder = "..."

// Known reports whether the graph holds any edges for name.
func Known(g graph.Lookup, name string) bool {
	_, ok := g.Edges(name)
	return ok
}

// PrintCallSequence writes the enter/leave tree of transitive callees rooted
// at name. depth counts nodes including the root; at zero nothing is printed.
// A direct self-call is skipped so simple recursion terminates; indirect
// cycles (a -> b -> a) are bounded only by depth.
func PrintCallSequence(w io.Writer, calls graph.Lookup, name string, depth int) {
	printSequence(w, calls, name, depth, 0)
}

func printSequence(w io.Writer, calls graph.Lookup, name string, depth, indent int) {
	if depth <= 0 {
		return
	}
	fmt.Fprintf(w, "%*s-> %s\n", indent, "", name)
	edges, ok := calls.Edges(name)
	if !ok {
		// Unknown callees, which is not the same as no callees.
		fmt.Fprintf(w, "%*s-> %s\n", indent+2, "", Placeholder)
		fmt.Fprintf(w, "%*s<- %s\n", indent+2, "", Placeholder)
	} else {
		for _, callee := range edges {
			if callee == name {
				continue
			}
			printSequence(w, calls, callee, depth-1, indent+2)
		}
	}
	fmt.Fprintf(w, "%*s<- %s\n", indent, "", name)
}

// Dependencies returns the direct callers recorded for name, in discovery
// order with duplicates retained. ok is false when the index holds no
// dependency info for name.
func Dependencies(callers graph.Lookup, name string) ([]string, bool) {
	return callers.Edges(name)
}

// PrintDependencies writes a 1-indexed caller list, numbers right-aligned to
// the widest index.
func PrintDependencies(w io.Writer, deps []string) {
	width := digits(len(deps))
	fmt.Fprintln(w)
	for i, dep := range deps {
		n := i + 1
		fmt.Fprintf(w, "%*s%d. %s\n", width-digits(n), "", n, dep)
	}
	fmt.Fprintln(w)
}

func digits(n int) int {
	count := 1
	for n >= 10 {
		n /= 10
		count++
	}
	return count
}
