package graph

import "sort"

// AdjacencyData is the decoded wire form of one graph direction. Entries keep
// their serialized order; entry i's edges live in Edges[Offsets[i]:Offsets[i+1]].
// All values are references into the shared name table.
type AdjacencyData struct {
	Keys    []uint32
	Offsets []uint32
	Edges   []uint32
}

// Snapshot is the read-only graph pair reconstructed from a persisted index.
// Both directions share a single name table and keep adjacency in the flat
// decoded arrays, resolved through offsets at lookup time. A Snapshot is
// never mutated after construction.
type Snapshot struct {
	names   []string
	forward snapshotView
	reverse snapshotView
}

// NewSnapshot wraps decoded index data. The caller (the index reader) is
// responsible for having validated name refs and offset monotonicity.
func NewSnapshot(names []string, forward, reverse AdjacencyData) *Snapshot {
	return &Snapshot{
		names:   names,
		forward: newSnapshotView(names, forward),
		reverse: newSnapshotView(names, reverse),
	}
}

// Forward returns the calls graph view.
func (s *Snapshot) Forward() Lookup { return &s.forward }

// Reverse returns the callers graph view.
func (s *Snapshot) Reverse() Lookup { return &s.reverse }

// NameTable returns every procedure name the index knows about, callers and
// callees alike, in table order.
func (s *Snapshot) NameTable() []string { return s.names }

type snapshotView struct {
	names  []string
	keyIdx map[string]int
	data   AdjacencyData
}

func newSnapshotView(names []string, data AdjacencyData) snapshotView {
	idx := make(map[string]int, len(data.Keys))
	for i, ref := range data.Keys {
		idx[names[ref]] = i
	}
	return snapshotView{names: names, keyIdx: idx, data: data}
}

func (v *snapshotView) Edges(name string) ([]string, bool) {
	i, ok := v.keyIdx[name]
	if !ok {
		return nil, false
	}
	lo, hi := v.data.Offsets[i], v.data.Offsets[i+1]
	if lo == hi {
		return nil, false
	}
	out := make([]string, 0, hi-lo)
	for _, ref := range v.data.Edges[lo:hi] {
		out = append(out, v.names[ref])
	}
	return out, true
}

func (v *snapshotView) Names() []string {
	names := make([]string, 0, len(v.data.Keys))
	for _, ref := range v.data.Keys {
		names = append(names, v.names[ref])
	}
	sort.Strings(names)
	return names
}

func (v *snapshotView) Len() int { return len(v.data.Keys) }
