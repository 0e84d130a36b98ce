// Package index persists the aggregated call graphs as a single binary
// artifact. The access pattern is build rarely, query often: writes are
// wholesale (temp file + rename, never partial), reads decode the whole
// artifact into a read-only graph.Snapshot in one pass.
package index

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dcgraph-dev/dcgraph/internal/graph"
	"github.com/zeebo/xxh3"
)

const (
	// DefaultPath is the well-known index location relative to the
	// project root.
	DefaultPath = ".dcgraph/index.bin"

	formatVersion = 1
	headerSize    = 4 + 2 + 2 + 8 + 8 // magic, version, reserved, payload len, checksum
)

var magic = [4]byte{'D', 'C', 'G', 'X'}

var (
	// ErrNoIndex means the artifact does not exist; the caller should build
	// one first.
	ErrNoIndex = errors.New("no index found")

	// ErrCorruptIndex means the artifact exists but cannot be decoded.
	ErrCorruptIndex = errors.New("index file is corrupt")
)

// Store reads and writes the index artifact at one path.
type Store struct {
	path string
}

// NewStore returns a store for the given artifact path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the artifact location.
func (s *Store) Path() string { return s.path }

// Write serializes both graphs and atomically replaces any previous artifact.
// Serialization order is deterministic (sorted names), so rebuilding an
// unchanged corpus produces a byte-identical file.
func (s *Store) Write(forward, reverse graph.Lookup) error {
	names, refs := buildNameTable(forward, reverse)

	var e encoder
	e.nameTable(names)
	e.adjacency(forward, refs)
	e.adjacency(reverse, refs)
	payload := e.buf

	out := make([]byte, headerSize, headerSize+len(payload))
	copy(out[0:4], magic[:])
	binary.LittleEndian.PutUint16(out[4:6], formatVersion)
	binary.LittleEndian.PutUint64(out[8:16], uint64(len(payload)))
	binary.LittleEndian.PutUint64(out[16:24], xxh3.Hash(payload))
	out = append(out, payload...)

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create index directory: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace index: %w", err)
	}
	return nil
}

// Read decodes the artifact into a read-only snapshot. It distinguishes a
// missing artifact (ErrNoIndex) from an undecodable one (ErrCorruptIndex).
func (s *Store) Read() (*graph.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNoIndex, s.path)
		}
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: truncated header", ErrCorruptIndex)
	}
	if [4]byte(data[0:4]) != magic {
		return nil, fmt.Errorf("%w: bad magic", ErrCorruptIndex)
	}
	if v := binary.LittleEndian.Uint16(data[4:6]); v != formatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", ErrCorruptIndex, v)
	}
	payload := data[headerSize:]
	if declared := binary.LittleEndian.Uint64(data[8:16]); declared != uint64(len(payload)) {
		return nil, fmt.Errorf("%w: payload length mismatch", ErrCorruptIndex)
	}
	if sum := binary.LittleEndian.Uint64(data[16:24]); sum != xxh3.Hash(payload) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptIndex)
	}

	d := decoder{data: payload}
	names, err := d.nameTable()
	if err != nil {
		return nil, err
	}
	forward, err := d.adjacency(uint32(len(names)))
	if err != nil {
		return nil, err
	}
	reverse, err := d.adjacency(uint32(len(names)))
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.data) {
		return nil, fmt.Errorf("%w: trailing bytes", ErrCorruptIndex)
	}
	return graph.NewSnapshot(names, forward, reverse), nil
}

// Delete removes the artifact. A missing artifact is not an error.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete index: %w", err)
	}
	return nil
}

// buildNameTable assigns a stable ref to every name either graph mentions,
// on either end of an edge.
func buildNameTable(forward, reverse graph.Lookup) ([]string, map[string]uint32) {
	seen := make(map[string]bool)
	for _, l := range []graph.Lookup{forward, reverse} {
		for _, name := range l.Names() {
			seen[name] = true
			edges, _ := l.Edges(name)
			for _, e := range edges {
				seen[e] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	refs := make(map[string]uint32, len(names))
	for i, name := range names {
		refs[name] = uint32(i)
	}
	return names, refs
}

type encoder struct {
	buf []byte
}

func (e *encoder) u32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

// nameTable writes: count, count+1 offsets, then the concatenated name blob.
func (e *encoder) nameTable(names []string) {
	e.u32(uint32(len(names)))
	off := uint32(0)
	for _, name := range names {
		e.u32(off)
		off += uint32(len(name))
	}
	e.u32(off)
	for _, name := range names {
		e.buf = append(e.buf, name...)
	}
}

// adjacency writes: entry count, name refs, count+1 edge-span offsets, then
// the flat edge ref array. Entries are serialized in sorted-name order while
// each edge list keeps its insertion order.
func (e *encoder) adjacency(l graph.Lookup, refs map[string]uint32) {
	names := l.Names()
	e.u32(uint32(len(names)))
	for _, name := range names {
		e.u32(refs[name])
	}
	off := uint32(0)
	flat := make([]uint32, 0)
	for _, name := range names {
		e.u32(off)
		edges, _ := l.Edges(name)
		for _, edge := range edges {
			flat = append(flat, refs[edge])
		}
		off += uint32(len(edges))
	}
	e.u32(off)
	for _, ref := range flat {
		e.u32(ref)
	}
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) u32() (uint32, error) {
	if d.pos+4 > len(d.data) {
		return 0, fmt.Errorf("%w: unexpected end of payload", ErrCorruptIndex)
	}
	v := binary.LittleEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return v, nil
}

func (d *decoder) u32slice(n uint32) ([]uint32, error) {
	if d.pos+4*int(n) > len(d.data) {
		return nil, fmt.Errorf("%w: unexpected end of payload", ErrCorruptIndex)
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(d.data[d.pos:])
		d.pos += 4
	}
	return out, nil
}

func (d *decoder) nameTable() ([]string, error) {
	count, err := d.u32()
	if err != nil {
		return nil, err
	}
	offsets, err := d.u32slice(count + 1)
	if err != nil {
		return nil, err
	}
	blobLen := offsets[count]
	if d.pos+int(blobLen) > len(d.data) {
		return nil, fmt.Errorf("%w: name blob overruns payload", ErrCorruptIndex)
	}
	blob := d.data[d.pos : d.pos+int(blobLen)]
	d.pos += int(blobLen)

	names := make([]string, count)
	for i := range names {
		lo, hi := offsets[i], offsets[i+1]
		if lo > hi || hi > blobLen {
			return nil, fmt.Errorf("%w: bad name offsets", ErrCorruptIndex)
		}
		names[i] = string(blob[lo:hi])
	}
	return names, nil
}

func (d *decoder) adjacency(nameCount uint32) (graph.AdjacencyData, error) {
	var out graph.AdjacencyData
	count, err := d.u32()
	if err != nil {
		return out, err
	}
	if out.Keys, err = d.u32slice(count); err != nil {
		return out, err
	}
	for _, ref := range out.Keys {
		if ref >= nameCount {
			return out, fmt.Errorf("%w: entry ref out of range", ErrCorruptIndex)
		}
	}
	if out.Offsets, err = d.u32slice(count + 1); err != nil {
		return out, err
	}
	for i := 1; i < len(out.Offsets); i++ {
		if out.Offsets[i] < out.Offsets[i-1] {
			return out, fmt.Errorf("%w: edge offsets not monotonic", ErrCorruptIndex)
		}
	}
	if out.Edges, err = d.u32slice(out.Offsets[count]); err != nil {
		return out, err
	}
	for _, ref := range out.Edges {
		if ref >= nameCount {
			return out, fmt.Errorf("%w: edge ref out of range", ErrCorruptIndex)
		}
	}
	return out, nil
}
