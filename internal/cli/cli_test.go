package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/dcgraph-dev/dcgraph/internal/config"
	"github.com/dcgraph-dev/dcgraph/internal/graph"
	"github.com/dcgraph-dev/dcgraph/internal/index"
	"github.com/dcgraph-dev/dcgraph/internal/parser"
	"github.com/dcgraph-dev/dcgraph/internal/query"
	"github.com/spf13/cobra"
)

func TestParseQueryTarget(t *testing.T) {
	cases := []struct {
		line string
		name string
		deps bool
	}{
		{"a", "a", false},
		{"a -d", "a", true},
		{"  a   -d  ", "a", true},
		{"a -x", "a", false},
		{"", "", false},
		{"-d", "-d", false},
	}
	for _, c := range cases {
		name, deps := parseQueryTarget(c.line)
		if name != c.name || deps != c.deps {
			t.Fatalf("parseQueryTarget(%q) = (%q, %v), want (%q, %v)", c.line, name, deps, c.name, c.deps)
		}
	}
}

func TestResolveMaxDepth(t *testing.T) {
	cfg := config.Default()
	cfg.MaxDepth = 7

	depth, err := resolveMaxDepth(nil, cfg)
	if err != nil || depth != 7 {
		t.Fatalf("expected configured depth 7, got %d (%v)", depth, err)
	}

	cmd := &cobra.Command{Use: "query"}
	cmd.Flags().Int("max-depth", 5, "")
	depth, err = resolveMaxDepth(cmd, cfg)
	if err != nil || depth != 7 {
		t.Fatalf("unset flag should fall back to config, got %d (%v)", depth, err)
	}

	if err := cmd.Flags().Set("max-depth", "3"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	depth, err = resolveMaxDepth(cmd, cfg)
	if err != nil || depth != 3 {
		t.Fatalf("explicit flag should win, got %d (%v)", depth, err)
	}

	if err := cmd.Flags().Set("max-depth", "0"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := resolveMaxDepth(cmd, cfg); err == nil {
		t.Fatalf("expected error for non-positive depth")
	}
}

func TestWalkDirectoryFiltersByExtensionAndIgnoreRules(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "keep.tcl"), "a")
	mustWriteFile(t, filepath.Join(root, "notes.md"), "b")
	mustWriteFile(t, filepath.Join(root, "vendor", "lib.tcl"), "c")
	mustWriteFile(t, filepath.Join(root, "sub", "also.tcl"), "d")
	mustWriteFile(t, filepath.Join(root, ".dcgraph", "index.bin"), "e")
	mustWriteFile(t, filepath.Join(root, IgnoreFile), "vendor/\n")

	files, err := walkDirectory(config.Default(), root)
	if err != nil {
		t.Fatalf("walkDirectory failed: %v", err)
	}

	got := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatalf("Rel failed: %v", err)
		}
		got = append(got, filepath.ToSlash(rel))
	}
	sort.Strings(got)

	want := []string{"keep.tcl", "sub/also.tcl"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestTrimTrailingNewline(t *testing.T) {
	if got := trimTrailingNewline("a\nb\n\n"); got != "a\nb" {
		t.Fatalf("unexpected trim result %q", got)
	}
	if got := trimTrailingNewline(""); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

// TestBuildAndQueryFixtures walks the sample TCL corpus through the whole
// pipeline: walk, scan, persist, reload, query.
func TestBuildAndQueryFixtures(t *testing.T) {
	cfg := config.Default()
	cfg.IndexPath = filepath.Join(t.TempDir(), "index.bin")

	files, err := walkDirectory(cfg, filepath.Join("..", "..", "fixtures", "tcl"))
	if err != nil {
		t.Fatalf("walkDirectory failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 fixture files, got %v", files)
	}

	builder := graph.NewBuilder()
	scanner := parser.NewScanner(cfg.ReservedWords...)
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		edges, err := scanner.ScanFile(path, data)
		if err != nil {
			t.Fatalf("ScanFile failed: %v", err)
		}
		builder.AddFile(edges)
	}

	store := index.NewStore(cfg.IndexPath)
	if err := store.Write(builder.Forward(), builder.Reverse()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	snap, err := loadSnapshot(cfg)
	if err != nil {
		t.Fatalf("loadSnapshot failed: %v", err)
	}

	var buf bytes.Buffer
	query.PrintCallSequence(&buf, snap.Forward(), "main", 5)
	want := `-> main
  -> setup
    -> db::connect
      -> log
        -> ...
        <- ...
      <- log
    <- db::connect
  <- setup
  -> run
    -> ...
    <- ...
  <- run
<- main
`
	if buf.String() != want {
		t.Fatalf("unexpected call sequence:\n%s\nwant:\n%s", buf.String(), want)
	}

	deps, ok := query.Dependencies(snap.Reverse(), "log")
	if !ok || len(deps) != 1 || deps[0] != "db::connect" {
		t.Fatalf("unexpected dependencies for log: %v (ok=%v)", deps, ok)
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}
