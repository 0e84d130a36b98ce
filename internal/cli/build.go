package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dcgraph-dev/dcgraph/internal/config"
	"github.com/dcgraph-dev/dcgraph/internal/graph"
	"github.com/dcgraph-dev/dcgraph/internal/ignore"
	"github.com/dcgraph-dev/dcgraph/internal/index"
	"github.com/dcgraph-dev/dcgraph/internal/parser"
	"github.com/spf13/cobra"
)

func RunBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	builder := graph.NewBuilder()
	files, err := collectInputs(cfg, builder, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no TCL files found under the given paths")
	}

	scanner := parser.NewScanner(cfg.ReservedWords...)
	progress := newIndexProgress("indexing", len(files))
	for i, path := range files {
		progress.Update(path, i+1)
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to read %s: %v\n", path, err)
			builder.SkipFile()
			continue
		}
		edges, err := scanner.ScanFile(path, data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to parse %s: %v\n", path, err)
			builder.SkipFile()
			continue
		}
		builder.AddFile(edges)
	}
	progress.Done(len(files))

	store := index.NewStore(cfg.IndexPath)
	if err := store.Write(builder.Forward(), builder.Reverse()); err != nil {
		return err
	}

	stats := builder.Stats()
	fmt.Fprintf(os.Stderr, "parsed %d TCL files (%d skipped), %d procedures, %d call edges\n",
		stats.FilesParsed, stats.FilesSkipped, stats.Procedures, stats.Edges)
	fmt.Fprintf(os.Stderr, "index written to %s\n", store.Path())
	return nil
}

// collectInputs resolves the build arguments to concrete source files.
// Directories are walked recursively with ignore rules applied; files named
// directly are accepted even without a recognized extension, after
// confirmation. An inaccessible argument aborts the build unless the user
// chooses to continue without it.
func collectInputs(cfg *config.Config, builder *graph.Builder, args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to access %s: %v\n", arg, err)
			if !confirm("Continue without it?") {
				return nil, fmt.Errorf("build aborted")
			}
			builder.SkipFile()
			continue
		}
		if info.IsDir() {
			found, err := walkDirectory(cfg, arg)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		if !cfg.MatchesExtension(arg) && filepath.Ext(arg) != "" {
			fmt.Fprintf(os.Stderr, "warning: %s does not look like a TCL file\n", arg)
			if !confirm("Parse it anyway?") {
				builder.SkipFile()
				continue
			}
		}
		files = append(files, arg)
	}
	return files, nil
}

func walkDirectory(cfg *config.Config, root string) ([]string, error) {
	matcher := ignore.NewMatcher(loadIgnoreRules(root))

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		if d.IsDir() {
			if matcher.ShouldIgnore(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if matcher.ShouldIgnore(rel, false) {
			return nil
		}
		if cfg.MatchesExtension(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}
