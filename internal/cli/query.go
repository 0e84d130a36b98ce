package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/dcgraph-dev/dcgraph/internal/graph"
	"github.com/dcgraph-dev/dcgraph/internal/query"
	"github.com/dcgraph-dev/dcgraph/internal/ux"
	"github.com/spf13/cobra"
)

func RunQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	snap, err := loadSnapshot(cfg)
	if err != nil {
		return err
	}
	maxDepth, err := resolveMaxDepth(cmd, cfg)
	if err != nil {
		return err
	}
	deps, err := cmd.Flags().GetBool("deps")
	if err != nil {
		return fmt.Errorf("failed to read --deps flag: %w", err)
	}

	palette := ux.NewPalette(cfg.NoColor)
	for _, arg := range args {
		// Each argument uses the interactive syntax, so a quoted "name -d"
		// selects dependency output for that name alone.
		name, nameDeps := parseQueryTarget(arg)
		if name == "" {
			continue
		}
		runQuery(os.Stdout, snap, palette, name, deps || nameDeps, maxDepth)
	}
	return nil
}

// runQuery prints one procedure's call sequence or dependency list. Unknown
// procedures produce a diagnostic on stderr rather than an error, so a batch
// of queries keeps going.
func runQuery(w io.Writer, snap *graph.Snapshot, palette *ux.Palette, name string, deps bool, maxDepth int) {
	var buf bytes.Buffer
	if deps {
		list, ok := query.Dependencies(snap.Reverse(), name)
		if !ok {
			fmt.Fprintf(os.Stderr, "There's no dependency info available for procedure %q\n", name)
			return
		}
		query.PrintDependencies(&buf, list)
	} else {
		if !query.Known(snap.Forward(), name) {
			fmt.Fprintf(os.Stderr, "There's no info available for procedure %q\n", name)
			return
		}
		query.PrintCallSequence(&buf, snap.Forward(), name, maxDepth)
	}
	fmt.Fprintln(w, palette.Result(trimTrailingNewline(buf.String())))
}

func trimTrailingNewline(s string) string {
	for len(s) > 0 && s[len(s)-1] == '\n' {
		s = s[:len(s)-1]
	}
	return s
}
