package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dcgraph-dev/dcgraph/internal/config"
	"github.com/dcgraph-dev/dcgraph/internal/graph"
	"github.com/dcgraph-dev/dcgraph/internal/index"
	"github.com/spf13/cobra"
)

// IgnoreFile is the per-directory rules file consulted during build walks.
const IgnoreFile = ".dcgraphignore"

func optionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := optionalStringFlag(cmd, "config")
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

func loadSnapshot(cfg *config.Config) (*graph.Snapshot, error) {
	snap, err := index.NewStore(cfg.IndexPath).Read()
	if err != nil {
		if errors.Is(err, index.ErrNoIndex) {
			return nil, fmt.Errorf("no index at %s; run \"dcgraph build <path>\" first", cfg.IndexPath)
		}
		return nil, err
	}
	return snap, nil
}

// resolveMaxDepth prefers an explicitly set --max-depth flag over the
// configured default.
func resolveMaxDepth(cmd *cobra.Command, cfg *config.Config) (int, error) {
	depth := cfg.MaxDepth
	if cmd != nil {
		if flag := cmd.Flags().Lookup("max-depth"); flag != nil && flag.Changed {
			var err error
			depth, err = cmd.Flags().GetInt("max-depth")
			if err != nil {
				return 0, fmt.Errorf("failed to read --max-depth flag: %w", err)
			}
		}
	}
	if depth < 1 {
		return 0, fmt.Errorf("max depth must be a positive number, got %d", depth)
	}
	return depth, nil
}

// parseQueryTarget splits an interactive input line into the procedure name
// and whether a trailing -d asks for dependencies instead of the call
// sequence.
func parseQueryTarget(line string) (name string, deps bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}
	name = fields[0]
	deps = len(fields) > 1 && fields[len(fields)-1] == "-d"
	return name, deps
}

// confirm asks a yes/no question on stderr and reads the answer from stdin.
// Anything but an explicit yes counts as no.
func confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// loadIgnoreRules reads the ignore file under root. A missing file simply
// means no extra rules.
func loadIgnoreRules(root string) []string {
	data, err := os.ReadFile(filepath.Join(root, IgnoreFile))
	if err != nil {
		return nil
	}
	return strings.Split(string(data), "\n")
}
