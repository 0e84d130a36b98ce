package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/dcgraph-dev/dcgraph/internal/ux"
	"github.com/spf13/cobra"
)

const shellPrompt = "\nEnter a procedure name (add -d at the end to print the dependencies): "

// RunShell reads procedure names from stdin in a loop and answers each from
// the index. The loop ends at end of input.
func RunShell(cmd *cobra.Command, args []string) error {
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

	palette := ux.NewPalette(cfg.NoColor)
	reader := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(shellPrompt)
		if !reader.Scan() {
			break
		}
		line := strings.TrimSpace(reader.Text())
		if line == "" {
			continue
		}
		name, deps := parseQueryTarget(line)
		runQuery(os.Stdout, snap, palette, name, deps, maxDepth)
	}
	fmt.Println()
	if err := reader.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}
