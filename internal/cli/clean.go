package cli

import (
	"fmt"

	"github.com/dcgraph-dev/dcgraph/internal/index"
	"github.com/spf13/cobra"
)

// RunClean deletes the index artifact. Cleaning when no index exists is fine.
func RunClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store := index.NewStore(cfg.IndexPath)
	if err := store.Delete(); err != nil {
		return err
	}
	fmt.Printf("removed %s\n", store.Path())
	return nil
}
