package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dcgraph",
		Short: "Explore call graphs of TCL procedures",
		Long: `Dcgraph scans TCL sources for procedure definitions, records which
procedure calls which, and persists the result as a compact index.

Once an index is built, queries print the bounded call sequence of a
procedure or the list of procedures that call it. Running dcgraph with
no command starts an interactive prompt over the index.`,
		Args: cobra.NoArgs,
		RunE: RunShell,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default .dcgraph.yaml)")

	buildCmd := &cobra.Command{
		Use:   "build <path>...",
		Short: "Parse TCL sources and write the call-graph index",
		Args:  cobra.MinimumNArgs(1),
		RunE:  RunBuild,
	}

	queryCmd := &cobra.Command{
		Use:   "query <procedure>...",
		Short: "Print the call sequence or dependencies of procedures",
		Args:  cobra.MinimumNArgs(1),
		RunE:  RunQuery,
	}
	queryCmd.Flags().BoolP("deps", "d", false, "List the procedures that call the given one")
	queryCmd.Flags().Int("max-depth", 5, "Maximum call-sequence depth")

	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Query the index interactively",
		Args:  cobra.NoArgs,
		RunE:  RunShell,
	}
	shellCmd.Flags().Int("max-depth", 5, "Maximum call-sequence depth")

	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete the index artifact",
		Args:  cobra.NoArgs,
		RunE:  RunClean,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dcgraph %s\n", version)
		},
	}

	rootCmd.AddCommand(
		buildCmd,
		queryCmd,
		shellCmd,
		cleanCmd,
		versionCmd,
	)

	return rootCmd
}
