// Package cli implements the mapharvest command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrlokans/mapharvest/internal/config"
	"github.com/mrlokans/mapharvest/internal/entrypoint"
	"github.com/mrlokans/mapharvest/internal/logging"
)

var (
	cfg       *config.Config
	newConfig = config.NewConfig
)

// NewRootCommand builds the command tree. Running it without a subcommand serves the API.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "mapharvest",
		Short:         "mapharvest harvests ArcGIS map metadata into DataCite documents.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = newConfig()
			return logging.Init(cfg.Log.Level, cfg.Log.Format)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(cfg, version)
		},
	}

	root.AddCommand(
		newServeCommand(version),
		newHarvestCommand(),
		newETLsCommand(),
		newHashPasswordCommand(),
	)
	return root
}

func newServeCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the control API, task workers and scheduler (default).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(cfg, version)
		},
	}
}

// Execute runs the CLI and exits non-zero on failure.
func Execute(ctx context.Context, version string) {
	if err := NewRootCommand(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
