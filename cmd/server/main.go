package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title Repo Mirror API
// @version 1.0
// @description Mirrors one GitHub repository onto another on demand
// @host localhost:8080
// @BasePath /api/v1
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	envFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "server",
		Short: "GitHub repository mirroring service",
		Long: `Mirrors one registered GitHub repository onto another on demand.
Runs the HTTP API by default; subcommands manage the registry and run single syncs.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Path to an optional .env file")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newSyncCmd(opts),
	)

	return cmd
}
