package main

import (
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply registry database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			// bootstrap migrates as part of connecting
			a, err := bootstrap(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			a.logger.Info("Migrations applied")
			return nil
		},
	}
}
