package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kamar-Folarin/repo-mirror/internal/models"
)

type syncOptions struct {
	source   string
	target   string
	pushType string
}

func newSyncCmd(root *rootOptions) *cobra.Command {
	opts := &syncOptions{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror one registry repository onto another and print the result",
		Example: `  server sync --source widgets --target widgets-mirror
  server sync --source widgets --target widgets-mirror --push-type force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.Close()

			result := a.newMirrorService().Execute(cmd.Context(), models.SyncRequest{
				Type:         models.OperationPush,
				SourceRepoID: opts.source,
				TargetRepoID: opts.target,
				PushType:     models.PushType(opts.pushType),
			})

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}

			if !result.Success {
				return fmt.Errorf("sync failed: %s", result.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.source, "source", "", "Source repository id")
	cmd.Flags().StringVar(&opts.target, "target", "", "Target repository id")
	cmd.Flags().StringVar(&opts.pushType, "push-type", string(models.PushNormal), "normal, force or force-with-lease")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("target")

	return cmd
}
