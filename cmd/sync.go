package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"commerce-sync/feature/orchestrator"

	"github.com/spf13/cobra"
)

// syncCmd runs a single sync session.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one sync session and print the summary",
	Long: `Runs products, customers and orders once against the configured APIs.
An interrupt stops the run between entities; progress made so far is kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := bootstrap(ctx, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		result, err := rt.service.RunSyncOnce(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), orchestrator.Summary(result))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(syncCmd)
}
