package cmd

import (
	"fmt"
	"os"

	"commerce-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "commerce-sync",
	Short: "ERP and storefront synchronization service",
	Long: `commerce-sync keeps an ERP and an e-commerce storefront in step.
Products flow from the ERP to the storefront; customers and orders flow back.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format at debug level gives readable ISO8601 timestamps on a terminal.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
