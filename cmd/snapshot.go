package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var snapshotKeep int

// snapshotCmd archives the state documents on demand.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Upload the state documents to object storage",
	Long:  `Uploads the mapping, history, incomplete and run log documents under a fresh id. Requires storage.enabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.Close()
		if rt.uploader == nil {
			return errors.New("storage is disabled; set STORAGE_ENABLED=true")
		}

		id := "manual-" + uuid.NewString()
		if err := rt.uploader.Archive(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "snapshot %s uploaded\n", id)
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived snapshots, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.Close()
		if rt.uploader == nil {
			return errors.New("storage is disabled; set STORAGE_ENABLED=true")
		}

		snaps, err := rt.uploader.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, s := range snaps {
			fmt.Fprintf(cmd.OutOrStdout(), "%-45s %s %6d bytes %d files\n", s.RunID, s.Modified.Format(time.RFC3339), s.Size, len(s.Files))
		}
		return nil
	},
}

var snapshotPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.Close()
		if rt.uploader == nil {
			return errors.New("storage is disabled; set STORAGE_ENABLED=true")
		}

		n, err := rt.uploader.Prune(cmd.Context(), snapshotKeep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d snapshots\n", n)
		return nil
	},
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Replace the local state documents with a snapshot",
	Long:  `Downloads a snapshot over the data directory. Stop the server first: a running service keeps its documents in memory.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.Close()
		if rt.uploader == nil {
			return errors.New("storage is disabled; set STORAGE_ENABLED=true")
		}

		restored, err := rt.uploader.Restore(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, f := range restored {
			fmt.Fprintf(cmd.OutOrStdout(), "restored %s\n", f)
		}
		return nil
	},
}

func init() {
	snapshotPruneCmd.Flags().IntVar(&snapshotKeep, "keep", 30, "Number of snapshots to keep")
	snapshotCmd.AddCommand(snapshotListCmd, snapshotPruneCmd, snapshotRestoreCmd)
	RootCmd.AddCommand(snapshotCmd)
}
