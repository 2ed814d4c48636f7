package cmd

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"commerce-sync/core/state"

	"github.com/spf13/cobra"
)

var incompleteJSON bool

// incompleteCmd is the parent command for quarantine administration.
var incompleteCmd = &cobra.Command{
	Use:   "incomplete",
	Short: "Inspect and clear quarantined records",
}

var incompleteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List quarantined records by class",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.Close()

		listed := rt.service.ListIncomplete()
		out := cmd.OutOrStdout()
		if incompleteJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(listed)
		}

		classes := make([]string, 0, len(listed))
		for c := range listed {
			classes = append(classes, c)
		}
		slices.Sort(classes)
		for _, c := range classes {
			fmt.Fprintf(out, "%s (%d)\n", c, len(listed[c]))
			fmt.Fprint(out, formatRecords(listed[c]))
		}
		return nil
	},
}

var incompleteStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show quarantine statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.Close()

		stats := rt.service.IncompleteStatistics()
		out := cmd.OutOrStdout()
		if incompleteJSON {
			return json.NewEncoder(out).Encode(stats)
		}
		fmt.Fprintf(out, "total:               %d\n", stats.Total)
		fmt.Fprintf(out, "missing description: %d\n", stats.MissingDescription)
		fmt.Fprintf(out, "missing dimensions:  %d\n", stats.MissingDimensions)
		fmt.Fprintf(out, "missing weight:      %d\n", stats.MissingWeight)
		fmt.Fprintf(out, "missing other:       %d\n", stats.MissingOther)
		return nil
	},
}

var incompleteClearCmd = &cobra.Command{
	Use:   "clear <id>",
	Short: "Remove a record from the quarantine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.Close()

		if !rt.service.ClearIncomplete(args[0]) {
			return fmt.Errorf("no incomplete record with id %s", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", args[0])
		return nil
	},
}

func formatRecords(records map[string]state.IncompleteRecord) string {
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var b strings.Builder
	for _, id := range ids {
		rec := records[id]
		fmt.Fprintf(&b, "  %-24s %-40s missing: %s\n", id, rec.Name, strings.Join(rec.MissingFields, ", "))
	}
	return b.String()
}

func init() {
	incompleteCmd.PersistentFlags().BoolVar(&incompleteJSON, "json", false, "Print JSON")
	incompleteCmd.AddCommand(incompleteListCmd, incompleteStatsCmd, incompleteClearCmd)
	RootCmd.AddCommand(incompleteCmd)
}
