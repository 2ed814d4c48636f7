package orchestrator

import (
	"fmt"
	"strings"

	"commerce-sync/core/reconcile"
	"commerce-sync/core/utils"
)

// Summary renders a run as the multi-line report printed by the CLI.
func Summary(r *SessionResult) string {
	var b strings.Builder

	status := "finished"
	if r.Cancelled {
		status = "cancelled"
	}
	fmt.Fprintf(&b, "Sync run %s %s in %s\n", r.RunID, status, utils.FormatDuration(r.Duration()))

	for _, c := range r.Classes {
		fmt.Fprintf(&b, "  %-10s %s", c.Class, statsLine(c.ClassStats))
		if c.Error != "" {
			fmt.Fprintf(&b, " [error: %s]", c.Error)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "  %-10s %s\n", "total", statsLine(r.Totals()))
	return b.String()
}

func statsLine(s reconcile.ClassStats) string {
	return fmt.Sprintf("%d success (%d created, %d updated), %d errors, %d incomplete, %d skipped",
		s.Success, s.Created, s.Updated, s.Errors, s.Incomplete, s.Skipped)
}
