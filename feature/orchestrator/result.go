package orchestrator

import (
	"time"

	"commerce-sync/core/reconcile"
)

// ClassResult is the outcome of one entity class within a run.
type ClassResult struct {
	Class reconcile.EntityClass `json:"class"`
	reconcile.ClassStats
	// Error is set when the class could not run to completion.
	Error     string `json:"error,omitempty"`
	Cancelled bool   `json:"cancelled,omitempty"`
}

// SessionResult summarizes one sync run. It is what the run log stores.
type SessionResult struct {
	RunID           string        `json:"run_id"`
	StartedAt       time.Time     `json:"started_at"`
	FinishedAt      time.Time     `json:"finished_at"`
	DurationSeconds float64       `json:"duration_seconds"`
	Classes         []ClassResult `json:"classes"`
	Cancelled       bool          `json:"cancelled,omitempty"`
}

// Duration returns the run's wall time.
func (r *SessionResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Class returns the result for class, if it ran.
func (r *SessionResult) Class(class reconcile.EntityClass) (ClassResult, bool) {
	for _, c := range r.Classes {
		if c.Class == class {
			return c, true
		}
	}
	return ClassResult{}, false
}

// Totals sums the counters of every class.
func (r *SessionResult) Totals() reconcile.ClassStats {
	var t reconcile.ClassStats
	for _, c := range r.Classes {
		t.Success += c.Success
		t.Errors += c.Errors
		t.Incomplete += c.Incomplete
		t.Skipped += c.Skipped
		t.Created += c.Created
		t.Updated += c.Updated
		t.Fetched += c.Fetched
	}
	return t
}
