package orchestrator

import (
	"time"

	"commerce-sync/core/reconcile"
)

// Config holds the sync run settings.
type Config struct {
	// DataDir holds the state documents.
	DataDir string `mapstructure:"data_dir" default:"data"`
	// IntervalMinutes is the scheduler period.
	IntervalMinutes int `mapstructure:"interval_minutes" default:"60"`
	// PageSize is the page limit requested from list endpoints.
	PageSize int `mapstructure:"page_size" default:"100"`
	// MaxPages caps pages per class. Zero means no cap.
	MaxPages int `mapstructure:"max_pages" default:"1000"`
	// RunLogCapacity is how many runs the file run log keeps.
	RunLogCapacity int `mapstructure:"run_log_capacity" default:"100"`
}

// Interval returns the scheduler period.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// PageOptions returns the paging settings for adapters.
func (c Config) PageOptions() reconcile.PageOptions {
	return reconcile.PageOptions{Limit: c.PageSize, MaxPages: c.MaxPages}
}
