package state

import (
	"time"

	"commerce-sync/core/persist"
)

// Categories are the top-level keys every store document starts with.
var Categories = []string{"products", "customers", "orders"}

// Option configures a store.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the clock used for timestamps and backup names.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) persistOptions() []persist.Option {
	return []persist.Option{persist.WithClock(o.now)}
}
