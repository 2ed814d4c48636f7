package reconcile

import (
	"context"

	"go.uber.org/zap"
)

// DefaultPageSize is used when PageOptions.Limit is not set.
const DefaultPageSize = 100

// PageOptions controls CollectAll.
type PageOptions struct {
	// Limit is the page size requested from the source.
	Limit int
	// MaxPages caps the number of fetches. Zero means no cap.
	MaxPages int
}

// PageFetcher fetches one page.
type PageFetcher[R any] func(ctx context.Context, page, limit int) (R, error)

// ItemExtractor pulls the items out of a page. ok is false for a page whose
// shape is not what the caller expects.
type ItemExtractor[R, T any] func(resp R) (items []T, ok bool)

// CollectAll drains a paged source starting at page 1.
// It stops on an empty page or a page shorter than the limit. A malformed
// page ends collection early with what was gathered so far. A fetch error is
// returned together with the items collected before it.
func CollectAll[R, T any](ctx context.Context, logger *zap.Logger, opts PageOptions, fetch PageFetcher[R], extract ItemExtractor[R, T]) ([]T, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}

	var all []T
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		if opts.MaxPages > 0 && page > opts.MaxPages {
			logger.Warn("Page cap reached, stopping collection",
				zap.Int("max_pages", opts.MaxPages),
				zap.Int("collected", len(all)),
			)
			return all, nil
		}

		resp, err := fetch(ctx, page, limit)
		if err != nil {
			return all, err
		}

		items, ok := extract(resp)
		if !ok {
			logger.Warn("Malformed page, stopping collection",
				zap.Int("page", page),
				zap.Int("collected", len(all)),
			)
			return all, nil
		}

		all = append(all, items...)
		if len(items) < limit {
			return all, nil
		}
	}
}
