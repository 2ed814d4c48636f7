package orchestrator

import (
	"context"
	"errors"
	"time"

	"commerce-sync/core/apperrors"

	"go.uber.org/zap"
)

// Runner starts one sync run.
type Runner interface {
	RunSyncOnce(ctx context.Context) (*SessionResult, error)
}

// Scheduler triggers runs at a fixed interval.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   *zap.Logger
}

// NewScheduler creates a scheduler.
func NewScheduler(runner Runner, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{runner: runner, interval: interval, logger: logger}
}

// Start runs once immediately, then on every tick, until ctx is done.
// Ticks that arrive while a run is in progress are dropped.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Scheduler started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.trigger(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.trigger(ctx)
		}
	}
}

func (s *Scheduler) trigger(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	_, err := s.runner.RunSyncOnce(ctx)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrSyncInProgress), errors.Is(err, apperrors.ErrLockHeld):
		s.logger.Info("Scheduled run skipped, another run is active")
	default:
		s.logger.Error("Scheduled run failed to start", zap.Error(err))
	}
}
