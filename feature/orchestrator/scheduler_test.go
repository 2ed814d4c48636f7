package orchestrator

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"commerce-sync/core/apperrors"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (r *countingRunner) RunSyncOnce(context.Context) (*SessionResult, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return &SessionResult{}, nil
}

func TestScheduler_RunsImmediatelyAndOnTicks(t *testing.T) {
	runner := &countingRunner{}
	s := NewScheduler(runner, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return runner.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestScheduler_SkipsBusyTicks(t *testing.T) {
	runner := &countingRunner{err: apperrors.ErrSyncInProgress}
	s := NewScheduler(runner, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	s.Start(ctx)

	assert.GreaterOrEqual(t, runner.calls.Load(), int32(2), "busy ticks keep the scheduler alive")
}

func TestScheduler_CancelledBeforeStart(t *testing.T) {
	runner := &countingRunner{}
	s := NewScheduler(runner, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Start(ctx)

	assert.Zero(t, runner.calls.Load())
}
