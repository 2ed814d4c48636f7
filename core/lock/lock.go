package lock

import (
	"context"
	"sync"

	"commerce-sync/core/apperrors"

	"golang.org/x/sync/semaphore"
)

// Release frees an acquired guard. It is safe to call more than once.
type Release func()

// Guard admits at most one sync run at a time. Acquire never blocks: when
// the guard is taken it fails with apperrors.ErrSyncInProgress or
// apperrors.ErrLockHeld.
type Guard interface {
	Acquire(ctx context.Context) (Release, error)
}

// Local is an in-process single-slot guard.
type Local struct {
	sem *semaphore.Weighted
}

// NewLocal creates a Local guard.
func NewLocal() *Local {
	return &Local{sem: semaphore.NewWeighted(1)}
}

// Acquire takes the slot or fails with ErrSyncInProgress.
func (l *Local) Acquire(_ context.Context) (Release, error) {
	if !l.sem.TryAcquire(1) {
		return nil, apperrors.ErrSyncInProgress
	}
	return sync.OnceFunc(func() { l.sem.Release(1) }), nil
}

// Held reports whether the slot is currently taken.
func (l *Local) Held() bool {
	if l.sem.TryAcquire(1) {
		l.sem.Release(1)
		return false
	}
	return true
}

// Chain acquires guards in order. If one fails, the ones already taken are
// released.
type Chain []Guard

func (c Chain) Acquire(ctx context.Context) (Release, error) {
	releases := make([]Release, 0, len(c))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, g := range c {
		r, err := g.Acquire(ctx)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, r)
	}
	return sync.OnceFunc(releaseAll), nil
}
