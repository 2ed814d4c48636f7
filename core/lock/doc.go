// Package lock provides the run guard that keeps sync runs from overlapping.
//
// Local is a non-blocking single-slot semaphore and is always used. When a
// Redis address is configured, a Redis guard built on bsm/redislock is
// chained after it so that two processes sharing the same data directory
// cannot run at once either.
//
//	guard := lock.Chain{lock.NewLocal(), lock.NewRedis(rdb, cfg, logger)}
//	release, err := guard.Acquire(ctx)
//	if err != nil {
//	    return err // apperrors.ErrSyncInProgress or apperrors.ErrLockHeld
//	}
//	defer release()
package lock
