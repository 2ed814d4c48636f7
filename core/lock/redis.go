package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"commerce-sync/core/apperrors"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds the optional cross-process lock settings.
type Config struct {
	RedisAddr     string `mapstructure:"redis_addr" default:""`
	RedisPassword string `mapstructure:"redis_password" default:""`
	RedisDB       int    `mapstructure:"redis_db" default:"0"`
	Key           string `mapstructure:"key" default:"commerce-sync:run"`
	TTLSeconds    int    `mapstructure:"ttl_seconds" default:"300"`
}

// Enabled reports whether a Redis address is configured.
func (c Config) Enabled() bool {
	return c.RedisAddr != ""
}

// Redis guards runs across processes sharing the same store files. The lock
// is refreshed at half its TTL while held.
type Redis struct {
	client *redislock.Client
	key    string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisClient connects to the configured Redis server.
func NewRedisClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// NewRedis creates a Redis guard on top of rdb.
func NewRedis(rdb redislock.RedisClient, cfg Config, logger *zap.Logger) *Redis {
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Redis{
		client: redislock.New(rdb),
		key:    cfg.Key,
		ttl:    ttl,
		logger: logger,
	}
}

// Acquire obtains the lock or fails with ErrLockHeld.
func (r *Redis) Acquire(ctx context.Context) (Release, error) {
	l, err := r.client.Obtain(ctx, r.key, r.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, apperrors.ErrLockHeld
	}
	if err != nil {
		return nil, err
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.refresh(l, stop)
	}()

	return sync.OnceFunc(func() {
		close(stop)
		wg.Wait()
		if err := l.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			r.logger.Warn("Failed to release run lock", zap.String("key", r.key), zap.Error(err))
		}
	}), nil
}

func (r *Redis) refresh(l *redislock.Lock, stop <-chan struct{}) {
	ticker := time.NewTicker(r.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := l.Refresh(context.Background(), r.ttl, nil); err != nil {
				r.logger.Warn("Failed to refresh run lock", zap.String("key", r.key), zap.Error(err))
				return
			}
		}
	}
}
