package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v8"
	"github.com/piresc/coingate/internal/pkg/constants"
	"github.com/piresc/coingate/internal/pkg/keylock"
	"github.com/piresc/coingate/internal/pkg/logger"
	"github.com/piresc/coingate/internal/pkg/models"
	"github.com/piresc/coingate/services/gateway"
)

const (
	defaultLockExpiry = 60 * time.Second
	lockRetryDelay    = 50 * time.Millisecond
)

// RedisLocker serializes notification handling per external id across replicas
type RedisLocker struct {
	rs     *redsync.Redsync
	expiry time.Duration
}

var _ gateway.Locker = (*RedisLocker)(nil)

// NewRedisLocker creates a redsync backed locker. expiry bounds how long a crashed holder blocks others.
func NewRedisLocker(redisClient *redis.Client, expiry time.Duration) *RedisLocker {
	if expiry <= 0 {
		expiry = defaultLockExpiry
	}
	return &RedisLocker{
		rs:     redsync.New(goredis.NewPool(redisClient)),
		expiry: expiry,
	}
}

// Lock retries until the key is free or ctx is done
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	mutex := l.rs.NewMutex(
		fmt.Sprintf(constants.KeyTransactionLock, key),
		redsync.WithExpiry(l.expiry),
		redsync.WithTries(lockTries(ctx, l.expiry)),
		redsync.WithRetryDelay(lockRetryDelay),
	)

	if err := mutex.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to acquire lock for %s: %w", key, err)
	}

	return func() {
		// the caller's ctx may already be done; release on a fresh one
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if ok, err := mutex.UnlockContext(releaseCtx); err != nil || !ok {
			logger.Warn("Failed to release transaction lock",
				logger.String("key", key),
				logger.Bool("held", ok),
				logger.Err(err),
			)
		}
	}, nil
}

// lockTries spreads attempts over the ctx deadline, or over the lock expiry without one
func lockTries(ctx context.Context, expiry time.Duration) int {
	wait := expiry
	if deadline, ok := ctx.Deadline(); ok {
		wait = time.Until(deadline)
	}
	tries := int(wait / lockRetryDelay)
	if tries < 1 {
		return 1
	}
	return tries
}

// NewLocker picks the lock backend named by the gateway config
func NewLocker(cfg *models.Config, redisClient *redis.Client) (gateway.Locker, error) {
	switch cfg.Gateway.LockBackend {
	case "", constants.LockBackendMemory:
		return keylock.New(), nil
	case constants.LockBackendRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("lock backend %q needs a redis client", cfg.Gateway.LockBackend)
		}
		return NewRedisLocker(redisClient, cfg.Gateway.LockTTL), nil
	default:
		return nil, fmt.Errorf("unknown lock backend %q", cfg.Gateway.LockBackend)
	}
}
