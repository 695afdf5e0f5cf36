package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionLockPrefix = "lock:session:"

	// sessionLockTTL bounds how long a crashed holder can block a key.
	sessionLockTTL = 10 * time.Second

	lockRetryInterval = 25 * time.Millisecond
)

// LockStore serializes dialog turns per session key using Redis SetNX locks.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// Lock blocks until the per-key lock is acquired or the context ends, then
// returns the release func.
func (s *LockStore) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := sessionLockPrefix + key

	for {
		ok, err := s.client.SetNX(ctx, lockKey, "1", sessionLockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				_ = s.client.Del(context.Background(), lockKey).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}
