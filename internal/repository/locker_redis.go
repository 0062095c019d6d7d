package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"campus/spacehub/pkg/crypto"
)

const (
	redisLockPrefix = "spacehub:lock:"
	redisLockRetry  = 25 * time.Millisecond
)

// Deletes the key only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisLocker returns a Locker whose keys expire after ttl even if the holder dies.
func NewRedisLocker(client *redis.Client, ttl, wait time.Duration) Locker {
	return &redisLocker{client: client, ttl: ttl, wait: wait}
}

func (l *redisLocker) Acquire(ctx context.Context, keys ...string) (Unlock, error) {
	keys = lockOrder(keys)
	token, err := crypto.GenerateLockToken()
	if err != nil {
		return nil, err
	}

	waitCtx, cancel := withWait(ctx, l.wait)
	defer cancel()

	held := make([]string, 0, len(keys))
	release := func() {
		bg := context.WithoutCancel(ctx)
		for i := len(held) - 1; i >= 0; i-- {
			_ = releaseScript.Run(bg, l.client, []string{held[i]}, token).Err()
		}
		held = held[:0]
	}

	for _, key := range keys {
		full := redisLockPrefix + key
		if err := l.take(ctx, waitCtx, full, token); err != nil {
			release()
			return nil, err
		}
		held = append(held, full)
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

func (l *redisLocker) take(parent, waitCtx context.Context, key, token string) error {
	ticker := time.NewTicker(redisLockRetry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(waitCtx, key, token, l.ttl).Result()
		if err != nil {
			if waitCtx.Err() != nil {
				return waitErr(parent, waitCtx)
			}
			return fmt.Errorf("acquire %s: %w", key, err)
		}
		if ok {
			return nil
		}
		select {
		case <-ticker.C:
		case <-waitCtx.Done():
			return waitErr(parent, waitCtx)
		}
	}
}
