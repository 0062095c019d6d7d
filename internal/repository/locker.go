package repository

import (
	"context"
	"errors"
	"sort"
	"time"
)

var ErrLockTimeout = errors.New("lock wait timeout")

// Unlock releases every key taken by one Acquire call. It is safe to call more than once.
type Unlock func()

// Locker serializes critical sections across requests.
// Implementations: Redis (multi-instance) or in-memory (single instance / tests).
type Locker interface {
	// Acquire blocks until all keys are held, ctx ends, or the wait deadline passes.
	Acquire(ctx context.Context, keys ...string) (Unlock, error)
}

// lockOrder deduplicates and sorts keys so overlapping key sets never deadlock.
func lockOrder(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	ordered := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		ordered = append(ordered, k)
	}
	sort.Strings(ordered)
	return ordered
}

func withWait(ctx context.Context, wait time.Duration) (context.Context, context.CancelFunc) {
	if wait <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, wait)
}

// waitErr maps an expired wait deadline to ErrLockTimeout and keeps caller cancellation as is.
func waitErr(parent, waitCtx context.Context) error {
	if err := parent.Err(); err != nil {
		return err
	}
	if errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
		return ErrLockTimeout
	}
	return waitCtx.Err()
}
