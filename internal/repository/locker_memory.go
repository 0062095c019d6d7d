package repository

import (
	"context"
	"sync"
	"time"
)

type memLock struct {
	sem  chan struct{}
	refs int
}

type memoryLocker struct {
	mu    sync.Mutex
	locks map[string]*memLock
	wait  time.Duration
}

func NewMemoryLocker(wait time.Duration) Locker {
	return &memoryLocker{
		locks: make(map[string]*memLock),
		wait:  wait,
	}
}

func (l *memoryLocker) ref(key string) *memLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	lk, ok := l.locks[key]
	if !ok {
		lk = &memLock{sem: make(chan struct{}, 1)}
		l.locks[key] = lk
	}
	lk.refs++
	return lk
}

func (l *memoryLocker) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lk := l.locks[key]
	lk.refs--
	if lk.refs == 0 {
		delete(l.locks, key)
	}
}

func (l *memoryLocker) Acquire(ctx context.Context, keys ...string) (Unlock, error) {
	keys = lockOrder(keys)
	waitCtx, cancel := withWait(ctx, l.wait)
	defer cancel()

	type heldLock struct {
		key string
		lk  *memLock
	}
	held := make([]heldLock, 0, len(keys))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i].lk.sem
			l.unref(held[i].key)
		}
		held = held[:0]
	}

	for _, key := range keys {
		lk := l.ref(key)
		select {
		case lk.sem <- struct{}{}:
			held = append(held, heldLock{key: key, lk: lk})
		case <-waitCtx.Done():
			l.unref(key)
			release()
			return nil, waitErr(ctx, waitCtx)
		}
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}
