// Package lock provides the advisory guard that closes the
// check-then-commit gap: a conflict re-check and the assignment write run
// under a lock keyed by resource, so no concurrent commit can slip an
// overlapping assignment in between.
package lock

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrNotAcquired is returned when a guard cannot take all requested keys.
// Callers surface it as a concurrency conflict, retryable at most once.
var ErrNotAcquired = errors.New("lock: not acquired")

// Guard serializes fn against all other guarded sections sharing any of
// the given keys.
type Guard interface {
	Do(ctx context.Context, keys []string, fn func() error) error
}

// KeyedMutex is the in-process Guard. Keys are sorted before acquisition
// so two calls locking overlapping key sets cannot deadlock.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyLock)}
}

func (m *KeyedMutex) Do(ctx context.Context, keys []string, fn func() error) error {
	keys = dedupeSorted(keys)

	acquired := make([]string, 0, len(keys))
	release := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			m.release(acquired[i])
		}
	}

	for _, key := range keys {
		if err := m.acquire(ctx, key); err != nil {
			release()
			return err
		}
		acquired = append(acquired, key)
	}
	defer release()

	return fn()
}

func (m *KeyedMutex) acquire(ctx context.Context, key string) error {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &keyLock{ch: make(chan struct{}, 1)}
		m.locks[key] = l
	}
	l.refs++
	m.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		m.unref(key, l)
		return ctx.Err()
	}
}

func (m *KeyedMutex) release(key string) {
	m.mu.Lock()
	l := m.locks[key]
	m.mu.Unlock()
	<-l.ch
	m.unref(key, l)
}

func (m *KeyedMutex) unref(key string, l *keyLock) {
	m.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(m.locks, key)
	}
	m.mu.Unlock()
}

func dedupeSorted(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
