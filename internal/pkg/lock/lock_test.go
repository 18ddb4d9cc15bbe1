package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	m := NewKeyedMutex()

	var inside, max int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.Do(context.Background(), []string{"room:1"}, func() error {
				mu.Lock()
				inside++
				if inside > max {
					max = inside
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, max, "critical sections for one key must not interleave")
}

func TestKeyedMutex_DisjointKeysRunConcurrently(t *testing.T) {
	m := NewKeyedMutex()

	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = m.Do(context.Background(), []string{"room:1"}, func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	done := make(chan error, 1)
	go func() {
		done <- m.Do(context.Background(), []string{"room:2"}, func() error { return nil })
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("disjoint key blocked behind unrelated holder")
	}
	close(release)
}

func TestKeyedMutex_OverlappingKeySetsNoDeadlock(t *testing.T) {
	m := NewKeyedMutex()
	var wg sync.WaitGroup

	// Opposite acquisition orders; sorted acquisition must prevent deadlock.
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = m.Do(context.Background(), []string{"a", "b"}, func() error { return nil })
		}()
		go func() {
			defer wg.Done()
			_ = m.Do(context.Background(), []string{"b", "a"}, func() error { return nil })
		}()
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("deadlock on overlapping key sets")
	}
}

func TestKeyedMutex_ContextCancelledWhileWaiting(t *testing.T) {
	m := NewKeyedMutex()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = m.Do(context.Background(), []string{"k"}, func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := m.Do(ctx, []string{"k"}, func() error { return nil })
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)

	// The key must be usable again after the holder exits.
	err = m.Do(context.Background(), []string{"k"}, func() error { return nil })
	assert.NoError(t, err)
}
