package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetOrLoad_DeduplicatesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "value", nil
	}

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)
	results := make(chan any, workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err == nil {
				results <- v
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	count := 0
	for v := range results {
		count++
		assert.Equal(t, "value", v)
	}
	assert.Equal(t, workers, count)
	assert.LessOrEqual(t, calls.Load(), int32(2))
}

func TestStore_GetOrLoad_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	current := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore(time.Minute)
	store.now = func() time.Time { return current }

	var calls int
	loader := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}

	first, err := store.GetOrLoad(context.Background(), "k", loader)
	require.NoError(t, err)
	second, err := store.GetOrLoad(context.Background(), "k", loader)
	require.NoError(t, err)
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)

	current = current.Add(2 * time.Minute)
	third, err := store.GetOrLoad(context.Background(), "k", loader)
	require.NoError(t, err)
	assert.Equal(t, 2, third)
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	boom := errors.New("boom")
	_, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (any, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	_, ok := store.Get(context.Background(), "k")
	assert.False(t, ok)
}

func TestStore_DeleteDuringLoadIsNotOverwritten(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan any, 1)
	go func() {
		v, _ := store.GetOrLoad(ctx, "leaderboard:a", func(context.Context) (any, error) {
			close(started)
			<-release
			return "stale", nil
		})
		done <- v
	}()

	<-started
	store.Delete(ctx, "leaderboard:a")
	close(release)
	assert.Equal(t, "stale", <-done)

	_, ok := store.Get(ctx, "leaderboard:a")
	assert.False(t, ok, "a load that raced a delete must not be cached")

	fresh, err := store.GetOrLoad(ctx, "leaderboard:a", func(context.Context) (any, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", fresh)

	cached, ok := store.Get(ctx, "leaderboard:a")
	require.True(t, ok)
	assert.Equal(t, "fresh", cached)
}
