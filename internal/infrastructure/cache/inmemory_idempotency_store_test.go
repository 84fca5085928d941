package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeClock lets tests expire entries without sleeping
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClockedStore() (*InMemoryIdempotencyStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := NewInMemoryIdempotencyStore()
	store.now = clock.now
	return store, clock
}

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	ctx := context.Background()
	store, clock := newClockedStore()

	isNew, err := store.MarkProcessed(ctx, "activity-status-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = store.MarkProcessed(ctx, "activity-status-1", time.Hour)
	require.NoError(t, err)
	assert.False(t, isNew, "second mark of the same event is a duplicate")

	clock.advance(time.Hour)
	isNew, err = store.MarkProcessed(ctx, "activity-status-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, isNew, "expired event can be processed again")
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	ctx := context.Background()
	store, clock := newClockedStore()

	processed, err := store.IsProcessed(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, processed)

	_, err = store.MarkProcessed(ctx, "e1", time.Minute)
	require.NoError(t, err)

	processed, err = store.IsProcessed(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, processed)

	clock.advance(2 * time.Minute)
	processed, err = store.IsProcessed(ctx, "e1")
	require.NoError(t, err)
	assert.False(t, processed)
	assert.Equal(t, 0, store.Len(), "expired entry is dropped on read")
}

func TestInMemoryIdempotencyStore_SweepsExpired(t *testing.T) {
	ctx := context.Background()
	store, clock := newClockedStore()

	for i := 0; i < sweepEvery-1; i++ {
		_, err := store.MarkProcessed(ctx, fmt.Sprintf("old-%d", i), time.Second)
		require.NoError(t, err)
	}
	clock.advance(time.Minute)

	_, err := store.MarkProcessed(ctx, "fresh", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestInMemoryIdempotencyStore_ConcurrentMarks(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryIdempotencyStore()

	var winners int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.MarkProcessed(ctx, "shared-event", time.Hour)
			if err == nil && ok {
				atomic.AddInt32(&winners, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners)
}

func TestNewIdempotencyStore_FallsBackToMemory(t *testing.T) {
	store := NewIdempotencyStore(nil, zap.NewNop())
	_, ok := store.(*InMemoryIdempotencyStore)
	assert.True(t, ok)
	assert.NoError(t, store.Close())
}
