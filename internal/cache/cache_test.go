package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osintranet/internal/bus"
	"osintranet/internal/cache"
)

type keyedQuery struct {
	Number int
}

func (q keyedQuery) CacheKey() string {
	return "n" + string(rune('0'+q.Number))
}

type plainQuery struct{}

type touchCommand struct{}

type result struct {
	Names []string
}

func TestQuery_ServesSecondCallFromStore(t *testing.T) {
	store := cache.NewMemoryStore()
	calls := 0
	h := cache.Query(store, time.Minute, func(ctx context.Context, q keyedQuery) (result, error) {
		calls++
		return result{Names: []string{"a", "b"}}, nil
	})

	first, err := h(context.Background(), keyedQuery{Number: 1})
	require.NoError(t, err)
	second, err := h(context.Background(), keyedQuery{Number: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)

	_, err = h(context.Background(), keyedQuery{Number: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestQuery_SkipsQueriesWithoutKey(t *testing.T) {
	store := cache.NewMemoryStore()
	calls := 0
	h := cache.Query(store, time.Minute, func(ctx context.Context, q plainQuery) (int, error) {
		calls++
		return calls, nil
	})

	_, _ = h(context.Background(), plainQuery{})
	_, _ = h(context.Background(), plainQuery{})

	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, store.Len())
}

func TestQuery_DoesNotCacheErrors(t *testing.T) {
	store := cache.NewMemoryStore()
	h := cache.Query(store, time.Minute, func(ctx context.Context, q keyedQuery) (int, error) {
		return 0, errors.New("down")
	})

	_, err := h(context.Background(), keyedQuery{Number: 1})
	assert.Error(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestInvalidate_ClearsNamespaceAfterSuccessfulCommand(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	require.NoError(t, store.Set(ctx, cache.Namespace+"x", []byte("1"), 0))
	require.NoError(t, store.Set(ctx, "other:y", []byte("2"), 0))

	b := bus.NewCommands(cache.Invalidate(store))
	bus.HandleCommand(b, func(ctx context.Context, cmd touchCommand) error { return nil })

	require.NoError(t, bus.Publish(ctx, b, touchCommand{}))

	_, found, _ := store.Get(ctx, cache.Namespace+"x")
	assert.False(t, found)
	_, found, _ = store.Get(ctx, "other:y")
	assert.True(t, found)
}

func TestInvalidate_KeepsCacheWhenCommandFails(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	require.NoError(t, store.Set(ctx, cache.Namespace+"x", []byte("1"), 0))

	b := bus.NewCommands(cache.Invalidate(store))
	bus.HandleCommand(b, func(ctx context.Context, cmd touchCommand) error { return errors.New("no") })

	assert.Error(t, bus.Publish(ctx, b, touchCommand{}))
	_, found, _ := store.Get(ctx, cache.Namespace+"x")
	assert.True(t, found)
}

func TestQuery_ResultFromBeforeCommandIsNotServedAfterIt(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	b := bus.NewCommands(cache.Invalidate(store))
	bus.HandleCommand(b, func(ctx context.Context, cmd touchCommand) error { return nil })

	calls := 0
	h := cache.Query(store, time.Minute, func(ctx context.Context, q keyedQuery) (int, error) {
		calls++
		if calls == 1 {
			// A command completes while the first result is being computed.
			require.NoError(t, bus.Publish(ctx, b, touchCommand{}))
		}
		return calls, nil
	})

	first, err := h(ctx, keyedQuery{Number: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := h(ctx, keyedQuery{Number: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, second)

	third, err := h(ctx, keyedQuery{Number: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, third)
}

func TestMemoryStore_Incr(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()

	n, err := store.Incr(ctx, cache.GenerationKey)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = store.Incr(ctx, cache.GenerationKey)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	data, found, err := store.Get(ctx, cache.GenerationKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2", string(data))

	require.NoError(t, store.Set(ctx, "word", []byte("abc"), 0))
	_, err = store.Incr(ctx, "word")
	assert.Error(t, err)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Nanosecond))
	time.Sleep(time.Millisecond)

	_, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}
