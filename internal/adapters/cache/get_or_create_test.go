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
)

func createCallback(data int) func() (string, error) {
	return func() (string, error) {
		return fmt.Sprintf("data%d", data), nil
	}
}

func createErrorCallback(variant int) func() (string, error) {
	return func() (string, error) {
		return "", fmt.Errorf("error%d", variant)
	}
}

func createUnreachable(t *testing.T) func() (string, error) {
	return func() (string, error) {
		t.Error("Unreachable code executed")
		return "", nil
	}
}

func cacheImplementations() []struct {
	name  string
	cache Cache[string]
} {
	return []struct {
		name  string
		cache Cache[string]
	}{
		{
			name:  "BasicCache",
			cache: NewBasicCache[string](),
		},
		{
			name:  "TTLCache",
			cache: NewTTLCache[string](1 * time.Minute),
		},
	}
}

func TestGetOrCreate(t *testing.T) {
	t.Parallel()

	for _, c := range cacheImplementations() {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			t.Run("creates then hits", func(t *testing.T) {
				ctx := t.Context()

				data, created, err := GetOrCreate(ctx, c.cache, "create-hit", createCallback(1))
				require.NoError(t, err)
				require.True(t, created)
				require.Equal(t, "data1", data)

				data, created, err = GetOrCreate(ctx, c.cache, "create-hit", createUnreachable(t))
				require.NoError(t, err)
				require.False(t, created)
				require.Equal(t, "data1", data)
			})

			t.Run("cleans up on error", func(t *testing.T) {
				ctx := t.Context()

				_, _, err := GetOrCreate(ctx, c.cache, "error", createErrorCallback(10))
				require.Error(t, err)

				// The claim is released, so the next caller creates a new entry
				data, created, err := GetOrCreate(ctx, c.cache, "error", createCallback(1))
				require.NoError(t, err)
				require.True(t, created)
				require.Equal(t, "data1", data)
			})

			t.Run("invalidate", func(t *testing.T) {
				ctx := t.Context()

				_, _, err := GetOrCreate(ctx, c.cache, "invalidate", createCallback(1))
				require.NoError(t, err)

				Invalidate(c.cache, "invalidate")

				data, created, err := GetOrCreate(ctx, c.cache, "invalidate", createCallback(2))
				require.NoError(t, err)
				require.True(t, created)
				require.Equal(t, "data2", data)
			})

			t.Run("invalidate missing entry", func(t *testing.T) {
				Invalidate(c.cache, "missing")

				result := c.cache.getOrClaim("missing")
				require.True(t, result.claimed)
				c.cache.delete("missing")
			})
		})
	}
}

func TestGetOrCreateGivesUpWhenCancelled(t *testing.T) {
	t.Parallel()

	cache := NewBasicCache[string]()

	// Claimed by someone else, never set
	result := cache.getOrClaim("key")
	require.True(t, result.claimed)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, _, err := GetOrCreate(ctx, cache, "key", createUnreachable(t))
	require.ErrorIs(t, err, context.Canceled)

	// Waiters don't release claims they don't own
	result = cache.getOrClaim("key")
	require.False(t, result.claimed)
}

func TestGetOrCreateDeduplicates(t *testing.T) {
	t.Parallel()

	for _, c := range cacheImplementations() {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			for keyIndex := range 20 {
				var calls atomic.Int32
				callback := func() (string, error) {
					calls.Add(1)
					time.Sleep(5 * time.Millisecond)
					return "data1", nil
				}

				var wg sync.WaitGroup
				for range 10 {
					wg.Go(func() {
						data, _, err := GetOrCreate(t.Context(), c.cache, fmt.Sprintf("key%d", keyIndex), callback)
						assert.NoError(t, err)
						assert.Equal(t, "data1", data)
					})
				}
				wg.Wait()

				require.Equal(t, int32(1), calls.Load(), "Callback should only be called once")
			}
		})
	}
}

func TestTTLCacheExpires(t *testing.T) {
	t.Parallel()

	cache := NewTTLCache[string](50 * time.Millisecond)
	cache.set("key", "value")

	result := cache.getOrClaim("key")
	require.False(t, result.claimed)
	require.True(t, result.valid)
	require.Equal(t, "value", result.data)

	require.Eventually(t, func() bool {
		result := cache.getOrClaim("key")
		if result.claimed {
			cache.delete("key")
			return true
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}
