package cache

import (
	"context"
	"fmt"

	"github.com/Amund211/awardtracker/internal/logging"
)

// GetOrCreate returns the cached value for key, or stores the result of create.
// Concurrent callers for the same key wait for the first one instead of calling create.
//
// Returns data, created, error
func GetOrCreate[T any](ctx context.Context, cache Cache[T], key string, create func() (T, error)) (T, bool, error) {
	// Release the claim if we don't store anything, so other callers can try again
	claimed := false
	set := false
	defer func() {
		if claimed && !set {
			cache.delete(key)
		}
	}()

	for {
		result := cache.getOrClaim(key)

		if result.claimed {
			claimed = true

			logging.FromContext(ctx).InfoContext(ctx, "Getting stored records", "cache", "miss")

			data, err := create()
			if err != nil {
				var empty T
				return empty, false, fmt.Errorf("failed to create cache entry: %w", err)
			}

			cache.set(key, data)
			set = true

			return data, true, nil
		}

		if result.valid {
			logging.FromContext(ctx).InfoContext(ctx, "Getting stored records", "cache", "hit")
			return result.data, false, nil
		}

		if err := ctx.Err(); err != nil {
			var empty T
			return empty, false, fmt.Errorf("gave up waiting for cache: %w", err)
		}

		cache.wait()
	}
}

// Invalidate drops the entry for key, so the next lookup creates it again
func Invalidate[T any](cache Cache[T], key string) {
	cache.delete(key)
}
