package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Amund211/awardtracker/internal/adapters/cache"
	"github.com/Amund211/awardtracker/internal/domain"
)

type StoredAwardsLoader interface {
	Load(ctx context.Context, playerID string) ([]domain.PlayerAward, error)
}

type GetPlayerAwards func(ctx context.Context, playerID string) ([]domain.PlayerAward, error)

// BuildGetPlayerAwardsWithCache reads the awards of connected players from the store,
// and the stored awards of offline players through the cache
func BuildGetPlayerAwardsWithCache(
	store ProgressStore,
	offlineCache cache.Cache[[]domain.PlayerAward],
	repo StoredAwardsLoader,
) GetPlayerAwards {
	return func(ctx context.Context, playerID string) ([]domain.PlayerAward, error) {
		if err := validatePlayerID(playerID); err != nil {
			return nil, err
		}

		if store.IsLoaded(playerID) {
			records, err := store.Records(ctx, playerID)
			if err == nil {
				return records, nil
			}
			if !errors.Is(err, domain.ErrPlayerNotLoaded) {
				return nil, fmt.Errorf("failed to get records from store: %w", err)
			}
			// Disconnected in the meantime
		}

		records, _, err := cache.GetOrCreate(ctx, offlineCache, playerID, func() ([]domain.PlayerAward, error) {
			records, err := repo.Load(ctx, playerID)
			if errors.Is(err, domain.ErrPlayerDataNotFound) {
				return []domain.PlayerAward{}, nil
			}
			if err != nil {
				// NOTE: Repository implementations handle their own error reporting
				return nil, fmt.Errorf("failed to load stored records: %w", err)
			}
			return records, nil
		})
		if err != nil {
			return nil, err
		}

		// The cached slice is shared between callers
		copied := make([]domain.PlayerAward, 0, len(records))
		for _, record := range records {
			copied = append(copied, record.Copy())
		}
		return copied, nil
	}
}
