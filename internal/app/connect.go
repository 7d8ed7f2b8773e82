package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Amund211/awardtracker/internal/adapters/cache"
	"github.com/Amund211/awardtracker/internal/domain"
	"github.com/Amund211/awardtracker/internal/logging"
	"github.com/Amund211/awardtracker/internal/strutils"
)

func validatePlayerID(playerID string) error {
	if err := strutils.ValidatePlayerID(playerID); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidPlayerID, err)
	}
	return nil
}

func validateAwardID(awardID string) error {
	if err := strutils.ValidateAwardID(awardID); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidAwardID, err)
	}
	return nil
}

type ConnectPlayer func(ctx context.Context, playerID string) error

// BuildConnectPlayer loads the stored awards of a player who joined the session
func BuildConnectPlayer(store ProgressStore, offlineCache cache.Cache[[]domain.PlayerAward]) ConnectPlayer {
	return func(ctx context.Context, playerID string) error {
		if err := validatePlayerID(playerID); err != nil {
			return err
		}

		store.LoadPlayer(ctx, playerID)

		// Reads are served from the store while the player is connected
		cache.Invalidate(offlineCache, playerID)

		return nil
	}
}

type DisconnectPlayer func(ctx context.Context, playerID string, reason string) error

// BuildDisconnectPlayer evicts the awards of a player who left the session. Their records are already stored.
func BuildDisconnectPlayer(store ProgressStore, offlineCache cache.Cache[[]domain.PlayerAward]) DisconnectPlayer {
	return func(ctx context.Context, playerID string, reason string) error {
		if err := validatePlayerID(playerID); err != nil {
			return err
		}

		logging.FromContext(ctx).InfoContext(ctx, "Player disconnected", slog.String("reason", reason))

		// Drop anything cached before the player connected
		cache.Invalidate(offlineCache, playerID)

		store.UnloadPlayer(ctx, playerID)

		return nil
	}
}
