package app

import (
	"context"

	"github.com/Amund211/awardtracker/internal/domain"
)

// ProgressStore is the in-memory award state of connected players
type ProgressStore interface {
	LoadPlayer(ctx context.Context, playerID string)
	UnloadPlayer(ctx context.Context, playerID string)
	UnloadAll(ctx context.Context)
	IsLoaded(playerID string) bool

	AddProgress(ctx context.Context, playerID, awardID string, delta int) error
	SetProgress(ctx context.Context, playerID, awardID string, value int) error
	Unlock(ctx context.Context, playerID, awardID string) error
	Lock(ctx context.Context, playerID, awardID string) error
	Remove(ctx context.Context, playerID, awardID string) error
	RemoveAll(ctx context.Context, playerID string) error

	Records(ctx context.Context, playerID string) ([]domain.PlayerAward, error)
}

type AwardCatalog interface {
	Get(id string) (domain.AwardDefinition, bool)
	List() []domain.AwardDefinition
}
