package progressrepository

import (
	"context"

	"github.com/Amund211/awardtracker/internal/domain"
)

// ProgressRepository stores the full, ordered award record list of each player.
// Load returns domain.ErrPlayerDataNotFound for players that have never been saved.
type ProgressRepository interface {
	Load(ctx context.Context, playerID string) ([]domain.PlayerAward, error)
	Save(ctx context.Context, playerID string, awards []domain.PlayerAward) error
}
