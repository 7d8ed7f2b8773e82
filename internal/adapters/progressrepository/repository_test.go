package progressrepository

import (
	"testing"
	"time"

	"github.com/Amund211/awardtracker/internal/domain"
	"github.com/stretchr/testify/require"
)

// Behaviour every ProgressRepository implementation must have
func testProgressRepository(t *testing.T, newRepository func(t *testing.T) ProgressRepository) {
	t.Helper()

	unlockedAt := time.Date(2024, 6, 1, 18, 30, 0, 123000000, time.UTC)

	t.Run("load unknown player", func(t *testing.T) {
		t.Parallel()

		repo := newRepository(t)

		_, err := repo.Load(t.Context(), "NeverSaved")
		require.ErrorIs(t, err, domain.ErrPlayerDataNotFound)
	})

	t.Run("save and load", func(t *testing.T) {
		t.Parallel()

		repo := newRepository(t)
		ctx := t.Context()

		awards := []domain.PlayerAward{
			{AwardID: "first_kill", Progress: 6, Unlocked: true, UnlockedAt: &unlockedAt},
			{AwardID: "marathon", Progress: 12},
			{AwardID: "negative", Progress: -4},
		}

		require.NoError(t, repo.Save(ctx, "Player1", awards))

		loaded, err := repo.Load(ctx, "Player1")
		require.NoError(t, err)
		requireSameAwards(t, awards, loaded)
	})

	t.Run("save overwrites", func(t *testing.T) {
		t.Parallel()

		repo := newRepository(t)
		ctx := t.Context()

		require.NoError(t, repo.Save(ctx, "Player1", []domain.PlayerAward{
			{AwardID: "first_kill", Progress: 1, Unlocked: true, UnlockedAt: &unlockedAt},
		}))
		require.NoError(t, repo.Save(ctx, "Player1", []domain.PlayerAward{
			{AwardID: "marathon", Progress: 3},
		}))

		loaded, err := repo.Load(ctx, "Player1")
		require.NoError(t, err)
		requireSameAwards(t, []domain.PlayerAward{{AwardID: "marathon", Progress: 3}}, loaded)
	})

	t.Run("empty set is distinct from no data", func(t *testing.T) {
		t.Parallel()

		repo := newRepository(t)
		ctx := t.Context()

		require.NoError(t, repo.Save(ctx, "Player1", []domain.PlayerAward{}))

		loaded, err := repo.Load(ctx, "Player1")
		require.NoError(t, err)
		require.Empty(t, loaded)
	})

	t.Run("players are independent", func(t *testing.T) {
		t.Parallel()

		repo := newRepository(t)
		ctx := t.Context()

		require.NoError(t, repo.Save(ctx, "Player1", []domain.PlayerAward{{AwardID: "a", Progress: 1}}))
		require.NoError(t, repo.Save(ctx, "Player2", []domain.PlayerAward{{AwardID: "b", Progress: 2}}))

		loaded, err := repo.Load(ctx, "Player1")
		require.NoError(t, err)
		requireSameAwards(t, []domain.PlayerAward{{AwardID: "a", Progress: 1}}, loaded)

		loaded, err = repo.Load(ctx, "Player2")
		require.NoError(t, err)
		requireSameAwards(t, []domain.PlayerAward{{AwardID: "b", Progress: 2}}, loaded)
	})

	t.Run("saved slice can be mutated afterwards", func(t *testing.T) {
		t.Parallel()

		repo := newRepository(t)
		ctx := t.Context()

		unlockedAtCopy := unlockedAt
		awards := []domain.PlayerAward{{AwardID: "a", Progress: 1, Unlocked: true, UnlockedAt: &unlockedAtCopy}}
		require.NoError(t, repo.Save(ctx, "Player1", awards))

		awards[0].Progress = 100
		unlockedAtCopy = unlockedAt.Add(time.Hour)

		loaded, err := repo.Load(ctx, "Player1")
		require.NoError(t, err)
		require.Equal(t, 1, loaded[0].Progress)
		require.True(t, unlockedAt.Equal(*loaded[0].UnlockedAt))
	})
}

func TestMemory(t *testing.T) {
	t.Parallel()

	testProgressRepository(t, func(t *testing.T) ProgressRepository {
		return NewMemory()
	})
}
