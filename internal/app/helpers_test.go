package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Amund211/awardtracker/internal/adapters/progressrepository"
	"github.com/Amund211/awardtracker/internal/domain"
	"github.com/Amund211/awardtracker/internal/events"
	"github.com/Amund211/awardtracker/internal/progress"
	"github.com/Amund211/awardtracker/internal/registry"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.February, 3, 4, 5, 6, 0, time.UTC)

type nopNotifier struct{}

func (nopNotifier) NotifyUnlock(ctx context.Context, playerID string, award domain.AwardDefinition) error {
	return nil
}

type countingLoader struct {
	StoredAwardsLoader

	mutex sync.Mutex
	loads int
}

func (c *countingLoader) Load(ctx context.Context, playerID string) ([]domain.PlayerAward, error) {
	c.mutex.Lock()
	c.loads++
	c.mutex.Unlock()
	return c.StoredAwardsLoader.Load(ctx, playerID)
}

func (c *countingLoader) count() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.loads
}

func newTestStore(t *testing.T, awards ...domain.AwardDefinition) (*progress.Store, *registry.Registry, *progressrepository.Memory) {
	t.Helper()

	reg := registry.New()
	for _, award := range awards {
		require.NoError(t, reg.Register(award))
	}

	repo := progressrepository.NewMemory()
	store, err := progress.NewStore(reg, repo, nopNotifier{}, events.NewBus(), func() time.Time { return now })
	require.NoError(t, err)

	return store, reg, repo
}
