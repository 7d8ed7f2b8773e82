package progressrepository

import (
	"context"
	"fmt"
	"sync"

	"github.com/Amund211/awardtracker/internal/domain"
)

// Memory keeps encoded player data in memory. Data is lost on restart.
type Memory struct {
	data  map[string][]byte
	mutex sync.Mutex
}

func NewMemory() *Memory {
	return &Memory{
		data: make(map[string][]byte),
	}
}

func (m *Memory) Load(ctx context.Context, playerID string) ([]domain.PlayerAward, error) {
	m.mutex.Lock()
	data, ok := m.data[playerID]
	m.mutex.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPlayerDataNotFound, playerID)
	}

	return decodePlayerAwards(data)
}

func (m *Memory) Save(ctx context.Context, playerID string, awards []domain.PlayerAward) error {
	data, err := encodePlayerAwards(awards)
	if err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.data[playerID] = data
	return nil
}
