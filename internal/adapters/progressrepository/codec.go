package progressrepository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Amund211/awardtracker/internal/domain"
)

var ErrMalformedData = errors.New("malformed player data")

// Property names match the save files written by earlier versions of the game server
type storedPlayerAward struct {
	ID         string     `json:"ID"`
	Progress   int        `json:"Progress"`
	Unlocked   bool       `json:"Unlocked"`
	UnlockDate *time.Time `json:"UnlockDate"`
}

func encodePlayerAwards(awards []domain.PlayerAward) ([]byte, error) {
	stored := make([]storedPlayerAward, 0, len(awards))
	for _, award := range awards {
		var unlockDate *time.Time
		if award.Unlocked && award.UnlockedAt != nil {
			date := *award.UnlockedAt
			unlockDate = &date
		}
		stored = append(stored, storedPlayerAward{
			ID:         award.AwardID,
			Progress:   award.Progress,
			Unlocked:   award.Unlocked,
			UnlockDate: unlockDate,
		})
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal player awards: %w", err)
	}
	return data, nil
}

func decodePlayerAwards(data []byte) ([]domain.PlayerAward, error) {
	var stored []storedPlayerAward
	err := json.Unmarshal(data, &stored)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedData, err)
	}

	awards := make([]domain.PlayerAward, 0, len(stored))
	seen := make(map[string]bool, len(stored))
	for i, s := range stored {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: record %d has no award id", ErrMalformedData, i)
		}
		// Lookups always found the first record, so later duplicates were never visible
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true

		award := domain.PlayerAward{
			AwardID:  s.ID,
			Progress: s.Progress,
		}
		if s.Unlocked {
			award.Unlocked = true
			if s.UnlockDate != nil {
				award.MarkUnlocked(*s.UnlockDate)
			}
		}

		awards = append(awards, award)
	}

	return awards, nil
}
