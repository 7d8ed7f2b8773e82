package ports

import (
	"time"

	"github.com/Amund211/awardtracker/internal/domain"
)

type iconResponse struct {
	Library string `json:"library"`
	Name    string `json:"name"`
	Color   int    `json:"color"`
}

type awardResponse struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	Icon             iconResponse `json:"icon"`
	RequiredProgress int          `json:"requiredProgress"`
}

type recordResponse struct {
	AwardID    string  `json:"awardId"`
	Progress   int     `json:"progress"`
	Unlocked   bool    `json:"unlocked"`
	UnlockedAt *string `json:"unlockedAt"`
}

func awardToResponse(award domain.AwardDefinition) awardResponse {
	return awardResponse{
		ID:          award.ID,
		Name:        award.Name,
		Description: award.Description,
		Icon: iconResponse{
			Library: award.Icon.Library,
			Name:    award.Icon.Name,
			Color:   award.Icon.Color,
		},
		RequiredProgress: award.RequiredProgress,
	}
}

func recordToResponse(record domain.PlayerAward) recordResponse {
	var unlockedAt *string
	if record.UnlockedAt != nil {
		formatted := record.UnlockedAt.UTC().Format(time.RFC3339Nano)
		unlockedAt = &formatted
	}

	return recordResponse{
		AwardID:    record.AwardID,
		Progress:   record.Progress,
		Unlocked:   record.Unlocked,
		UnlockedAt: unlockedAt,
	}
}
