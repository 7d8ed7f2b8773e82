package domaintest

import (
	"time"

	"github.com/Amund211/awardtracker/internal/domain"
)

type awardBuilder struct {
	award domain.AwardDefinition
}

func (ab *awardBuilder) WithName(name string) *awardBuilder {
	ab.award.Name = name
	return ab
}

func (ab *awardBuilder) WithDescription(description string) *awardBuilder {
	ab.award.Description = description
	return ab
}

func (ab *awardBuilder) WithIcon(library, name string, color int) *awardBuilder {
	ab.award.Icon = domain.Icon{Library: library, Name: name, Color: color}
	return ab
}

func (ab *awardBuilder) WithRequiredProgress(requiredProgress int) *awardBuilder {
	ab.award.RequiredProgress = requiredProgress
	return ab
}

func (ab *awardBuilder) Build() domain.AwardDefinition {
	return ab.award
}

func NewAwardBuilder(id string) *awardBuilder {
	return &awardBuilder{
		award: domain.AwardDefinition{
			ID:               id,
			Name:             "Award " + id,
			Description:      "Description of " + id,
			Icon:             domain.Icon{Library: "mpawards", Name: id, Color: domain.MinIconColor},
			RequiredProgress: 1,
		},
	}
}

func LockedRecord(awardID string, progress int) domain.PlayerAward {
	return domain.PlayerAward{
		AwardID:  awardID,
		Progress: progress,
	}
}

func UnlockedRecord(awardID string, progress int, unlockedAt time.Time) domain.PlayerAward {
	return domain.PlayerAward{
		AwardID:    awardID,
		Progress:   progress,
		Unlocked:   true,
		UnlockedAt: &unlockedAt,
	}
}
