package domain

import (
	"time"
)

// PlayerAward is a player's progress toward a single award
type PlayerAward struct {
	AwardID  string
	Progress int
	Unlocked bool

	// Nil when locked. Files written by the game server may hold unlocked records without a date.
	UnlockedAt *time.Time
}

func (a *PlayerAward) MarkUnlocked(at time.Time) {
	a.Unlocked = true
	a.UnlockedAt = &at
}

func (a *PlayerAward) MarkLocked() {
	a.Unlocked = false
	a.UnlockedAt = nil
}

// Copy returns a deep copy, so callers can't mutate the stored unlock time
func (a PlayerAward) Copy() PlayerAward {
	if a.UnlockedAt != nil {
		unlockedAt := *a.UnlockedAt
		a.UnlockedAt = &unlockedAt
	}
	return a
}
