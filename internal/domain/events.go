package domain

import "time"

// AwardUnlocked is published in-process every time a player unlocks an award
type AwardUnlocked struct {
	PlayerID   string
	AwardID    string
	AwardName  string
	UnlockedAt time.Time
}
