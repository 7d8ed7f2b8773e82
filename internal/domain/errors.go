package domain

import "errors"

var (
	ErrDuplicateAward       = errors.New("award id already in use")
	ErrAwardNotFound        = errors.New("award not found")
	ErrPlayerNotLoaded      = errors.New("player not loaded")
	ErrRecordNotFound       = errors.New("player has no record for award")
	ErrPlayerDataNotFound   = errors.New("no stored data for player")
	ErrStoredDataUnreadable = errors.New("stored player data could not be loaded")
	ErrInvalidPlayerID      = errors.New("invalid player id")
	ErrInvalidAwardID       = errors.New("invalid award id")
)
