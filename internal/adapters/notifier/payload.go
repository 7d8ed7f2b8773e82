package notifier

import "github.com/Amund211/awardtracker/internal/domain"

// Field names are what the client's award popup script reads
type awardPayload struct {
	Name             string `json:"Name"`
	Description      string `json:"Description"`
	TXDLib           string `json:"TXDLib"`
	TXDName          string `json:"TXDName"`
	TXDColor         int    `json:"TXDColor"`
	RequiredProgress int    `json:"RequiredProgress"`
}

type clientEvent struct {
	Player  string       `json:"player"`
	Event   string       `json:"event"`
	Payload awardPayload `json:"payload"`
}

func newClientEvent(event string, playerID string, award domain.AwardDefinition) clientEvent {
	return clientEvent{
		Player: playerID,
		Event:  event,
		Payload: awardPayload{
			Name:             award.Name,
			Description:      award.Description,
			TXDLib:           award.Icon.Library,
			TXDName:          award.Icon.Name,
			TXDColor:         award.Icon.Color,
			RequiredProgress: award.RequiredProgress,
		},
	}
}
