package notifier

import (
	"context"
	"log/slog"

	"github.com/Amund211/awardtracker/internal/constants"
	"github.com/Amund211/awardtracker/internal/domain"
)

// Log only logs unlock notifications. Used when no host runtime endpoint is configured.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) NotifyUnlock(ctx context.Context, playerID string, award domain.AwardDefinition) error {
	event := newClientEvent(constants.UNLOCK_CLIENT_EVENT, playerID, award)
	l.logger.InfoContext(
		ctx,
		"Client notification",
		slog.String("playerId", event.Player),
		slog.String("event", event.Event),
		slog.Any("payload", event.Payload),
	)
	return nil
}
