package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Amund211/awardtracker/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// NewUnlockLogger logs every unlock
func NewUnlockLogger(logger *slog.Logger) UnlockHandler {
	return func(ctx context.Context, event domain.AwardUnlocked) {
		logger.InfoContext(
			ctx,
			"Player unlocked award",
			slog.String("playerId", event.PlayerID),
			slog.String("awardId", event.AwardID),
			slog.String("awardName", event.AwardName),
			slog.Time("unlockedAt", event.UnlockedAt),
		)
	}
}

// NewUnlockMetricsRecorder counts unlocks per award
func NewUnlockMetricsRecorder() (UnlockHandler, error) {
	meter := otel.Meter("awardtracker/events")

	unlockCount, err := meter.Int64Counter(
		"events/unlock_count",
		metric.WithDescription("Total number of awards unlocked"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create unlock count metric: %w", err)
	}

	unlockDelay, err := meter.Float64Histogram(
		"events/unlock_publish_delay_seconds",
		metric.WithDescription("Time from unlock until the unlock was published"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create unlock delay metric: %w", err)
	}

	return func(ctx context.Context, event domain.AwardUnlocked) {
		attributesOption := metric.WithAttributes(attribute.String("award_id", event.AwardID))
		unlockCount.Add(ctx, 1, attributesOption)
		unlockDelay.Record(ctx, time.Since(event.UnlockedAt).Seconds(), attributesOption)
	}, nil
}
