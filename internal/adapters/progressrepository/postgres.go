package progressrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Amund211/awardtracker/internal/domain"
	"github.com/Amund211/awardtracker/internal/reporting"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Postgres stores each player's awards as a single jsonb document
type Postgres struct {
	db      *sqlx.DB
	schema  string
	tracer  trace.Tracer
	nowFunc func() time.Time
}

func NewPostgres(db *sqlx.DB, schema string, nowFunc func() time.Time) *Postgres {
	tracer := otel.Tracer("awardtracker/progressrepository/postgres")
	return &Postgres{
		db:      db,
		schema:  schema,
		tracer:  tracer,
		nowFunc: nowFunc,
	}
}

func (p *Postgres) Load(ctx context.Context, playerID string) ([]domain.PlayerAward, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.Load", trace.WithAttributes(attribute.String("player_id", playerID)))
	defer span.End()

	var records []byte
	err := p.db.QueryRowxContext(
		ctx,
		fmt.Sprintf(
			"SELECT records FROM %s.player_awards WHERE player_id = $1",
			pq.QuoteIdentifier(p.schema),
		),
		playerID,
	).Scan(&records)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrPlayerDataNotFound, playerID)
	} else if err != nil {
		err := fmt.Errorf("failed to query player awards: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": playerID,
		})
		return nil, err
	}

	awards, err := decodePlayerAwards(records)
	if err != nil {
		err := fmt.Errorf("failed to parse player awards: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": playerID,
			"data":     fmt.Sprintf("%.500s", records),
		})
		return nil, err
	}

	return awards, nil
}

func (p *Postgres) Save(ctx context.Context, playerID string, awards []domain.PlayerAward) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.Save", trace.WithAttributes(
		attribute.String("player_id", playerID),
		attribute.Int("record_count", len(awards)),
	))
	defer span.End()

	if playerID == "" {
		err := fmt.Errorf("%w: player id is empty", domain.ErrInvalidPlayerID)
		reporting.Report(ctx, err)
		return err
	}

	records, err := encodePlayerAwards(awards)
	if err != nil {
		reporting.Report(ctx, err, map[string]string{
			"playerID": playerID,
		})
		return err
	}

	_, err = p.db.ExecContext(
		ctx,
		fmt.Sprintf(`INSERT INTO %s.player_awards
		(player_id, records, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id)
		DO UPDATE SET
			records = EXCLUDED.records,
			updated_at = EXCLUDED.updated_at`,
			pq.QuoteIdentifier(p.schema)),
		playerID,
		records,
		p.nowFunc(),
	)
	if err != nil {
		err := fmt.Errorf("failed to store player awards: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": playerID,
		})
		return err
	}

	return nil
}
