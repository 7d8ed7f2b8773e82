package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrator brings the player_awards table of a schema up to date
type Migrator struct {
	db *sqlx.DB

	logger *slog.Logger
}

func NewDatabaseMigrator(db *sqlx.DB, logger *slog.Logger) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger,
	}
}

// Migrate creates the schema if needed and applies every pending migration.
// Returns the schema version after migrating.
func (m *Migrator) Migrate(ctx context.Context, schemaName string) (uint, error) {
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrate: failed to connect to db: %w", err)
	}
	defer conn.Close()

	instance, err := newMigrateInstance(ctx, conn, schemaName)
	if err != nil {
		return 0, err
	}
	defer instance.Close()

	logger := m.logger.With(slog.String("schema", schemaName))

	err = instance.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.InfoContext(ctx, "Schema already up to date")
	case err != nil:
		return 0, fmt.Errorf("migrate: failed to migrate: %w", err)
	}

	version, dirty, err := instance.Version()
	if err != nil {
		return 0, fmt.Errorf("migrate: failed to read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("migrate: schema %s is dirty at version %d", schemaName, version)
	}

	logger.InfoContext(ctx, "Migrated schema", slog.Uint64("version", uint64(version)))
	return version, nil
}

// newMigrateInstance runs migrations on conn with the search path set to the schema
func newMigrateInstance(ctx context.Context, conn *sql.Conn, schemaName string) (*migrate.Migrate, error) {
	quotedSchema := pq.QuoteIdentifier(schemaName)

	_, err := conn.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", quotedSchema))
	if err != nil {
		return nil, fmt.Errorf("migrate: failed to create schema: %w", err)
	}

	_, err = conn.ExecContext(ctx, fmt.Sprintf("SET search_path TO %s", quotedSchema))
	if err != nil {
		return nil, fmt.Errorf("migrate: failed to set search path: %w", err)
	}

	source, err := iofs.New(embeddedMigrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migrate: failed to read embedded migrations: %w", err)
	}

	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{
		DatabaseName: DB_NAME,
		SchemaName:   schemaName,
	})
	if err != nil {
		source.Close()
		return nil, fmt.Errorf("migrate: failed to create postgres driver: %w", err)
	}

	instance, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		source.Close()
		return nil, fmt.Errorf("migrate: failed to create migration instance: %w", err)
	}

	return instance, nil
}
