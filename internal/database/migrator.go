package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/deppfellow/monitoria-backend/internal/config"
	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrations embed.FS

// schemaVersionTable tracks the applied migration version.
const schemaVersionTable = "schema_version"

// LatestVersion asks MigrateTo for the newest embedded migration.
const LatestVersion int32 = -1

// Migrate applies every pending embedded migration.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	return MigrateTo(ctx, logger, cfg, LatestVersion)
}

// MigrateTo moves the schema up or down to target. LatestVersion means the
// newest embedded migration; 0 rolls everything back.
func MigrateTo(ctx context.Context, logger *zerolog.Logger, cfg *config.Config, target int32) error {
	conn, err := pgx.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting for migrations: %w", err)
	}
	defer conn.Close(ctx)

	m, err := newMigrator(ctx, conn)
	if err != nil {
		return err
	}

	latest := int32(len(m.Migrations))
	if target == LatestVersion {
		target = latest
	}
	if target < 0 || target > latest {
		return fmt.Errorf("migration version %d out of range [0, %d]", target, latest)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if from == target {
		logger.Info().Int32("version", from).Msg("database schema up to date")
		return nil
	}

	m.OnStart = func(sequence int32, name, direction, _ string) {
		logger.Info().
			Int32("sequence", sequence).
			Str("name", name).
			Str("direction", direction).
			Msg("running migration")
	}

	if err := m.MigrateTo(ctx, target); err != nil {
		return fmt.Errorf("migrating from %d to %d: %w", from, target, err)
	}

	logger.Info().Int32("from", from).Int32("to", target).Msg("migrated database schema")
	return nil
}

func newMigrator(ctx context.Context, conn *pgx.Conn) (*tern.Migrator, error) {
	m, err := tern.NewMigrator(ctx, conn, schemaVersionTable)
	if err != nil {
		return nil, fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return nil, fmt.Errorf("loading database migrations: %w", err)
	}
	return m, nil
}
