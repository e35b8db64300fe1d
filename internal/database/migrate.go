package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	maxRetries    = 30
	retryInterval = 2 * time.Second
)

// MigrationRunner applies the embedded schema migrations
type MigrationRunner struct {
	db *sql.DB
}

// NewMigrationRunner creates a new migration runner on an open database
func NewMigrationRunner(db *sql.DB) *MigrationRunner {
	return &MigrationRunner{db: db}
}

// Open opens a database/sql handle on the pgx driver for migrations. It is a
// separate connection from the application pool.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open migration database: %w", err)
	}
	return db, nil
}

// WaitForDatabase pings until the database answers or the retries run out
func (mr *MigrationRunner) WaitForDatabase(ctx context.Context) error {
	log.Info().Msg("Waiting for database to be ready")

	for i := 0; i < maxRetries; i++ {
		err := mr.db.PingContext(ctx)
		if err == nil {
			log.Info().Msg("Database is ready")
			return nil
		}

		log.Warn().Err(err).Int("attempt", i+1).Int("max_attempts", maxRetries).Msg("Database not ready")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}

	return fmt.Errorf("database not ready after %d attempts", maxRetries)
}

// Up applies every pending migration
func (mr *MigrationRunner) Up() error {
	m, err := mr.migrator()
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("get migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d", version)
	}

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Uint("version", version).Msg("No new migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	newVersion, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("get new migration version: %w", err)
	}
	log.Info().Uint("version", newVersion).Msg("Applied migrations")
	return nil
}

// Down rolls back the most recent migration
func (mr *MigrationRunner) Down() error {
	m, err := mr.migrator()
	if err != nil {
		return err
	}
	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("roll back migration: %w", err)
	}
	return nil
}

// Version returns the applied schema version. A database with no
// migrations applied reports version 0.
func (mr *MigrationRunner) Version() (uint, bool, error) {
	m, err := mr.migrator()
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (mr *MigrationRunner) migrator() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("create iofs source: %w", err)
	}

	driver, err := pgxmigrate.WithInstance(mr.db, &pgxmigrate.Config{})
	if err != nil {
		return nil, fmt.Errorf("create pgx driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}
