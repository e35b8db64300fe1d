package main

import (
	"fmt"

	"github.com/fintrack/fintrack-backend/internal/database"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(migrateStepCmd("up", "Apply all pending migrations", (*database.MigrationRunner).Up))
	cmd.AddCommand(migrateStepCmd("down", "Roll back every migration", (*database.MigrationRunner).Down))
	cmd.AddCommand(migrateVersionCmd())

	return cmd
}

func openRunner(cmd *cobra.Command) (*database.MigrationRunner, func(), error) {
	url, err := databaseURL()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(url)
	if err != nil {
		return nil, nil, err
	}

	runner := database.NewMigrationRunner(db)
	if err := runner.WaitForDatabase(cmd.Context()); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return runner, func() { _ = db.Close() }, nil
}

func migrateStepCmd(use, short string, step func(*database.MigrationRunner) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, closeDB, err := openRunner(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := step(runner); err != nil {
				return fmt.Errorf("migrate %s: %w", use, err)
			}
			return nil
		},
	}
}

func migrateVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, closeDB, err := openRunner(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			version, dirty, err := runner.Version()
			if err != nil {
				return fmt.Errorf("read schema version: %w", err)
			}
			log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Schema version")
			return nil
		},
	}
}
