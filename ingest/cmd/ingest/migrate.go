package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrateDown(a.cfg.Migrations.Path, a.cfg.Database.ConnString(), steps)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back (0 = all)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := migrateUp(a.cfg.Migrations.Path, a.cfg.Database.ConnString()); err != nil {
					return err
				}
				slog.Info("Database migrations completed")
				return nil
			},
		},
		down,
	)
	return cmd
}

func newMigrator(path, connString string) (*migrate.Migrate, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve migrations path: %w", err)
	}
	m, err := migrate.New("file://"+filepath.ToSlash(abs), connString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize migrations: %w", err)
	}
	return m, nil
}

func migrateUp(path, connString string) error {
	m, err := newMigrator(path, connString)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func migrateDown(path, connString string, steps int) error {
	m, err := newMigrator(path, connString)
	if err != nil {
		return err
	}
	defer m.Close()

	if steps <= 0 {
		err = m.Down()
	} else {
		err = m.Steps(-steps)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}
	slog.Info("Database migrations rolled back", slog.Int("steps", steps))
	return nil
}
