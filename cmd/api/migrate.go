package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/queuedesk/queuedesk-api/internal/persistence"
)

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all up migrations",
		RunE: func(*cobra.Command, []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			if cfg.Postgres.UsesMemoryStore() {
				return errors.New("POSTGRES_DSN is required to run migrations")
			}
			return persistence.RunMigrations(cfg.Postgres.DSN, logger)
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(*cobra.Command, []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			if cfg.Postgres.UsesMemoryStore() {
				return errors.New("POSTGRES_DSN is required to run migrations")
			}
			return persistence.RollbackMigrations(cfg.Postgres.DSN, steps, logger)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(down)

	return migrateCmd
}
