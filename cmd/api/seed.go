package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/queuedesk/queuedesk-api/internal/seed"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create demo accounts and tickets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			if cfg.Postgres.UsesMemoryStore() {
				return errors.New("POSTGRES_DSN is required to seed; the in-memory store does not outlive the process")
			}

			st, err := buildStack(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			result, err := seed.New(cfg.Seed, st.auth, st.ticket, st.users, logger).Run(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("demo accounts ready",
				zap.String("admin", result.Admin.Email),
				zap.String("user", result.User.Email),
				zap.Int("tickets", len(result.Tickets)))
			fmt.Fprintf(cmd.OutOrStdout(), "Admin: %s / %s\nUser:  %s / %s\n",
				cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, cfg.Seed.UserEmail, cfg.Seed.UserPassword)
			return nil
		},
	}
}
