package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"solana-scan-bot/internal/storage/migrations"
	"solana-scan-bot/internal/storage/postgres"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the scan ledger schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Require("postgres.dsn"); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := migrations.RunPostgresMigrations(ctx, pool.Pool); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			version, err := migrations.PostgresVersion(ctx, pool.Pool)
			if err != nil {
				return err
			}
			log.Info().Int64("version", version).Msg("schema up to date")
			return nil
		},
	}
}
