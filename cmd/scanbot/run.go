package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"solana-scan-bot/internal/bot"
	"solana-scan-bot/internal/cache"
	"solana-scan-bot/internal/discord"
	"solana-scan-bot/internal/ledger"
	"solana-scan-bot/internal/observability"
	"solana-scan-bot/internal/presenter"
	"solana-scan-bot/internal/scanner"
	"solana-scan-bot/internal/storage/migrations"
	"solana-scan-bot/internal/storage/postgres"
)

const shutdownTimeout = 30 * time.Second

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and answer token scans",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			done := make(chan struct{})
			defer close(done)

			// Handle shutdown signals
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				select {
				case sig := <-sigCh:
					log.Info().Str("signal", sig.String()).Msg("initiating graceful shutdown")
					cancel()
				case <-done:
					return
				}

				// Wait for second signal for immediate shutdown
				select {
				case sig := <-sigCh:
					log.Warn().Str("signal", sig.String()).Msg("forcing immediate shutdown")
					os.Exit(1)
				case <-time.After(shutdownTimeout):
					log.Error().Msg("graceful shutdown timed out, forcing exit")
					os.Exit(1)
				case <-done:
				}
			}()

			pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := migrations.RunPostgresMigrations(ctx, pool.Pool); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			store := postgres.NewScanStore(pool)

			dcCfg := discord.DefaultConfig()
			dcCfg.Timeout = cfg.HTTP.Timeout
			dc, err := discord.New(cfg.Discord.Token, &dcCfg)
			if err != nil {
				return err
			}
			me, err := dc.CurrentUser(ctx)
			if err != nil {
				return err
			}
			log.Info().Str("user", me.Username).Str("id", me.ID).Msg("authenticated")

			var names presenter.NameResolver = dc
			if cfg.Redis.Addr != "" {
				rdb, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
				if err != nil {
					return err
				}
				defer rdb.Close()
				names = cache.NewNameCache(rdb, dc, cfg.Redis.NameTTL)
			}

			svc := scanner.New(scanner.Options{
				Aggregator: buildAggregator(cfg),
				Ledger:     ledger.New(store),
				Presenter:  presenter.New(names),
			})

			ops := observability.NewServer(cfg.Ops.Addr, store)
			go func() {
				if err := ops.ListenAndServe(); err != nil {
					log.Error().Err(err).Msg("ops server failed")
				}
			}()

			gwErr := make(chan error, 1)
			go func() {
				err := dc.Run(ctx)
				// A rejected session cannot recover; stop handling.
				cancel()
				gwErr <- err
			}()

			handler := bot.NewHandler(me.ID, svc, dc)
			handler.Run(ctx, dc.Messages())

			dc.Close()
			runErr := <-gwErr
			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				log.Error().Err(runErr).Msg("gateway stopped")
			} else {
				runErr = nil
			}

			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			if err := ops.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("ops server shutdown")
			}

			log.Info().Msg("shutdown complete")
			return runErr
		},
	}
}
