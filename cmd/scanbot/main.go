// Package main is the scanbot CLI: it runs the Discord bot, applies the
// ledger schema and performs one-off scans for operators.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"solana-scan-bot/internal/config"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "scanbot: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "scanbot",
		Short:         "Solana token scanner bot for Discord",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "Path of the YAML configuration file")

	root.AddCommand(runCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(scanCmd())
	return root
}

// loadConfig reads the --config flag and applies the configured log level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	zerolog.SetGlobalLevel(level)
	return cfg, nil
}
