package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"solana-scan-bot/internal/bot"
	"solana-scan-bot/internal/observability"
	"solana-scan-bot/internal/providers"
	"solana-scan-bot/internal/scanner"
)

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <address|$SYMBOL>",
		Short: "Aggregate and render one token without recording a scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			id, ok := bot.ExtractIdentifier(args[0])
			if !ok {
				return fmt.Errorf("no token address or $SYMBOL in %q", args[0])
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, _ = observability.WithRequestID(ctx)

			// One-off scans stay out of the provider metrics.
			svc := scanner.New(scanner.Options{Aggregator: buildAggregator(cfg, providers.WithoutMetrics())})
			msg, err := svc.Preview(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, msg.Content)
			fmt.Fprintln(out)
			fmt.Fprintln(out, msg.Embed.Title)
			fmt.Fprintln(out, msg.Embed.Description)
			return nil
		},
	}
}
