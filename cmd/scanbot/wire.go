package main

import (
	"solana-scan-bot/internal/aggregator"
	"solana-scan-bot/internal/config"
	"solana-scan-bot/internal/providers"
	"solana-scan-bot/internal/providers/jupiter"
	"solana-scan-bot/internal/providers/moralis"
)

// buildAggregator wires the provider set. Without a Moralis key the bot
// runs on Jupiter alone as its single mandatory provider. extra applies to
// every provider client.
func buildAggregator(cfg *config.Config, extra ...providers.ClientOption) *aggregator.Aggregator {
	opts := append([]providers.ClientOption{providers.WithTimeout(cfg.HTTP.Timeout)}, extra...)
	jup := jupiter.NewClient(cfg.Jupiter.BaseURL, opts...)

	if cfg.Moralis.APIKey == "" {
		return aggregator.New(jup, aggregator.Source{Provider: jupiter.NewAuxSource(jup), Role: aggregator.Mandatory})
	}

	mor := moralis.NewClient(moralis.Config{
		APIKey:             cfg.Moralis.APIKey,
		BaseURL:            cfg.Moralis.BaseURL,
		MaxPairs:           cfg.Moralis.MaxPairs,
		PreferredExchanges: cfg.Moralis.PreferredExchanges,
	}, opts...)

	return aggregator.New(jup,
		aggregator.Source{Provider: moralis.NewMetadataSource(mor), Role: aggregator.Mandatory},
		aggregator.Source{Provider: moralis.NewMarketPairSource(mor), Role: aggregator.Mandatory},
		aggregator.Source{Provider: moralis.NewHolderSource(mor), Role: aggregator.Mandatory},
		aggregator.Source{Provider: jupiter.NewAuxSource(jup), Role: aggregator.Optional},
	)
}
