// Package providers defines the contract shared by the market-data clients
// and the error taxonomy their failures are translated into.
package providers

import (
	"context"

	"solana-scan-bot/internal/domain"
)

// Capability names the part of a TokenView a provider contributes.
type Capability string

const (
	CapabilityMetadata    Capability = "metadata"
	CapabilityMarketPair  Capability = "market_pair"
	CapabilityHolderStats Capability = "holder_stats"
	CapabilityAuxMetadata Capability = "aux_metadata"
)

// Provider fetches one partial view of a token.
type Provider interface {
	// Name identifies the provider in logs and metrics.
	Name() string
	Capability() Capability
	Fetch(ctx context.Context, mint string) (*domain.PartialTokenData, error)
}

// SymbolResolver resolves a $SYMBOL identifier to a mint address.
type SymbolResolver interface {
	ResolveSymbol(ctx context.Context, symbol string) (string, error)
}
