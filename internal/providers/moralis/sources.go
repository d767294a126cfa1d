package moralis

import (
	"context"

	"solana-scan-bot/internal/domain"
	"solana-scan-bot/internal/providers"
)

var (
	_ providers.Provider = (*MetadataSource)(nil)
	_ providers.Provider = (*MarketPairSource)(nil)
	_ providers.Provider = (*HolderSource)(nil)
)

// MetadataSource supplies identity, FDV and social links.
type MetadataSource struct {
	client *Client
}

// NewMetadataSource creates a MetadataSource.
func NewMetadataSource(c *Client) *MetadataSource {
	return &MetadataSource{client: c}
}

func (s *MetadataSource) Name() string                     { return "moralis.metadata" }
func (s *MetadataSource) Capability() providers.Capability { return providers.CapabilityMetadata }

func (s *MetadataSource) Fetch(ctx context.Context, mint string) (*domain.PartialTokenData, error) {
	m, err := s.client.TokenMetadata(ctx, mint)
	if err != nil {
		return nil, err
	}
	return m.Partial(s.Name())
}

// MarketPairSource supplies price, liquidity and short-window stats of the primary pair.
// The pair lookup and the stats call run sequentially.
type MarketPairSource struct {
	client *Client
}

// NewMarketPairSource creates a MarketPairSource.
func NewMarketPairSource(c *Client) *MarketPairSource {
	return &MarketPairSource{client: c}
}

func (s *MarketPairSource) Name() string                     { return "moralis.pair" }
func (s *MarketPairSource) Capability() providers.Capability { return providers.CapabilityMarketPair }

func (s *MarketPairSource) Fetch(ctx context.Context, mint string) (*domain.PartialTokenData, error) {
	pair, err := s.client.PrimaryPair(ctx, mint)
	if err != nil {
		return nil, err
	}
	stats, err := s.client.PairStats(ctx, pair.PairAddress)
	if err != nil {
		return nil, err
	}
	return stats.Partial(s.Name())
}

// HolderSource supplies the holder count.
type HolderSource struct {
	client *Client
}

// NewHolderSource creates a HolderSource.
func NewHolderSource(c *Client) *HolderSource {
	return &HolderSource{client: c}
}

func (s *HolderSource) Name() string                     { return "moralis.holders" }
func (s *HolderSource) Capability() providers.Capability { return providers.CapabilityHolderStats }

func (s *HolderSource) Fetch(ctx context.Context, mint string) (*domain.PartialTokenData, error) {
	h, err := s.client.TokenHolders(ctx, mint)
	if err != nil {
		return nil, err
	}
	count := h.TotalHolders
	return &domain.PartialTokenData{Source: s.Name(), HolderCount: &count}, nil
}
