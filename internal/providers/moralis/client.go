// Package moralis is a client for the Moralis Solana gateway.
//
// It supplies the mandatory parts of a token view: metadata, the primary
// trading pair with its stats, and the holder count.
package moralis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"solana-scan-bot/internal/providers"
)

const (
	// DefaultBaseURL is the Moralis Solana gateway.
	DefaultBaseURL = "https://solana-gateway.moralis.io"
	// SourceName identifies Moralis in provider errors.
	SourceName = "Moralis Api"
)

// Config configures the Moralis client.
type Config struct {
	APIKey             string
	BaseURL            string
	MaxPairs           int
	PreferredExchanges []string
}

// Client calls the Moralis REST API.
type Client struct {
	http      *providers.JSONClient
	maxPairs  int
	preferred []string
}

// NewClient creates a Moralis client. Zero config values fall back to defaults.
func NewClient(cfg Config, opts ...providers.ClientOption) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxPairs <= 0 {
		cfg.MaxPairs = DefaultMaxPairs
	}
	if cfg.PreferredExchanges == nil {
		cfg.PreferredExchanges = DefaultPreferredExchanges
	}

	base := []providers.ClientOption{
		providers.WithHeader("X-API-KEY", cfg.APIKey),
		providers.WithErrorParser(parseError),
	}
	return &Client{
		http:      providers.NewJSONClient(SourceName, cfg.BaseURL, append(base, opts...)...),
		maxPairs:  cfg.MaxPairs,
		preferred: cfg.PreferredExchanges,
	}
}

func parseError(body []byte) string {
	var env ErrorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Message
}

// TokenMetadata fetches and validates token metadata.
func (c *Client) TokenMetadata(ctx context.Context, mint string) (*TokenMetadata, error) {
	var m TokenMetadata
	path := fmt.Sprintf("/token/mainnet/%s/metadata", url.PathEscape(mint))
	if err := c.http.Get(ctx, "metadata", path, nil, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// TokenPairs fetches all trading pairs of a token.
func (c *Client) TokenPairs(ctx context.Context, mint string) ([]TokenPair, error) {
	var tp TokenPairs
	path := fmt.Sprintf("/token/mainnet/%s/pairs", url.PathEscape(mint))
	if err := c.http.Get(ctx, "pairs", path, nil, &tp); err != nil {
		return nil, err
	}
	return tp.Pairs, nil
}

// PrimaryPair resolves the token's pairs and selects the primary one.
func (c *Client) PrimaryPair(ctx context.Context, mint string) (*TokenPair, error) {
	pairs, err := c.TokenPairs(ctx, mint)
	if err != nil {
		return nil, err
	}
	pair, ok := SelectPrimaryPair(pairs, c.preferred, c.maxPairs)
	if !ok {
		return nil, &providers.ActivePairNotFoundError{Token: mint}
	}
	if err := pair.Validate(); err != nil {
		return nil, err
	}
	return &pair, nil
}

// PairStats fetches and validates stats for one pair.
func (c *Client) PairStats(ctx context.Context, pairAddress string) (*TokenPairStats, error) {
	var s TokenPairStats
	path := fmt.Sprintf("/token/mainnet/pairs/%s/stats", url.PathEscape(pairAddress))
	if err := c.http.Get(ctx, "pair_stats", path, nil, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// TokenHolders fetches holder statistics.
func (c *Client) TokenHolders(ctx context.Context, mint string) (*TokenHolderStats, error) {
	var h TokenHolderStats
	path := fmt.Sprintf("/token/mainnet/holders/%s", url.PathEscape(mint))
	if err := c.http.Get(ctx, "holders", path, nil, &h); err != nil {
		return nil, err
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return &h, nil
}
