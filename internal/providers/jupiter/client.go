// Package jupiter is a client for the Jupiter token search API.
//
// Jupiter is an auxiliary source: developer address, launchpad and first
// pool creation time, plus fallback market fields. It also resolves
// $SYMBOL identifiers to mints.
package jupiter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"solana-scan-bot/internal/domain"
	"solana-scan-bot/internal/providers"
)

const (
	// DefaultBaseURL is the Jupiter tokens v2 API.
	DefaultBaseURL = "https://lite-api.jup.ag/tokens/v2"
	// SourceName identifies Jupiter in provider errors.
	SourceName = "Jupiter Api"
)

var (
	_ providers.Provider       = (*AuxSource)(nil)
	_ providers.SymbolResolver = (*Client)(nil)
)

// Client calls the Jupiter token API.
type Client struct {
	http *providers.JSONClient
}

// NewClient creates a Jupiter client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts ...providers.ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base := []providers.ClientOption{providers.WithErrorParser(parseError)}
	return &Client{
		http: providers.NewJSONClient(SourceName, baseURL, append(base, opts...)...),
	}
}

func parseError(body []byte) string {
	var env ErrorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Error
}

func notFound() error {
	return providers.NewError(SourceName, http.StatusNotFound, "Token not found")
}

// Search runs a token search. An empty result set is a NotFound error.
func (c *Client) Search(ctx context.Context, query string) ([]TokenInfo, error) {
	var tokens []TokenInfo
	if err := c.http.Get(ctx, "search", "/search", url.Values{"query": {query}}, &tokens); err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, notFound()
	}
	return tokens, nil
}

// Token returns the search entry for mint.
func (c *Client) Token(ctx context.Context, mint string) (*TokenInfo, error) {
	tokens, err := c.Search(ctx, mint)
	if err != nil {
		return nil, err
	}
	for i := range tokens {
		if tokens[i].ID == mint {
			if err := tokens[i].Validate(); err != nil {
				return nil, err
			}
			return &tokens[i], nil
		}
	}
	return nil, notFound()
}

// ResolveSymbol returns the mint of the first search result whose symbol
// matches case-insensitively. The leading $ is optional.
func (c *Client) ResolveSymbol(ctx context.Context, symbol string) (string, error) {
	symbol = strings.TrimPrefix(symbol, "$")
	tokens, err := c.Search(ctx, symbol)
	if err != nil {
		return "", err
	}
	for _, t := range tokens {
		if strings.EqualFold(t.Symbol, symbol) {
			if err := t.Validate(); err != nil {
				return "", err
			}
			return t.ID, nil
		}
	}
	return "", notFound()
}

// AuxSource adapts Client to the provider contract.
type AuxSource struct {
	client *Client
}

// NewAuxSource creates an AuxSource.
func NewAuxSource(c *Client) *AuxSource {
	return &AuxSource{client: c}
}

func (s *AuxSource) Name() string                     { return "jupiter.search" }
func (s *AuxSource) Capability() providers.Capability { return providers.CapabilityAuxMetadata }

func (s *AuxSource) Fetch(ctx context.Context, mint string) (*domain.PartialTokenData, error) {
	t, err := s.client.Token(ctx, mint)
	if err != nil {
		return nil, err
	}
	return t.Partial(s.Name()), nil
}
