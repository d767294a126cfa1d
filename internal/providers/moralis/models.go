package moralis

import (
	"solana-scan-bot/internal/domain"
	"solana-scan-bot/internal/validation"
)

// TokenMetadata is the /token/mainnet/{mint}/metadata payload.
type TokenMetadata struct {
	Mint              string `json:"mint"`
	Name              string `json:"name"`
	Symbol            string `json:"symbol"`
	Logo              string `json:"logo"`
	FullyDilutedValue string `json:"fullyDilutedValue"`
	Links             Links  `json:"links"`
}

// Links are the socials attached to token metadata. Any may be missing.
type Links struct {
	Discord  string `json:"discord"`
	Telegram string `json:"telegram"`
	Reddit   string `json:"reddit"`
	Twitter  string `json:"twitter"`
	Website  string `json:"website"`
}

// Validate rejects malformed metadata.
func (m *TokenMetadata) Validate() error {
	if err := validation.Address("mint", m.Mint); err != nil {
		return err
	}
	if err := validation.NonEmpty("name", m.Name); err != nil {
		return err
	}
	if err := validation.NonEmpty("symbol", m.Symbol); err != nil {
		return err
	}
	if err := validation.OptionalURL("logo", m.Logo); err != nil {
		return err
	}
	if _, err := validation.Decimal("fullyDilutedValue", m.FullyDilutedValue); err != nil {
		return err
	}
	return m.Links.Validate()
}

// Validate checks every present link is a well-formed URL.
func (l Links) Validate() error {
	for _, f := range []struct{ field, value string }{
		{"links.discord", l.Discord},
		{"links.telegram", l.Telegram},
		{"links.reddit", l.Reddit},
		{"links.twitter", l.Twitter},
		{"links.website", l.Website},
	} {
		if err := validation.OptionalURL(f.field, f.value); err != nil {
			return err
		}
	}
	return nil
}

// Partial converts validated metadata into its slice of the token view.
func (m *TokenMetadata) Partial(source string) (*domain.PartialTokenData, error) {
	fdv, err := validation.Decimal("fullyDilutedValue", m.FullyDilutedValue)
	if err != nil {
		return nil, err
	}
	p := &domain.PartialTokenData{
		Source:            source,
		Mint:              ptr(m.Mint),
		Name:              ptr(m.Name),
		Symbol:            ptr(m.Symbol),
		FullyDilutedValue: &fdv,
		Links: domain.Links{
			Twitter:  m.Links.Twitter,
			Telegram: m.Links.Telegram,
			Discord:  m.Links.Discord,
			Reddit:   m.Links.Reddit,
			Website:  m.Links.Website,
		},
	}
	if m.Logo != "" {
		p.Logo = ptr(m.Logo)
	}
	return p, nil
}

// TokenPairs is the /token/mainnet/{mint}/pairs payload.
type TokenPairs struct {
	Pairs []TokenPair `json:"pairs"`
}

// TokenPair is one trading venue of a token.
type TokenPair struct {
	ExchangeName    string `json:"exchangeName"`
	ExchangeAddress string `json:"exchangeAddress"`
	PairAddress     string `json:"pairAddress"`
	InactivePair    bool   `json:"inactivePair"`
}

// Validate rejects a malformed pair.
func (p *TokenPair) Validate() error {
	if err := validation.NonEmpty("exchangeName", p.ExchangeName); err != nil {
		return err
	}
	if err := validation.Address("exchangeAddress", p.ExchangeAddress); err != nil {
		return err
	}
	return validation.Address("pairAddress", p.PairAddress)
}

// Windows holds one value per stats window.
type Windows[T int64 | float64] struct {
	Min5 T `json:"5min"`
	H1   T `json:"1h"`
	H4   T `json:"4h"`
	H24  T `json:"24h"`
}

// TokenPairStats is the /token/mainnet/pairs/{pair}/stats payload.
type TokenPairStats struct {
	Exchange           string           `json:"exchange"`
	TotalLiquidityUSD  string           `json:"totalLiquidityUsd"`
	CurrentUSDPrice    string           `json:"currentUsdPrice"`
	PricePercentChange Windows[float64] `json:"pricePercentChange"`
	Buys               Windows[int64]   `json:"buys"`
	Sells              Windows[int64]   `json:"sells"`
	BuyVolume          Windows[float64] `json:"buyVolume"`
	SellVolume         Windows[float64] `json:"sellVolume"`
}

// Validate rejects malformed pair stats. Price changes are signed.
func (s *TokenPairStats) Validate() error {
	if err := validation.NonEmpty("exchange", s.Exchange); err != nil {
		return err
	}
	if _, err := validation.Decimal("totalLiquidityUsd", s.TotalLiquidityUSD); err != nil {
		return err
	}
	if _, err := validation.Decimal("currentUsdPrice", s.CurrentUSDPrice); err != nil {
		return err
	}
	if err := validation.Finite("pricePercentChange.1h", s.PricePercentChange.H1); err != nil {
		return err
	}
	if err := validation.Finite("pricePercentChange.24h", s.PricePercentChange.H24); err != nil {
		return err
	}
	if err := validation.NonNegative("buys.1h", float64(s.Buys.H1)); err != nil {
		return err
	}
	if err := validation.NonNegative("sells.1h", float64(s.Sells.H1)); err != nil {
		return err
	}
	if err := validation.NonNegative("buyVolume.1h", s.BuyVolume.H1); err != nil {
		return err
	}
	return validation.NonNegative("sellVolume.1h", s.SellVolume.H1)
}

// Partial converts validated stats into the market slice of the token view.
func (s *TokenPairStats) Partial(source string) (*domain.PartialTokenData, error) {
	liq, err := validation.Decimal("totalLiquidityUsd", s.TotalLiquidityUSD)
	if err != nil {
		return nil, err
	}
	price, err := validation.Decimal("currentUsdPrice", s.CurrentUSDPrice)
	if err != nil {
		return nil, err
	}
	change24h := s.PricePercentChange.H24
	return &domain.PartialTokenData{
		Source:       source,
		ExchangeName: ptr(s.Exchange),
		USDPrice:     &price,
		Liquidity:    &liq,
		Stats1H: &domain.WindowStats{
			Buys:           s.Buys.H1,
			Sells:          s.Sells.H1,
			BuyVolume:      s.BuyVolume.H1,
			SellVolume:     s.SellVolume.H1,
			PriceChangePct: s.PricePercentChange.H1,
		},
		PriceChange24H: &change24h,
	}, nil
}

// TokenHolderStats is the /token/mainnet/holders/{mint} payload.
type TokenHolderStats struct {
	TotalHolders int64 `json:"totalHolders"`
}

// Validate rejects a negative holder count.
func (h *TokenHolderStats) Validate() error {
	return validation.NonNegative("totalHolders", float64(h.TotalHolders))
}

// ErrorEnvelope is the body Moralis returns with non-2xx responses.
type ErrorEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func ptr[T any](v T) *T {
	return &v
}
