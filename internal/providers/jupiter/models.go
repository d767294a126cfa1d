package jupiter

import (
	"time"

	"solana-scan-bot/internal/domain"
	"solana-scan-bot/internal/solana"
	"solana-scan-bot/internal/validation"
)

// TokenInfo is one entry of the /search response.
type TokenInfo struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Symbol      string     `json:"symbol"`
	Icon        string     `json:"icon"`
	Dev         string     `json:"dev"`
	Launchpad   string     `json:"launchpad"`
	HolderCount *int64     `json:"holderCount"`
	FirstPool   *FirstPool `json:"firstPool"`

	Twitter  string `json:"twitter"`
	Telegram string `json:"telegram"`
	Website  string `json:"website"`

	USDPrice  *float64 `json:"usdPrice"`
	FDV       *float64 `json:"fdv"`
	Liquidity *float64 `json:"liquidity"`
	Stats1H   *Stats   `json:"stats1h"`
	Stats24H  *Stats   `json:"stats24h"`
}

// FirstPool is the earliest pool Jupiter indexed for the token.
type FirstPool struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Stats are windowed trading stats. Every field may be missing.
type Stats struct {
	PriceChange *float64 `json:"priceChange"`
	BuyVolume   *float64 `json:"buyVolume"`
	SellVolume  *float64 `json:"sellVolume"`
	NumBuys     *int64   `json:"numBuys"`
	NumSells    *int64   `json:"numSells"`
}

// ErrorEnvelope is the body Jupiter returns with non-2xx responses.
type ErrorEnvelope struct {
	Error string `json:"error"`
}

// Validate rejects a malformed search entry.
func (t *TokenInfo) Validate() error {
	if err := validation.Address("id", t.ID); err != nil {
		return err
	}
	if err := validation.NonEmpty("name", t.Name); err != nil {
		return err
	}
	if err := validation.NonEmpty("symbol", t.Symbol); err != nil {
		return err
	}
	if t.Dev != "" {
		if err := validation.Address("dev", t.Dev); err != nil {
			return err
		}
	}
	for _, f := range []struct{ field, value string }{
		{"icon", t.Icon},
		{"twitter", t.Twitter},
		{"telegram", t.Telegram},
		{"website", t.Website},
	} {
		if err := validation.OptionalURL(f.field, f.value); err != nil {
			return err
		}
	}
	for _, f := range []struct {
		field string
		value *float64
	}{
		{"usdPrice", t.USDPrice},
		{"fdv", t.FDV},
		{"liquidity", t.Liquidity},
	} {
		if f.value == nil {
			continue
		}
		if err := validation.NonNegative(f.field, *f.value); err != nil {
			return err
		}
	}
	if t.HolderCount != nil {
		if err := validation.NonNegative("holderCount", float64(*t.HolderCount)); err != nil {
			return err
		}
	}
	if t.Stats1H != nil {
		if err := t.Stats1H.validate("stats1h"); err != nil {
			return err
		}
	}
	if t.Stats24H != nil {
		return t.Stats24H.validate("stats24h")
	}
	return nil
}

func (s *Stats) validate(prefix string) error {
	if s.PriceChange != nil {
		if err := validation.Finite(prefix+".priceChange", *s.PriceChange); err != nil {
			return err
		}
	}
	for _, f := range []struct {
		field string
		value *float64
	}{
		{prefix + ".buyVolume", s.BuyVolume},
		{prefix + ".sellVolume", s.SellVolume},
	} {
		if f.value == nil {
			continue
		}
		if err := validation.NonNegative(f.field, *f.value); err != nil {
			return err
		}
	}
	for _, f := range []struct {
		field string
		value *int64
	}{
		{prefix + ".numBuys", s.NumBuys},
		{prefix + ".numSells", s.NumSells},
	} {
		if f.value == nil {
			continue
		}
		if err := validation.NonNegative(f.field, float64(*f.value)); err != nil {
			return err
		}
	}
	return nil
}

// Partial converts a validated entry into a token view slice.
// A developer address is kept only when it is a wallet (on the ed25519 curve).
func (t *TokenInfo) Partial(source string) *domain.PartialTokenData {
	p := &domain.PartialTokenData{
		Source:            source,
		Mint:              ptr(t.ID),
		Name:              ptr(t.Name),
		Symbol:            ptr(t.Symbol),
		USDPrice:          t.USDPrice,
		FullyDilutedValue: t.FDV,
		Liquidity:         t.Liquidity,
		HolderCount:       t.HolderCount,
		Links: domain.Links{
			Twitter:  t.Twitter,
			Telegram: t.Telegram,
			Website:  t.Website,
		},
	}
	if t.Icon != "" {
		p.Logo = ptr(t.Icon)
	}
	if t.Launchpad != "" {
		p.Launchpad = ptr(t.Launchpad)
	}
	if t.Dev != "" && solana.IsOnCurve(t.Dev) {
		p.DevAddress = ptr(t.Dev)
	}
	if t.FirstPool != nil && !t.FirstPool.CreatedAt.IsZero() {
		created := t.FirstPool.CreatedAt
		p.PoolCreatedAt = &created
	}
	if s := t.Stats1H; s != nil {
		p.Stats1H = &domain.WindowStats{
			Buys:           deref(s.NumBuys),
			Sells:          deref(s.NumSells),
			BuyVolume:      deref(s.BuyVolume),
			SellVolume:     deref(s.SellVolume),
			PriceChangePct: deref(s.PriceChange),
		}
	}
	if t.Stats24H != nil && t.Stats24H.PriceChange != nil {
		p.PriceChange24H = ptr(*t.Stats24H.PriceChange)
	}
	return p
}

func ptr[T any](v T) *T {
	return &v
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
