package aggregator

import (
	"time"

	"solana-scan-bot/internal/domain"
)

// Merge folds partials into a TokenView. Partials are in priority order:
// for every field the first present value wins. Mint, USD price, FDV and
// liquidity must be supplied by some partial.
func Merge(partials []*domain.PartialTokenData) (*domain.TokenView, error) {
	var (
		mint, name, symbol, logo *string
		launchpad, exchange, dev *string
		price, fdv, liq          *float64
		holders                  *int64
		stats1h                  *domain.WindowStats
		change24h                *float64
		links                    domain.Links
		poolCreated              *time.Time
	)

	for _, p := range partials {
		if p == nil {
			continue
		}
		mint = first(mint, p.Mint)
		name = first(name, p.Name)
		symbol = first(symbol, p.Symbol)
		logo = first(logo, p.Logo)
		launchpad = first(launchpad, p.Launchpad)
		exchange = first(exchange, p.ExchangeName)
		dev = first(dev, p.DevAddress)
		price = first(price, p.USDPrice)
		fdv = first(fdv, p.FullyDilutedValue)
		liq = first(liq, p.Liquidity)
		holders = first(holders, p.HolderCount)
		stats1h = first(stats1h, p.Stats1H)
		change24h = first(change24h, p.PriceChange24H)
		poolCreated = first(poolCreated, p.PoolCreatedAt)
		links = mergeLinks(links, p.Links)
	}

	if mint == nil || *mint == "" {
		return nil, &domain.MissingRequiredFieldError{Field: "mint"}
	}
	if price == nil {
		return nil, &domain.MissingRequiredFieldError{Field: "usd_price"}
	}
	if fdv == nil {
		return nil, &domain.MissingRequiredFieldError{Field: "fully_diluted_value"}
	}
	if liq == nil {
		return nil, &domain.MissingRequiredFieldError{Field: "liquidity"}
	}

	view := &domain.TokenView{
		Mint:              *mint,
		Name:              value(name),
		Symbol:            value(symbol),
		Logo:              value(logo),
		Launchpad:         value(launchpad),
		ExchangeName:      value(exchange),
		USDPrice:          *price,
		FullyDilutedValue: *fdv,
		Liquidity:         *liq,
		Links:             links,
		DevAddress:        value(dev),
	}
	if holders != nil {
		h := *holders
		view.HolderCount = &h
	}
	if stats1h != nil {
		s := *stats1h
		view.Stats1H = &s
	}
	if change24h != nil {
		c := *change24h
		view.PriceChange24H = &c
	}
	if poolCreated != nil {
		t := *poolCreated
		view.PoolCreatedAt = &t
	}
	return view, nil
}

func first[T any](cur, next *T) *T {
	if cur != nil {
		return cur
	}
	return next
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func mergeLinks(cur, next domain.Links) domain.Links {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	return domain.Links{
		Twitter:  pick(cur.Twitter, next.Twitter),
		Telegram: pick(cur.Telegram, next.Telegram),
		Discord:  pick(cur.Discord, next.Discord),
		Reddit:   pick(cur.Reddit, next.Reddit),
		Website:  pick(cur.Website, next.Website),
	}
}
