package domain

import "time"

// Links holds the social links of a token. Empty string means absent.
type Links struct {
	Twitter  string
	Telegram string
	Discord  string
	Reddit   string
	Website  string
}

// WindowStats holds short-window trading stats of the primary pair.
type WindowStats struct {
	Buys           int64
	Sells          int64
	BuyVolume      float64 // USD
	SellVolume     float64 // USD
	PriceChangePct float64 // signed percentage
}

// Volume returns buy + sell volume in USD.
func (s WindowStats) Volume() float64 {
	return s.BuyVolume + s.SellVolume
}

// PartialTokenData is the slice of a token view one provider is able to supply.
// Nil / empty fields are filled by lower-priority providers during merge.
type PartialTokenData struct {
	Source string // provider name, for logs

	Mint   *string
	Name   *string
	Symbol *string
	Logo   *string

	Launchpad    *string
	ExchangeName *string

	USDPrice          *float64
	FullyDilutedValue *float64
	Liquidity         *float64
	HolderCount       *int64

	Stats1H        *WindowStats
	PriceChange24H *float64

	Links         Links
	DevAddress    *string
	PoolCreatedAt *time.Time
}

// TokenView is the canonical merged record of one token.
// Built once per scan request and treated as read-only afterwards.
type TokenView struct {
	Mint   string // token id
	Name   string
	Symbol string
	Logo   string // empty when unknown

	Launchpad    string // empty when unknown
	ExchangeName string // primary pair venue

	USDPrice          float64 // mandatory
	FullyDilutedValue float64 // mandatory
	Liquidity         float64 // mandatory
	HolderCount       *int64  // nullable

	Stats1H        *WindowStats // nullable
	PriceChange24H *float64     // nullable

	Links         Links
	DevAddress    string     // empty when unknown
	PoolCreatedAt *time.Time // nullable
}
