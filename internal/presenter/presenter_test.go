package presenter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"solana-scan-bot/internal/domain"
)

const testMint = "So11111111111111111111111111111111111111112"

type fakeNames struct {
	names map[uint64]string
	err   error
	calls int
}

func (f *fakeNames) DisplayName(_ context.Context, userID uint64) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.names[userID], nil
}

func ptr[T any](v T) *T { return &v }

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fullView() *domain.TokenView {
	return &domain.TokenView{
		Mint:              testMint,
		Name:              "Bonk Dog",
		Symbol:            "BDOG",
		Logo:              "https://logo.example/bdog.png",
		Launchpad:         "letsbonk.fun",
		ExchangeName:      "Raydium CPMM",
		USDPrice:          0.00012346,
		FullyDilutedValue: 1_234_567,
		Liquidity:         45_600,
		HolderCount:       ptr(int64(1500)),
		Stats1H:           &domain.WindowStats{Buys: 40, Sells: 35, BuyVolume: 1500, SellVolume: 1200, PriceChangePct: -3.27},
		PriceChange24H:    ptr(12.34),
		Links:             domain.Links{Twitter: "https://x.com/bdog"},
		DevAddress:        "11111111111111111111111111111111",
		PoolCreatedAt:     ptr(now.Add(-3 * time.Hour)),
	}
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "🐶 **Bonk Dog [1.2M/12.3%] - $BDOG**", Header(fullView()))

	v := fullView()
	v.Launchpad = ""
	v.PriceChange24H = nil
	assert.Equal(t, "**Bonk Dog [1.2M] - $BDOG**", Header(v))
}

func TestDescription_Full(t *testing.T) {
	want := "🌐 Solana @ Raydium CPMM\n" +
		"💰 USD: `$0.0001235`\n" +
		"💎 FDV: `$1.2M`\n" +
		"💦 Liq: `$45.6K`\n" +
		"🕰️ Age: `3h`\n" +
		"📈 1H: `-3.3%` ⋅ `$2.7K` 🅑 `40` Ⓢ `35`\n" +
		"\n" +
		"🤝 Total: `1.5K`\n" +
		"💼 Socials: [𝕏](https://x.com/bdog) ⋅ [Dev](https://solscan.io/account/11111111111111111111111111111111)\n" +
		"💹 Chart: [DEX](https://dexscreener.com/solana/" + testMint + ") ⋅ [DEF](https://www.defined.fi/sol/" + testMint + ")\n" +
		"\n" +
		"`" + testMint + "`"

	assert.Equal(t, want, Description(fullView(), now))
}

func TestDescription_OptionalFieldsOmitted(t *testing.T) {
	v := &domain.TokenView{
		Mint:              testMint,
		Name:              "Bare",
		Symbol:            "BR",
		USDPrice:          2,
		FullyDilutedValue: 10,
		Liquidity:         5,
	}

	desc := Description(v, now)
	assert.Contains(t, desc, "🌐 Solana\n")
	assert.Contains(t, desc, "💰 USD: `$2.00`")
	assert.NotContains(t, desc, "Age")
	assert.NotContains(t, desc, "1H")
	assert.NotContains(t, desc, "Total")
	assert.NotContains(t, desc, "Socials")
	assert.Contains(t, desc, "💹 Chart:")
}

func TestRender_FirstScan(t *testing.T) {
	names := &fakeNames{}
	p := New(names, WithClock(func() time.Time { return now }))
	outcome := domain.FirstScan(domain.ScanRecord{UserID: 1, FDV: 1_234_567, ScannedAt: now})

	msg := p.Render(context.Background(), fullView(), outcome, Author{ID: 1, DisplayName: "alice", AvatarURL: "https://cdn/a.png"})

	assert.Equal(t, "alice 💨 You are first! @ 1.2M", msg.Embed.FooterText)
	assert.Equal(t, "https://cdn/a.png", msg.Embed.FooterIcon)
	assert.Equal(t, "Bonk Dog", msg.Embed.Title)
	assert.Equal(t, "https://logo.example/bdog.png", msg.Embed.Thumbnail)
	assert.Equal(t, EmbedColor, msg.Embed.Color)
	assert.Zero(t, names.calls)
}

func TestRender_AlreadyScanned(t *testing.T) {
	names := &fakeNames{names: map[uint64]string{7: "bob"}}
	p := New(names, WithClock(func() time.Time { return now }))
	outcome := domain.AlreadyScanned(domain.ScanRecord{UserID: 7, FDV: 50_000, ScannedAt: now.Add(-8 * 24 * time.Hour)})

	msg := p.Render(context.Background(), fullView(), outcome, Author{ID: 1, DisplayName: "alice"})

	assert.Equal(t, "alice 🏆 bob @ 50.0K ⋅ 1w", msg.Embed.FooterText)
	assert.Empty(t, msg.Embed.FooterIcon)
	assert.Equal(t, 1, names.calls)
}

func TestRender_AlreadyScannedBySameUser(t *testing.T) {
	names := &fakeNames{}
	p := New(names, WithClock(func() time.Time { return now }))
	outcome := domain.AlreadyScanned(domain.ScanRecord{UserID: 1, FDV: 10, ScannedAt: now.Add(-45 * time.Second)})

	msg := p.Render(context.Background(), fullView(), outcome, Author{ID: 1, DisplayName: "alice"})

	assert.Equal(t, "alice 🏆 alice @ 10 ⋅ 45s", msg.Embed.FooterText)
	assert.Zero(t, names.calls)
}

func TestRender_NameResolutionFailureFallsBackToID(t *testing.T) {
	p := New(&fakeNames{err: errors.New("discord down")}, WithClock(func() time.Time { return now }))
	outcome := domain.AlreadyScanned(domain.ScanRecord{UserID: 987654321, FDV: 10, ScannedAt: now.Add(-time.Hour)})

	msg := p.Render(context.Background(), fullView(), outcome, Author{ID: 1, DisplayName: "alice"})

	assert.Equal(t, "alice 🏆 987654321 @ 10 ⋅ 1h", msg.Embed.FooterText)
}
