// Package presenter turns a TokenView and a scan outcome into the text of a
// chat reply. Apart from resolving the original scanner's display name it
// performs no I/O.
package presenter

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"solana-scan-bot/internal/domain"
	"solana-scan-bot/internal/observability"
)

// EmbedColor is the side bar color of the reply panel.
const EmbedColor = 0x5865F2

// Author is the user whose message triggered the scan.
type Author struct {
	ID          uint64
	DisplayName string
	AvatarURL   string // empty when the user has none
}

// NameResolver resolves a user id to a display name.
type NameResolver interface {
	DisplayName(ctx context.Context, userID uint64) (string, error)
}

// Embed is the structured panel of a reply.
type Embed struct {
	Title       string
	Description string
	Thumbnail   string
	Color       int
	FooterText  string
	FooterIcon  string
}

// Message is a rendered reply: one text line plus a panel.
type Message struct {
	Content string
	Embed   Embed
}

// Presenter renders scan replies.
type Presenter struct {
	names NameResolver
	now   func() time.Time
}

// Option configures Presenter.
type Option func(*Presenter)

// WithClock sets the time source used for relative durations.
func WithClock(now func() time.Time) Option {
	return func(p *Presenter) {
		p.now = now
	}
}

// New creates a Presenter. names may be nil, in which case original
// scanners are shown by id.
func New(names NameResolver, opts ...Option) *Presenter {
	p := &Presenter{names: names, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Render builds the full reply for a scan.
func (p *Presenter) Render(ctx context.Context, view *domain.TokenView, outcome domain.ScanOutcome, author Author) Message {
	msg := RenderView(view, p.now())
	msg.Embed.FooterText = p.footer(ctx, outcome, author)
	msg.Embed.FooterIcon = author.AvatarURL
	return msg
}

// RenderView builds the reply without a ledger footer.
func RenderView(view *domain.TokenView, now time.Time) Message {
	return Message{
		Content: Header(view),
		Embed: Embed{
			Title:       view.Name,
			Description: Description(view, now),
			Thumbnail:   view.Logo,
			Color:       EmbedColor,
		},
	}
}

// Header is the bold first line: icon, name, FDV, 24h change and symbol.
func Header(view *domain.TokenView) string {
	stats := ShortScale(view.FullyDilutedValue)
	if view.PriceChange24H != nil {
		stats += fmt.Sprintf("/%.1f%%", *view.PriceChange24H)
	}
	header := fmt.Sprintf("**%s [%s] - $%s**", view.Name, stats, view.Symbol)
	if icon := LaunchpadIcon(view.Launchpad); icon != "" {
		header = icon + " " + header
	}
	return header
}

// Description is the panel body.
func Description(view *domain.TokenView, now time.Time) string {
	lines := make([]string, 0, 12)

	venue := "🌐 Solana"
	if view.ExchangeName != "" {
		venue += " @ " + view.ExchangeName
	}
	lines = append(lines,
		venue,
		fmt.Sprintf("💰 USD: `$%s`", FormatPrice(view.USDPrice)),
		fmt.Sprintf("💎 FDV: `$%s`", ShortScale(view.FullyDilutedValue)),
		fmt.Sprintf("💦 Liq: `$%s`", ShortScale(view.Liquidity)),
	)
	if view.PoolCreatedAt != nil {
		lines = append(lines, fmt.Sprintf("🕰️ Age: `%s`", FormatSince(*view.PoolCreatedAt, now)))
	}
	if s := view.Stats1H; s != nil {
		lines = append(lines, fmt.Sprintf("📈 1H: `%.1f%%` ⋅ `$%s` 🅑 `%d` Ⓢ `%d`",
			s.PriceChangePct, ShortScale(s.Volume()), s.Buys, s.Sells))
	}
	lines = append(lines, "")
	if view.HolderCount != nil {
		lines = append(lines, fmt.Sprintf("🤝 Total: `%s`", ShortScale(float64(*view.HolderCount))))
	}
	if socials, ok := Socials(view.Links, view.DevAddress); ok {
		lines = append(lines, "💼 Socials: "+socials)
	}
	lines = append(lines, fmt.Sprintf(
		"💹 Chart: [DEX](https://dexscreener.com/solana/%s)%s[DEF](https://www.defined.fi/sol/%s)",
		view.Mint, SocialSeparator, view.Mint))

	return strings.Join(lines, "\n") + fmt.Sprintf("\n\n`%s`", view.Mint)
}

func (p *Presenter) footer(ctx context.Context, outcome domain.ScanOutcome, author Author) string {
	rec := outcome.Record
	if outcome.IsFirst() {
		return fmt.Sprintf("%s 💨 You are first! @ %s", author.DisplayName, ShortScale(rec.FDV))
	}
	return fmt.Sprintf("%s 🏆 %s @ %s%s%s",
		author.DisplayName,
		p.originalScanner(ctx, rec.UserID, author),
		ShortScale(rec.FDV),
		SocialSeparator,
		FormatSince(rec.ScannedAt, p.now()),
	)
}

func (p *Presenter) originalScanner(ctx context.Context, userID uint64, author Author) string {
	if userID == author.ID && author.DisplayName != "" {
		return author.DisplayName
	}
	if p.names == nil {
		return strconv.FormatUint(userID, 10)
	}
	name, err := p.names.DisplayName(ctx, userID)
	if err != nil || name == "" {
		observability.Logger(ctx).Warn().Err(err).Uint64("user_id", userID).Msg("resolve display name failed")
		return strconv.FormatUint(userID, 10)
	}
	return name
}
