package presenter

import (
	"fmt"
	"strings"
	"time"

	"solana-scan-bot/internal/domain"
)

// ShortScale abbreviates n with a B, M or K suffix and one decimal.
// Thresholds are strict: exactly 1000 prints as "1000".
func ShortScale(n float64) string {
	switch {
	case n > 1e9:
		return fmt.Sprintf("%.1fB", n/1e9)
	case n > 1e6:
		return fmt.Sprintf("%.1fM", n/1e6)
	case n > 1e3:
		return fmt.Sprintf("%.1fK", n/1e3)
	default:
		return fmt.Sprintf("%.0f", n)
	}
}

// FormatPrice prints a USD price with precision chosen by magnitude.
func FormatPrice(p float64) string {
	var decimals int
	switch {
	case p >= 1000:
		decimals = 0
	case p >= 1:
		decimals = 2
	case p >= 0.1:
		decimals = 4
	case p >= 0.01:
		decimals = 5
	case p >= 0.001:
		decimals = 6
	case p >= 0.0001:
		decimals = 7
	case p >= 0.00001:
		decimals = 8
	default:
		decimals = 9
	}
	return fmt.Sprintf("%.*f", decimals, p)
}

// FormatDuration renders d in its largest whole unit: s, m, h, d, w, mo or y.
// Units truncate; months are weeks/4 and years weeks/52. Negative durations print as "0s".
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	mins := secs / 60
	hours := mins / 60
	days := hours / 24
	weeks := days / 7

	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case mins < 60:
		return fmt.Sprintf("%dm", mins)
	case hours < 24:
		return fmt.Sprintf("%dh", hours)
	case days < 7:
		return fmt.Sprintf("%dd", days)
	case weeks < 5:
		return fmt.Sprintf("%dw", weeks)
	case weeks < 53:
		return fmt.Sprintf("%dmo", weeks/4)
	default:
		return fmt.Sprintf("%dy", weeks/52)
	}
}

// FormatSince renders the time elapsed from t to now.
func FormatSince(t, now time.Time) string {
	return FormatDuration(now.Sub(t))
}

// LaunchpadIcon returns the icon for a launchpad name, or "" when there is none.
func LaunchpadIcon(launchpad string) string {
	l := strings.ToLower(launchpad)
	switch {
	case strings.Contains(l, "pump"):
		return "💊"
	case strings.Contains(l, "bonk"):
		return "🐶"
	default:
		return ""
	}
}

// SocialSeparator joins social links and chart links.
const SocialSeparator = " ⋅ "

// Socials renders the present links as markdown, in fixed order.
// ok is false when there is nothing to show.
func Socials(links domain.Links, dev string) (string, bool) {
	var parts []string
	add := func(label, url string) {
		if url != "" {
			parts = append(parts, fmt.Sprintf("[%s](%s)", label, url))
		}
	}
	add("𝕏", links.Twitter)
	add("Discord", links.Discord)
	add("Reddit", links.Reddit)
	add("Tg", links.Telegram)
	add("Web", links.Website)
	if dev != "" {
		add("Dev", "https://solscan.io/account/"+dev)
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, SocialSeparator), true
}
