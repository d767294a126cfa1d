package bot

import (
	"regexp"

	"solana-scan-bot/internal/domain"
)

var (
	addressPattern = regexp.MustCompile(`[1-9A-HJ-NP-Za-km-z]{32,44}`)
	symbolPattern  = regexp.MustCompile(`\$[A-Za-z]+`)
)

// ExtractIdentifier finds the token a message refers to. An address match
// wins over a symbol match anywhere in the text.
func ExtractIdentifier(content string) (domain.TokenIdentifier, bool) {
	if m := addressPattern.FindString(content); m != "" {
		return domain.NewAddressIdentifier(m), true
	}
	if m := symbolPattern.FindString(content); m != "" {
		return domain.NewSymbolIdentifier(m), true
	}
	return domain.TokenIdentifier{}, false
}
