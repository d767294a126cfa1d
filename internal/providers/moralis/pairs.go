package moralis

import "strings"

// DefaultMaxPairs caps how many active pairs are considered for selection.
const DefaultMaxPairs = 5

// Program addresses of the venues preferred as primary pair.
const (
	PumpSwapAddress    = "pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA"
	RaydiumCPMMAddress = "CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C"
)

// DefaultPreferredExchanges is the default primary-pair allow-list, in priority order.
var DefaultPreferredExchanges = []string{PumpSwapAddress, RaydiumCPMMAddress}

// SelectPrimaryPair picks the authoritative trading pair.
//
// Inactive pairs are dropped and the remainder capped at maxPairs. The first
// allow-list entry (in list order) matching a candidate's exchange address, or
// its exchange name case-insensitively, wins. Otherwise the first candidate is
// used. ok is false when no active pair remains.
func SelectPrimaryPair(pairs []TokenPair, preferred []string, maxPairs int) (TokenPair, bool) {
	if maxPairs <= 0 {
		maxPairs = DefaultMaxPairs
	}

	candidates := make([]TokenPair, 0, maxPairs)
	for _, p := range pairs {
		if p.InactivePair {
			continue
		}
		candidates = append(candidates, p)
		if len(candidates) == maxPairs {
			break
		}
	}
	if len(candidates) == 0 {
		return TokenPair{}, false
	}

	for _, want := range preferred {
		for _, p := range candidates {
			if p.ExchangeAddress == want || strings.EqualFold(p.ExchangeName, want) {
				return p, true
			}
		}
	}
	return candidates[0], true
}
