package storage

import (
	"fmt"
	"math"
	"unicode/utf8"

	"solana-scan-bot/internal/domain"
	"solana-scan-bot/internal/solana"
)

// Column limits of the tokens table.
const (
	MaxTokenNameLen   = 100
	MaxTokenSymbolLen = 20
)

// ValidateGuild checks a guild before insert.
func ValidateGuild(g domain.Guild) error {
	if g.GuildID == 0 {
		return fmt.Errorf("%w: guild_id must be positive", ErrInvalidInput)
	}
	return nil
}

// ValidateUser checks a user before insert.
func ValidateUser(u domain.User) error {
	if u.UserID == 0 {
		return fmt.Errorf("%w: user_id must be positive", ErrInvalidInput)
	}
	return nil
}

// ValidateToken checks a token before insert.
func ValidateToken(t domain.Token) error {
	if err := validateTokenID(t.TokenID); err != nil {
		return err
	}
	if utf8.RuneCountInString(t.Name) > MaxTokenNameLen {
		return fmt.Errorf("%w: name longer than %d characters", ErrInvalidInput, MaxTokenNameLen)
	}
	if utf8.RuneCountInString(t.Symbol) > MaxTokenSymbolLen {
		return fmt.Errorf("%w: symbol longer than %d characters", ErrInvalidInput, MaxTokenSymbolLen)
	}
	return nil
}

// ValidateNewScan checks a scan before insert.
func ValidateNewScan(s domain.NewScan) error {
	if s.GuildID == 0 {
		return fmt.Errorf("%w: guild_id must be positive", ErrInvalidInput)
	}
	if s.UserID == 0 {
		return fmt.Errorf("%w: user_id must be positive", ErrInvalidInput)
	}
	if err := validateTokenID(s.TokenID); err != nil {
		return err
	}
	if math.IsNaN(s.FDV) || math.IsInf(s.FDV, 0) || s.FDV < 0 {
		return fmt.Errorf("%w: fdv must be a non-negative number", ErrInvalidInput)
	}
	return nil
}

func validateTokenID(id string) error {
	if n := len(id); n < solana.MinAddressLen || n > solana.MaxAddressLen {
		return fmt.Errorf("%w: token_id length %d outside [%d, %d]",
			ErrInvalidInput, n, solana.MinAddressLen, solana.MaxAddressLen)
	}
	return nil
}
