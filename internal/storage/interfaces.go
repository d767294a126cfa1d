package storage

import (
	"context"

	"solana-scan-bot/internal/domain"
)

// ScanStore persists the first-scan leaderboard.
//
// Ensure* operations are idempotent: inserting an existing key is a no-op.
type ScanStore interface {
	// EnsureGuild inserts the guild if it does not exist.
	EnsureGuild(ctx context.Context, g domain.Guild) error

	// EnsureUser inserts the user if it does not exist.
	EnsureUser(ctx context.Context, u domain.User) error

	// EnsureToken inserts the token if it does not exist. Existing name and symbol are kept.
	EnsureToken(ctx context.Context, t domain.Token) error

	// InsertScan records a first scan. Returns ErrDuplicateKey if (guild_id, token_id) exists.
	InsertScan(ctx context.Context, s domain.NewScan) (*domain.ScanRecord, error)

	// GetScans retrieves scans for (token_id, guild_id), most recent first.
	// At most one row exists in steady state.
	GetScans(ctx context.Context, tokenID string, guildID uint64) ([]*domain.ScanRecord, error)

	// CountScans returns the total number of recorded scans.
	CountScans(ctx context.Context) (int64, error)
}
