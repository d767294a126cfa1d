// Package ledger records the first scan of a token per guild.
//
// The read-then-insert sequence is not atomic. Correctness under concurrent
// first scans relies on the store's (guild_id, token_id) uniqueness: the
// loser of an insert race re-reads and reports the winner's record.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"solana-scan-bot/internal/domain"
	"solana-scan-bot/internal/observability"
	"solana-scan-bot/internal/storage"
)

// PersistenceError reports a store failure during a ledger operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ledger %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Ledger is the single writer of scan records.
type Ledger struct {
	store storage.ScanStore
}

// New creates a Ledger over store.
func New(store storage.ScanStore) *Ledger {
	return &Ledger{store: store}
}

// Lookup returns the recorded scan for (tokenID, guildID). It never writes.
// Returns storage.ErrNotFound when the pair has not been scanned.
func (l *Ledger) Lookup(ctx context.Context, tokenID string, guildID uint64) (*domain.ScanRecord, error) {
	scans, err := l.store.GetScans(ctx, tokenID, guildID)
	if err != nil {
		return nil, &PersistenceError{Op: "lookup", Err: err}
	}
	if len(scans) == 0 {
		return nil, storage.ErrNotFound
	}
	// Newest first; more than one row only exists if the constraint was bypassed.
	return scans[0], nil
}

// RecordOrFetch returns AlreadyScanned with the existing record when the
// token was scanned in the guild before, otherwise inserts a new record and
// returns FirstScan.
func (l *Ledger) RecordOrFetch(ctx context.Context, view *domain.TokenView, guildID, userID uint64) (domain.ScanOutcome, error) {
	logger := observability.Logger(ctx)

	existing, err := l.Lookup(ctx, view.Mint, guildID)
	switch {
	case err == nil:
		return domain.AlreadyScanned(*existing), nil
	case !errors.Is(err, storage.ErrNotFound):
		return domain.ScanOutcome{}, err
	}

	if err := l.store.EnsureGuild(ctx, domain.Guild{GuildID: guildID}); err != nil {
		return domain.ScanOutcome{}, &PersistenceError{Op: "ensure guild", Err: err}
	}
	if err := l.store.EnsureUser(ctx, domain.User{UserID: userID}); err != nil {
		return domain.ScanOutcome{}, &PersistenceError{Op: "ensure user", Err: err}
	}
	token := domain.Token{
		TokenID: view.Mint,
		Name:    clip(view.Name, storage.MaxTokenNameLen),
		Symbol:  clip(view.Symbol, storage.MaxTokenSymbolLen),
	}
	if err := l.store.EnsureToken(ctx, token); err != nil {
		return domain.ScanOutcome{}, &PersistenceError{Op: "ensure token", Err: err}
	}

	rec, err := l.store.InsertScan(ctx, domain.NewScan{
		GuildID: guildID,
		UserID:  userID,
		TokenID: view.Mint,
		FDV:     view.FullyDilutedValue,
	})
	if err == nil {
		return domain.FirstScan(*rec), nil
	}
	if !errors.Is(err, storage.ErrDuplicateKey) {
		return domain.ScanOutcome{}, &PersistenceError{Op: "insert scan", Err: err}
	}

	observability.RecordLedgerRace()
	logger.Info().Str("token", view.Mint).Uint64("guild_id", guildID).Msg("lost first-scan race, re-reading winner")

	winner, err := l.Lookup(ctx, view.Mint, guildID)
	if err != nil {
		return domain.ScanOutcome{}, &PersistenceError{Op: "re-read after conflict", Err: err}
	}
	return domain.AlreadyScanned(*winner), nil
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
