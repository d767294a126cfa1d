package domain

import "time"

// Guild is a chat server the bot is a member of.
// Corresponds to guilds table in PostgreSQL.
type Guild struct {
	GuildID uint64 // PRIMARY KEY
}

// User is a chat user who posted a token.
// Corresponds to users table in PostgreSQL.
type User struct {
	UserID uint64 // PRIMARY KEY
}

// Token is the identity of a scanned token.
// Corresponds to tokens table in PostgreSQL.
type Token struct {
	TokenID string // PRIMARY KEY, mint address
	Name    string
	Symbol  string
}

// NewScan is a first-scan row about to be inserted.
type NewScan struct {
	GuildID uint64
	UserID  uint64
	TokenID string
	FDV     float64 // fully diluted value at scan time (USD)
}

// ScanRecord is the persisted first scan of a token within a guild.
// Corresponds to token_scans table in PostgreSQL, unique on (guild_id, token_id).
type ScanRecord struct {
	ID        int64 // BIGSERIAL primary key
	GuildID   uint64
	UserID    uint64
	TokenID   string
	FDV       float64
	ScannedAt time.Time
}

// OutcomeKind is the variant of a ScanOutcome.
type OutcomeKind string

const (
	OutcomeFirstScan      OutcomeKind = "FIRST_SCAN"
	OutcomeAlreadyScanned OutcomeKind = "ALREADY_SCANNED"
)

// ScanOutcome is the result of recording a scan: either this request created
// the record, or a record already existed and is returned unchanged.
type ScanOutcome struct {
	Kind   OutcomeKind
	Record ScanRecord
}

// FirstScan builds the outcome for a newly created record.
func FirstScan(r ScanRecord) ScanOutcome {
	return ScanOutcome{Kind: OutcomeFirstScan, Record: r}
}

// AlreadyScanned builds the outcome for an existing record.
func AlreadyScanned(r ScanRecord) ScanOutcome {
	return ScanOutcome{Kind: OutcomeAlreadyScanned, Record: r}
}

// IsFirst reports whether this request won the first scan.
func (o ScanOutcome) IsFirst() bool {
	return o.Kind == OutcomeFirstScan
}
