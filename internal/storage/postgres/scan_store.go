package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"solana-scan-bot/internal/domain"
	"solana-scan-bot/internal/storage"
)

// ScanStore implements storage.ScanStore using PostgreSQL.
// First-scan uniqueness is enforced by the idx_unique_token_guild constraint.
type ScanStore struct {
	pool *Pool
}

// NewScanStore creates a new ScanStore.
func NewScanStore(pool *Pool) *ScanStore {
	return &ScanStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ScanStore = (*ScanStore)(nil)

// EnsureGuild inserts the guild if it does not exist.
func (s *ScanStore) EnsureGuild(ctx context.Context, g domain.Guild) (err error) {
	if err := storage.ValidateGuild(g); err != nil {
		return err
	}
	id, err := bigint(g.GuildID)
	if err != nil {
		return err
	}
	defer func(start time.Time) { observe("ensure_guild", start, err) }(time.Now())

	query := `INSERT INTO guilds (guild_id) VALUES ($1) ON CONFLICT (guild_id) DO NOTHING`
	if _, err = s.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("ensure guild: %w", err)
	}
	return nil
}

// EnsureUser inserts the user if it does not exist.
func (s *ScanStore) EnsureUser(ctx context.Context, u domain.User) (err error) {
	if err := storage.ValidateUser(u); err != nil {
		return err
	}
	id, err := bigint(u.UserID)
	if err != nil {
		return err
	}
	defer func(start time.Time) { observe("ensure_user", start, err) }(time.Now())

	query := `INSERT INTO users (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`
	if _, err = s.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}

// EnsureToken inserts the token if it does not exist.
func (s *ScanStore) EnsureToken(ctx context.Context, t domain.Token) (err error) {
	if err := storage.ValidateToken(t); err != nil {
		return err
	}
	defer func(start time.Time) { observe("ensure_token", start, err) }(time.Now())

	query := `
		INSERT INTO tokens (token_id, name, symbol)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_id) DO NOTHING
	`
	if _, err = s.pool.Exec(ctx, query, t.TokenID, t.Name, t.Symbol); err != nil {
		return fmt.Errorf("ensure token: %w", err)
	}
	return nil
}

// InsertScan records a first scan. Returns ErrDuplicateKey if (guild_id, token_id) exists.
func (s *ScanStore) InsertScan(ctx context.Context, n domain.NewScan) (rec *domain.ScanRecord, err error) {
	if err := storage.ValidateNewScan(n); err != nil {
		return nil, err
	}
	guildID, err := bigint(n.GuildID)
	if err != nil {
		return nil, err
	}
	userID, err := bigint(n.UserID)
	if err != nil {
		return nil, err
	}
	defer func(start time.Time) { observe("insert_scan", start, err) }(time.Now())

	query := `
		INSERT INTO token_scans (guild_id, user_id, token_id, fdv)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT idx_unique_token_guild DO NOTHING
		RETURNING id, guild_id, user_id, token_id, fdv, scanned_at
	`
	rec, err = scanRecord(s.pool.QueryRow(ctx, query, guildID, userID, n.TokenID, n.FDV))
	if err != nil {
		// DO NOTHING returns no row when the constraint already holds the key.
		if isNotFoundError(err) || isDuplicateKeyError(err) {
			return nil, storage.ErrDuplicateKey
		}
		return nil, fmt.Errorf("insert scan: %w", err)
	}
	return rec, nil
}

// GetScans retrieves scans for (token_id, guild_id), most recent first.
func (s *ScanStore) GetScans(ctx context.Context, tokenID string, guildID uint64) (result []*domain.ScanRecord, err error) {
	id, err := bigint(guildID)
	if err != nil {
		return nil, err
	}
	defer func(start time.Time) { observe("get_scans", start, err) }(time.Now())

	query := `
		SELECT id, guild_id, user_id, token_id, fdv, scanned_at
		FROM token_scans
		WHERE token_id = $1 AND guild_id = $2
		ORDER BY scanned_at DESC, id DESC
	`
	rows, err := s.pool.Query(ctx, query, tokenID, id)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		result = append(result, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scans: %w", err)
	}
	return result, nil
}

// CountScans returns the total number of recorded scans.
func (s *ScanStore) CountScans(ctx context.Context) (count int64, err error) {
	defer func(start time.Time) { observe("count_scans", start, err) }(time.Now())

	if err = s.pool.QueryRow(ctx, `SELECT count(*) FROM token_scans`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count scans: %w", err)
	}
	return count, nil
}

func scanRecord(row pgx.Row) (*domain.ScanRecord, error) {
	var (
		rec     domain.ScanRecord
		guildID int64
		userID  int64
	)
	if err := row.Scan(&rec.ID, &guildID, &userID, &rec.TokenID, &rec.FDV, &rec.ScannedAt); err != nil {
		return nil, err
	}
	rec.GuildID = uint64(guildID)
	rec.UserID = uint64(userID)
	rec.ScannedAt = rec.ScannedAt.UTC()
	return &rec, nil
}
