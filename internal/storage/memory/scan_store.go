package memory

import (
	"context"
	"sync"
	"time"

	"solana-scan-bot/internal/domain"
	"solana-scan-bot/internal/storage"
)

type scanKey struct {
	guildID uint64
	tokenID string
}

// ScanStore is an in-memory implementation of storage.ScanStore.
// The (guild_id, token_id) uniqueness is enforced under the write lock.
type ScanStore struct {
	mu     sync.RWMutex
	guilds map[uint64]struct{}
	users  map[uint64]struct{}
	tokens map[string]domain.Token
	scans  map[scanKey]*domain.ScanRecord
	nextID int64
	now    func() time.Time
}

// NewScanStore creates a new in-memory scan store.
func NewScanStore() *ScanStore {
	return &ScanStore{
		guilds: make(map[uint64]struct{}),
		users:  make(map[uint64]struct{}),
		tokens: make(map[string]domain.Token),
		scans:  make(map[scanKey]*domain.ScanRecord),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Compile-time interface check.
var _ storage.ScanStore = (*ScanStore)(nil)

// EnsureGuild inserts the guild if it does not exist.
func (s *ScanStore) EnsureGuild(_ context.Context, g domain.Guild) error {
	if err := storage.ValidateGuild(g); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guilds[g.GuildID] = struct{}{}
	return nil
}

// EnsureUser inserts the user if it does not exist.
func (s *ScanStore) EnsureUser(_ context.Context, u domain.User) error {
	if err := storage.ValidateUser(u); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.UserID] = struct{}{}
	return nil
}

// EnsureToken inserts the token if it does not exist.
func (s *ScanStore) EnsureToken(_ context.Context, t domain.Token) error {
	if err := storage.ValidateToken(t); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tokens[t.TokenID]; !exists {
		s.tokens[t.TokenID] = t
	}
	return nil
}

// InsertScan records a first scan. Returns ErrDuplicateKey if (guild_id, token_id) exists.
func (s *ScanStore) InsertScan(_ context.Context, n domain.NewScan) (*domain.ScanRecord, error) {
	if err := storage.ValidateNewScan(n); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Mirror the foreign keys of the relational schema.
	if _, ok := s.guilds[n.GuildID]; !ok {
		return nil, storage.ErrInvalidInput
	}
	if _, ok := s.users[n.UserID]; !ok {
		return nil, storage.ErrInvalidInput
	}
	if _, ok := s.tokens[n.TokenID]; !ok {
		return nil, storage.ErrInvalidInput
	}

	key := scanKey{guildID: n.GuildID, tokenID: n.TokenID}
	if _, exists := s.scans[key]; exists {
		return nil, storage.ErrDuplicateKey
	}

	s.nextID++
	rec := &domain.ScanRecord{
		ID:        s.nextID,
		GuildID:   n.GuildID,
		UserID:    n.UserID,
		TokenID:   n.TokenID,
		FDV:       n.FDV,
		ScannedAt: s.now(),
	}
	s.scans[key] = rec

	recCopy := *rec
	return &recCopy, nil
}

// GetScans retrieves scans for (token_id, guild_id). The map key admits at most one.
func (s *ScanStore) GetScans(_ context.Context, tokenID string, guildID uint64) ([]*domain.ScanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ScanRecord
	if rec, ok := s.scans[scanKey{guildID: guildID, tokenID: tokenID}]; ok {
		recCopy := *rec
		result = append(result, &recCopy)
	}
	return result, nil
}

// CountScans returns the total number of recorded scans.
func (s *ScanStore) CountScans(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.scans)), nil
}

// token returns a stored token. Returns ErrNotFound if not exists.
func (s *ScanStore) token(tokenID string) (*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tokens[tokenID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &t, nil
}
