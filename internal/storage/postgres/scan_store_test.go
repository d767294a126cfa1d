package postgres_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-scan-bot/internal/domain"
	"solana-scan-bot/internal/storage"
	"solana-scan-bot/internal/storage/migrations"
	"solana-scan-bot/internal/storage/postgres"
	"solana-scan-bot/internal/storage/postgres/pgtest"
)

const testMint = "So11111111111111111111111111111111111111112"

func seedScanRefs(t *testing.T, store *postgres.ScanStore, guildID uint64, userIDs ...uint64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.EnsureGuild(ctx, domain.Guild{GuildID: guildID}))
	for _, id := range userIDs {
		require.NoError(t, store.EnsureUser(ctx, domain.User{UserID: id}))
	}
	require.NoError(t, store.EnsureToken(ctx, domain.Token{TokenID: testMint, Name: "Wrapped SOL", Symbol: "SOL"}))
}

func TestScanStore(t *testing.T) {
	pool := pgtest.NewPool(t)

	ctx := context.Background()

	t.Run("ensure is idempotent", func(t *testing.T) {
		store := postgres.NewScanStore(pool)
		for i := 0; i < 2; i++ {
			require.NoError(t, store.EnsureGuild(ctx, domain.Guild{GuildID: 1}))
			require.NoError(t, store.EnsureUser(ctx, domain.User{UserID: 1}))
			require.NoError(t, store.EnsureToken(ctx, domain.Token{TokenID: testMint, Name: "n", Symbol: "S"}))
		}
	})

	t.Run("insert and get", func(t *testing.T) {
		store := postgres.NewScanStore(pool)
		seedScanRefs(t, store, 100, 200)

		rec, err := store.InsertScan(ctx, domain.NewScan{GuildID: 100, UserID: 200, TokenID: testMint, FDV: 4321.5})
		require.NoError(t, err)
		assert.Positive(t, rec.ID)
		assert.Equal(t, uint64(100), rec.GuildID)
		assert.Equal(t, uint64(200), rec.UserID)
		assert.Equal(t, 4321.5, rec.FDV)
		assert.False(t, rec.ScannedAt.IsZero())

		scans, err := store.GetScans(ctx, testMint, 100)
		require.NoError(t, err)
		require.Len(t, scans, 1)
		assert.Equal(t, rec.ID, scans[0].ID)
		assert.True(t, rec.ScannedAt.Equal(scans[0].ScannedAt))
	})

	t.Run("duplicate key", func(t *testing.T) {
		store := postgres.NewScanStore(pool)
		seedScanRefs(t, store, 101, 201, 202)

		_, err := store.InsertScan(ctx, domain.NewScan{GuildID: 101, UserID: 201, TokenID: testMint, FDV: 1})
		require.NoError(t, err)

		_, err = store.InsertScan(ctx, domain.NewScan{GuildID: 101, UserID: 202, TokenID: testMint, FDV: 2})
		assert.ErrorIs(t, err, storage.ErrDuplicateKey)

		scans, err := store.GetScans(ctx, testMint, 101)
		require.NoError(t, err)
		require.Len(t, scans, 1)
		assert.Equal(t, uint64(201), scans[0].UserID)
	})

	t.Run("same token other guild", func(t *testing.T) {
		store := postgres.NewScanStore(pool)
		seedScanRefs(t, store, 102, 203)
		seedScanRefs(t, store, 103, 203)

		_, err := store.InsertScan(ctx, domain.NewScan{GuildID: 102, UserID: 203, TokenID: testMint, FDV: 1})
		require.NoError(t, err)
		_, err = store.InsertScan(ctx, domain.NewScan{GuildID: 103, UserID: 203, TokenID: testMint, FDV: 1})
		require.NoError(t, err)
	})

	t.Run("missing references", func(t *testing.T) {
		store := postgres.NewScanStore(pool)

		_, err := store.InsertScan(ctx, domain.NewScan{GuildID: 999, UserID: 999, TokenID: testMint, FDV: 1})
		require.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrDuplicateKey)
	})

	t.Run("concurrent inserts single winner", func(t *testing.T) {
		store := postgres.NewScanStore(pool)
		seedScanRefs(t, store, 104, 300, 301, 302, 303, 304, 305, 306, 307)

		const n = 8
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
			dups int
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(userID uint64) {
				defer wg.Done()
				_, err := store.InsertScan(ctx, domain.NewScan{GuildID: 104, UserID: userID, TokenID: testMint, FDV: 1})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					wins++
				case assert.ErrorIs(t, err, storage.ErrDuplicateKey):
					dups++
				}
			}(uint64(300 + i))
		}
		wg.Wait()

		assert.Equal(t, 1, wins)
		assert.Equal(t, n-1, dups)
	})

	t.Run("count and schema version", func(t *testing.T) {
		store := postgres.NewScanStore(pool)

		count, err := store.CountScans(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, count, int64(4))

		v, err := migrations.PostgresVersion(ctx, pool.Pool)
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)

		require.NoError(t, migrations.RunPostgresMigrations(ctx, pool.Pool), "re-running migrations is a no-op")
	})
}
