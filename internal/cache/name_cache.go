// Package cache keeps resolved Discord display names in redis so repeated
// AlreadyScanned replies do not hit the Discord API each time.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"solana-scan-bot/internal/observability"
	"solana-scan-bot/internal/presenter"
)

const (
	// KeyPrefix is prepended to the user id.
	KeyPrefix = "scanbot:user:name:"
	// DefaultTTL applies when NewNameCache gets a non-positive ttl.
	DefaultTTL = time.Hour
)

// NameCache is a read-through redis cache in front of a NameResolver.
// Redis failures degrade to calling the resolver directly.
type NameCache struct {
	client redis.Cmdable
	next   presenter.NameResolver
	ttl    time.Duration
}

// NewNameCache wraps next with a redis cache.
func NewNameCache(client redis.Cmdable, next presenter.NameResolver, ttl time.Duration) *NameCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &NameCache{client: client, next: next, ttl: ttl}
}

// NewRedisClient connects to redis and pings it.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return rdb, nil
}

// Key returns the redis key for a user id.
func Key(userID uint64) string {
	return KeyPrefix + strconv.FormatUint(userID, 10)
}

// DisplayName returns the cached name or resolves and caches it.
func (c *NameCache) DisplayName(ctx context.Context, userID uint64) (string, error) {
	logger := observability.Logger(ctx)
	key := Key(userID)

	name, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil && name != "":
		observability.RecordNameCache("hit")
		return name, nil
	case err == nil, errors.Is(err, redis.Nil):
		observability.RecordNameCache("miss")
	default:
		observability.RecordNameCache("error")
		logger.Warn().Err(err).Str("key", key).Msg("name cache get failed")
	}

	name, err = c.next.DisplayName(ctx, userID)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", nil
	}

	if err := c.client.Set(ctx, key, name, c.ttl).Err(); err != nil {
		observability.RecordNameCache("error")
		logger.Warn().Err(err).Str("key", key).Msg("name cache set failed")
	}
	return name, nil
}
