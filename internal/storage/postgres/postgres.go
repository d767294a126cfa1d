package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"solana-scan-bot/internal/observability"
	"solana-scan-bot/internal/storage"
)

// Pool wraps pgxpool.Pool for dependency injection.
type Pool struct {
	*pgxpool.Pool
}

// NewPool creates a new Postgres connection pool.
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// Close closes the connection pool.
func (p *Pool) Close() {
	p.Pool.Close()
}

// PostgreSQL error codes
const (
	pgErrUniqueViolation = "23505" // unique_violation
)

// isDuplicateKeyError checks if error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrUniqueViolation
	}
	return false
}

// isNotFoundError checks if error indicates no rows found.
func isNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// bigint converts a snowflake id to the signed BIGINT column type.
func bigint(id uint64) (int64, error) {
	if id > math.MaxInt64 {
		return 0, fmt.Errorf("%w: id %d overflows bigint", storage.ErrInvalidInput, id)
	}
	return int64(id), nil
}

// observe records query latency and failure for operation.
// Expected outcomes (duplicate key, no rows) are not counted as errors.
func observe(operation string, start time.Time, err error) {
	if isDuplicateKeyError(err) || isNotFoundError(err) || errors.Is(err, storage.ErrDuplicateKey) {
		err = nil
	}
	observability.RecordDBQuery(operation, time.Since(start).Seconds(), err)
}
