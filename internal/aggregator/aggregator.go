// Package aggregator fans a token lookup out to every configured provider,
// waits for all of them and merges their partials into one TokenView.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"solana-scan-bot/internal/domain"
	"solana-scan-bot/internal/observability"
	"solana-scan-bot/internal/providers"
)

// Role decides how a provider failure affects the scan.
type Role int

const (
	// Mandatory providers abort the scan on failure.
	Mandatory Role = iota
	// Optional providers degrade to an empty partial on failure.
	Optional
)

func (r Role) String() string {
	if r == Optional {
		return "optional"
	}
	return "mandatory"
}

// Source is a provider with its role. The order of sources given to New is
// the merge priority: earlier sources win conflicting fields.
type Source struct {
	Provider providers.Provider
	Role     Role
}

// ErrNoResolver is returned for a symbol identifier when no resolver is configured.
var ErrNoResolver = errors.New("symbol lookup not configured")

// Aggregator merges provider partials into a TokenView.
type Aggregator struct {
	resolver providers.SymbolResolver
	sources  []Source
}

// New creates an Aggregator. resolver may be nil when symbol identifiers are not supported.
func New(resolver providers.SymbolResolver, sources ...Source) *Aggregator {
	return &Aggregator{resolver: resolver, sources: sources}
}

type result struct {
	partial *domain.PartialTokenData
	err     error
	elapsed time.Duration
}

// Aggregate resolves id to a mint, calls every provider concurrently and merges
// the results. All calls complete before the outcome is decided.
func (a *Aggregator) Aggregate(ctx context.Context, id domain.TokenIdentifier) (*domain.TokenView, error) {
	logger := observability.Logger(ctx)

	mint, err := a.resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	results := make([]result, len(a.sources))
	var g errgroup.Group
	for i, src := range a.sources {
		g.Go(func() error {
			start := time.Now()
			p, err := src.Provider.Fetch(ctx, mint)
			results[i] = result{partial: p, err: err, elapsed: time.Since(start)}
			return nil
		})
	}
	_ = g.Wait()

	partials := make([]*domain.PartialTokenData, 0, len(a.sources))
	for i, src := range a.sources {
		r := results[i]
		name := src.Provider.Name()
		capability := string(src.Provider.Capability())
		if r.err == nil {
			logger.Debug().Str("provider", name).Str("capability", capability).Dur("elapsed", r.elapsed).Msg("provider ok")
			partials = append(partials, r.partial)
			continue
		}

		ev := logger.Warn()
		if src.Role == Mandatory {
			ev = logger.Error()
		}
		ev = ev.Err(r.err).Str("provider", name).Str("capability", capability).Str("role", src.Role.String()).Str("token", mint)
		var perr *providers.Error
		if errors.As(r.err, &perr) {
			ev = ev.Str("kind", perr.Kind.String()).Int("status", perr.StatusCode)
		}
		ev.Msg("provider failed")

		if src.Role == Mandatory {
			return nil, fmt.Errorf("%s: %w", name, r.err)
		}
		observability.RecordOptionalDegraded(name)
	}

	return Merge(partials)
}

func (a *Aggregator) resolve(ctx context.Context, id domain.TokenIdentifier) (string, error) {
	if !id.IsSymbol() {
		return id.Value, nil
	}
	if a.resolver == nil {
		return "", ErrNoResolver
	}
	mint, err := a.resolver.ResolveSymbol(ctx, id.Symbol())
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", id.Value, err)
	}
	return mint, nil
}
