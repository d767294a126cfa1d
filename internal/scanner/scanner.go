// Package scanner is the core entry point of the bot.
// Flow: aggregate providers → record first scan → render reply
package scanner

import (
	"context"
	"errors"
	"time"

	"solana-scan-bot/internal/domain"
	"solana-scan-bot/internal/observability"
	"solana-scan-bot/internal/presenter"
)

// Failure stages reported in metrics.
const (
	StageAggregate = "aggregate"
	StageLedger    = "ledger"
)

// Aggregator builds a TokenView for an identifier.
type Aggregator interface {
	Aggregate(ctx context.Context, id domain.TokenIdentifier) (*domain.TokenView, error)
}

// Ledger records the first scan per (token, guild).
type Ledger interface {
	RecordOrFetch(ctx context.Context, view *domain.TokenView, guildID, userID uint64) (domain.ScanOutcome, error)
}

// Request is one inbound scan.
type Request struct {
	Identifier domain.TokenIdentifier
	GuildID    uint64
	UserID     uint64
	Author     presenter.Author
}

// Error reports which stage of a scan failed.
type Error struct {
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return "scan " + e.Stage + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Service coordinates a scan.
type Service struct {
	aggregator Aggregator
	ledger     Ledger
	presenter  *presenter.Presenter
}

// Options for creating Service.
type Options struct {
	Aggregator Aggregator
	Ledger     Ledger
	Presenter  *presenter.Presenter
}

// New creates a new Service.
func New(opts Options) *Service {
	p := opts.Presenter
	if p == nil {
		p = presenter.New(nil)
	}
	return &Service{
		aggregator: opts.Aggregator,
		ledger:     opts.Ledger,
		presenter:  p,
	}
}

// Scan aggregates the token, records the scan and renders the reply.
// Nothing is written when aggregation fails.
func (s *Service) Scan(ctx context.Context, req Request) (presenter.Message, error) {
	start := time.Now()
	logger := observability.Logger(ctx).With().
		Str("identifier", req.Identifier.String()).
		Uint64("guild_id", req.GuildID).
		Uint64("user_id", req.UserID).
		Logger()
	ctx = logger.WithContext(ctx)

	view, err := s.aggregator.Aggregate(ctx, req.Identifier)
	if err != nil {
		observability.RecordScanFailure(StageAggregate)
		return presenter.Message{}, &Error{Stage: StageAggregate, Err: err}
	}

	outcome, err := s.ledger.RecordOrFetch(ctx, view, req.GuildID, req.UserID)
	if err != nil {
		observability.RecordScanFailure(StageLedger)
		return presenter.Message{}, &Error{Stage: StageLedger, Err: err}
	}

	msg := s.presenter.Render(ctx, view, outcome, req.Author)

	elapsed := time.Since(start)
	observability.RecordScan(string(outcome.Kind), elapsed.Seconds())
	logger.Info().
		Str("token", view.Mint).
		Str("outcome", string(outcome.Kind)).
		Dur("elapsed", elapsed).
		Msg("scan complete")

	return msg, nil
}

// Preview aggregates and renders a token without touching the ledger.
func (s *Service) Preview(ctx context.Context, id domain.TokenIdentifier) (presenter.Message, error) {
	view, err := s.aggregator.Aggregate(ctx, id)
	if err != nil {
		return presenter.Message{}, &Error{Stage: StageAggregate, Err: err}
	}
	return presenter.RenderView(view, time.Now()), nil
}

// IsStage reports whether err is a scan failure at stage.
func IsStage(err error, stage string) bool {
	var se *Error
	return errors.As(err, &se) && se.Stage == stage
}
