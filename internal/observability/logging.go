package observability

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// WithRequestID attaches a sub-logger carrying a fresh request id to ctx.
func WithRequestID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	l := Logger(ctx).With().Str("request_id", id).Logger()
	return l.WithContext(ctx), id
}

// Logger returns the request-scoped logger from ctx, or the global logger.
func Logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &log.Logger
	}
	return l
}
