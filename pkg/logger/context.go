package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// With attaches a child logger carrying the given fields to the context.
// Fields accumulate across nested calls.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, From(ctx).With(fields...))
}

// From returns the logger carried by the context, or the process-wide
// logger when none was attached.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
