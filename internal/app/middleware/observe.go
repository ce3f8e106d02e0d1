package middleware

import (
	"context"
	"log/slog"
	"time"

	"villafinder/internal/app/commands"
	"villafinder/internal/app/queries"
)

// MessageObserver records the outcome of every bus message.
type MessageObserver interface {
	ObserveMessage(kind, key string, elapsed time.Duration, err error)
}

// QueryLogging logs failed queries and reports timings to observer.
func QueryLogging(logger *slog.Logger, observer MessageObserver) QueryMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next queries.Bus) queries.Bus {
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := nextFn(ctx, q)
			elapsed := time.Since(start)
			if observer != nil {
				observer.ObserveMessage("query", q.Key(), elapsed, err)
			}
			if err != nil {
				logger.DebugContext(ctx, "query failed", "query", q.Key(), "duration", elapsed, "error", err)
			}
			return res, err
		})
	}
}

// CommandLogging is QueryLogging for the command bus.
func CommandLogging(logger *slog.Logger, observer MessageObserver) CommandMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			start := time.Now()
			res, err := nextFn(ctx, cmd)
			elapsed := time.Since(start)
			if observer != nil {
				observer.ObserveMessage("command", cmd.Key(), elapsed, err)
			}
			if err != nil {
				logger.WarnContext(ctx, "command failed", "command", cmd.Key(), "duration", elapsed, "error", err)
			}
			return res, err
		})
	}
}
