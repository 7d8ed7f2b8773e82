package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

type requestLoggerContextKey struct{}

// New creates the JSON logger used throughout the service. Records below level are dropped.
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(NewTracingLogHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
}

var fallbackLogger = sync.OnceValue(func() *slog.Logger {
	return New(os.Stdout, slog.LevelInfo).With(slog.String("logger", "fallback"))
})

// FromContext returns the logger stored in ctx, or a fallback logger if there is none
func FromContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(requestLoggerContextKey{}).(*slog.Logger)
	if !ok || logger == nil {
		return fallbackLogger()
	}
	return logger
}

func AddToContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, requestLoggerContextKey{}, logger)
}

// AddMetaToContext stores a logger with attrs added in the returned context
func AddMetaToContext(ctx context.Context, attrs ...slog.Attr) context.Context {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}

	return AddToContext(ctx, FromContext(ctx).With(args...))
}
