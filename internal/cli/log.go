// Package cli implements the glyphpack command-line interface. The CLI is
// built with cobra and logs through charmbracelet/log; loggers travel on the
// command context so subcommands share one configured instance.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w, filtering at the given level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger attached by withLogger, or a
// default stderr logger when none is present.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return newLogger(os.Stderr, log.InfoLevel)
}
