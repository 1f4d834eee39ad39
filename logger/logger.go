// Package logger configures log/slog for the module and carries loggers
// through context.Context. Validators and the collection driver never log
// directly to the default logger; they ask Get(ctx) so callers (and tests)
// can substitute their own handler.
package logger

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"

	"github.com/topiaruss/fixturecheck/contexts"
)

// configMutex protects concurrent calls to ConfigureLoggingWithOptions.
// This is necessary because the function modifies global state (slog.SetDefault and log.Default).
var configMutex sync.Mutex //nolint:gochecknoglobals

// It's considered good practice to use unexported custom types for context keys.
// This avoids collisions with other packages that might be using the same string
// values for their own keys.
type contextKey string

const loggerKey contextKey = "logger"

// Options is used to configure logging.
type Options struct {
	JSON     bool
	MinLevel slog.Level
	Output   io.Writer
}

// ConfigureLoggingWithOptions configures logging for the application and
// returns the default logger. This function is thread-safe but modifies
// global state, so concurrent calls will be serialized.
func ConfigureLoggingWithOptions(opts Options) *slog.Logger {
	configMutex.Lock()
	defer configMutex.Unlock()

	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	var handler slog.Handler

	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, &slog.HandlerOptions{
			Level: opts.MinLevel,
		})
	} else {
		handler = slog.NewTextHandler(opts.Output, &slog.HandlerOptions{
			Level: opts.MinLevel,
		})
	}

	logger := slog.New(handler)

	slog.SetDefault(logger)

	// Set up the legacy logger too, third party packages might use it.
	def := log.Default()
	*def = *slog.NewLogLogger(handler, slog.LevelInfo)

	return logger
}

// WithLogger stores a logger in the context. Code below the caller that uses
// Get(ctx) will log through it.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return contexts.WithValue(ctx, loggerKey, logger)
}

// Get returns the logger carried by the first non-nil context, falling back
// to the process default. It never returns nil.
func Get(ctx ...context.Context) *slog.Logger {
	for _, c := range ctx {
		if c == nil {
			continue
		}

		if logger, ok := contexts.GetValue[contextKey, *slog.Logger](c, loggerKey); ok && logger != nil {
			return logger
		}
	}

	return slog.Default()
}
