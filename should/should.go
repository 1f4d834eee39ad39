// Package should holds cleanup helpers for operations that ought to succeed
// but occasionally fail. They log instead of returning errors, which keeps
// defer statements tidy.
package should

import (
	"io"
	"os"

	"github.com/topiaruss/fixturecheck/logger"
)

// Close closes the closer and logs a warning on failure. Meant for defers.
func Close(closer io.Closer, msg string) {
	if err := closer.Close(); err != nil {
		logger.Get().Warn(msg, "error", err)
	}
}

// Remove removes the named file and logs a warning on failure.
func Remove(path string, msg string) {
	if err := os.Remove(path); err != nil {
		logger.Get().Warn(msg, "error", err, "path", path)
	}
}
