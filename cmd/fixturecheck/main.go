package main

import (
	"log/slog"
	"os"

	"github.com/topiaruss/fixturecheck/logger"
)

func main() {
	logger.ConfigureLoggingWithOptions(logger.Options{
		MinLevel: slog.LevelWarn,
		Output:   os.Stderr,
	})

	Execute()
}
