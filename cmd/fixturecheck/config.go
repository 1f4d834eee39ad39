package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/topiaruss/fixturecheck/logger"
	"gopkg.in/yaml.v3"
)

const configFile = ".fixturecheck.yaml"

// fileConfig is the optional per-project configuration. Flags override it.
type fileConfig struct {
	Path    string `yaml:"path"`
	Pattern string `yaml:"pattern"`
}

// loadConfig reads .fixturecheck.yaml from the working directory. A missing
// file is not an error; a malformed one is logged and ignored.
func loadConfig() fileConfig {
	var cfg fileConfig

	data, err := os.ReadFile(configFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Get().Warn("cannot read config file", "file", configFile, "error", err)
		}

		return cfg
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Get().Warn("ignoring malformed config file", "file", configFile, "error", err)

		return fileConfig{}
	}

	return cfg
}

// resolveOptions merges flags, config file, and defaults, in that order.
func resolveOptions() (path, pattern string) {
	cfg := loadConfig()

	path = firstNonEmpty(flagPath, cfg.Path, defaultPath)
	pattern = firstNonEmpty(flagPattern, cfg.Pattern, defaultPattern)

	return path, pattern
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
