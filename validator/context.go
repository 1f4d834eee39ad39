package validator

import (
	"context"

	"github.com/topiaruss/fixturecheck/contexts"
	"github.com/topiaruss/fixturecheck/logger"
)

// contextKey is a custom type for context keys used within this package,
// preventing collisions with keys from other packages.
type contextKey string

// warnSinkKey carries the destination for non-strict validation warnings.
// Property validators configured with Strict(false) report mismatches as
// warnings instead of failures; the sink decides where those warnings land.
// The collection driver installs a sink that records them on the run's
// report. Without a sink, warnings go to the context logger.
const warnSinkKey contextKey = "warnSink"

// WarnFunc receives one warning message.
type WarnFunc func(msg string)

// WithWarnSink returns a context whose validation warnings are delivered to
// fn instead of the logger.
func WithWarnSink(ctx context.Context, fn WarnFunc) context.Context {
	return contexts.WithValue(ctx, warnSinkKey, fn)
}

// Warn delivers a validation warning to the context's sink, or to the
// context logger when no sink is installed.
func Warn(ctx context.Context, msg string) {
	if sink, ok := contexts.GetValue[contextKey, WarnFunc](ctx, warnSinkKey); ok && sink != nil {
		sink(msg)

		return
	}

	logger.Get(ctx).Warn("fixture validation warning", "warning", msg)
}
