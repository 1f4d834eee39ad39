// Package tests provides context helpers for this module's own test suites:
// uniquely tagged contexts for correlating fixture runs, and per-test slog
// loggers that route through t.Log.
package tests

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/neilotoole/slogt"
	"github.com/topiaruss/fixturecheck/contexts"
	"github.com/topiaruss/fixturecheck/logger"
)

// contextKey is a private type used for storing test metadata in context.Context.
type contextKey string

const (
	testIdKey   contextKey = "testId"
	testNameKey contextKey = "testName"
)

// Info carries the identity of the running test.
type Info struct {
	Id   string
	Name string
}

// GetUniqueContext creates a context derived from t.Context() that carries a
// unique test identifier, the test name, and a logger writing through t.Log.
// Use it as the root context in tests that exercise the collection driver, so
// validation log lines land next to the test output.
func GetUniqueContext(t *testing.T) context.Context {
	t.Helper()

	ctx := contexts.WithMultipleValues[contextKey](t.Context(), map[contextKey]any{
		testIdKey:   "test-" + uuid.New().String(),
		testNameKey: t.Name(),
	})

	return logger.WithLogger(ctx, slogt.New(t))
}

// GetTestInfo retrieves the test identity stored by GetUniqueContext.
func GetTestInfo(ctx context.Context) (Info, bool) {
	id, okId := contexts.GetValue[contextKey, string](ctx, testIdKey)
	name, okName := contexts.GetValue[contextKey, string](ctx, testNameKey)

	if !okId || !okName {
		return Info{}, false
	}

	return Info{Id: id, Name: name}, true
}
