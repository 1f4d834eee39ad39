package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLoggingWithOptions_Text(t *testing.T) {
	var buf bytes.Buffer

	logger := ConfigureLoggingWithOptions(Options{
		MinLevel: slog.LevelInfo,
		Output:   &buf,
	})
	require.NotNil(t, logger)

	logger.Info("hello", "key", "value")

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "key=value")
}

func TestConfigureLoggingWithOptions_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := ConfigureLoggingWithOptions(Options{
		JSON:     true,
		MinLevel: slog.LevelDebug,
		Output:   &buf,
	})

	logger.Debug("structured")

	assert.True(t, strings.HasPrefix(buf.String(), "{"))
	assert.Contains(t, buf.String(), `"msg":"structured"`)
}

func TestGet_PrefersContextLogger(t *testing.T) {
	t.Parallel()

	testLogger := slogt.New(t)
	ctx := WithLogger(t.Context(), testLogger)

	assert.Same(t, testLogger, Get(ctx))
}

func TestGet_FallsBackToDefault(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, Get(t.Context()))
	assert.NotNil(t, Get(nil, t.Context()))

	var nilCtx context.Context

	assert.NotNil(t, Get(nilCtx))
}
