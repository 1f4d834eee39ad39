package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errs "github.com/topiaruss/fixturecheck/errors"
)

type config struct {
	Resolution string
	FrameRate  int
}

type camera struct {
	Name   string
	Config *config
}

func TestNestedProperties(t *testing.T) {
	t.Parallel()

	cam := &camera{
		Name:   "Test",
		Config: &config{Resolution: "720p", FrameRate: 30},
	}

	t.Run("nested path matches", func(t *testing.T) {
		t.Parallel()

		v := NestedProperties(map[string]any{
			"name":               "Test",
			"config__resolution": "720p",
			"config__frame_rate": 30,
		})

		// frame_rate does not match FrameRate even case-insensitively.
		err := v(t.Context(), cam, false)
		require.ErrorIs(t, err, errs.ErrMissingField)

		v = NestedProperties(map[string]any{
			"name":               "Test",
			"config__resolution": "720p",
			"config__framerate":  30,
		})
		require.NoError(t, v(t.Context(), cam, false))
	})

	t.Run("value mismatch names the full path", func(t *testing.T) {
		t.Parallel()

		v := NestedProperties(map[string]any{"config__resolution": "1080p"})

		err := v(t.Context(), cam, false)
		require.ErrorIs(t, err, errs.ErrInvalidValue)
		assert.Contains(t, err.Error(), "config__resolution=1080p")
		assert.Contains(t, err.Error(), "720p")
	})

	t.Run("absent parent names the first unreachable segment", func(t *testing.T) {
		t.Parallel()

		v := NestedProperties(map[string]any{"settings__resolution": "720p"})

		err := v(t.Context(), cam, false)
		require.ErrorIs(t, err, errs.ErrMissingField)
		assert.Contains(t, err.Error(), `"settings"`)
	})

	t.Run("missing leaf names the path walked so far", func(t *testing.T) {
		t.Parallel()

		v := NestedProperties(map[string]any{"config__iso": 400})

		err := v(t.Context(), cam, false)
		require.ErrorIs(t, err, errs.ErrMissingField)
		assert.Contains(t, err.Error(), `"iso"`)
		assert.Contains(t, err.Error(), `"config"`)
	})

	t.Run("map-backed nesting", func(t *testing.T) {
		t.Parallel()

		candidate := map[string]any{
			"config": map[string]any{"resolution": "720p"},
		}

		v := NestedProperties(map[string]any{"config__resolution": "720p"})
		require.NoError(t, v(t.Context(), candidate, false))

		v = NestedProperties(map[string]any{"config__resolution": "1080p"})
		require.ErrorIs(t, v(t.Context(), candidate, false), errs.ErrInvalidValue)
	})

	t.Run("strict false warns on absent parent", func(t *testing.T) {
		t.Parallel()

		var warnings []string

		ctx := WithWarnSink(t.Context(), func(msg string) {
			warnings = append(warnings, msg)
		})

		v := NestedProperties(map[string]any{"settings__resolution": "720p"}, Strict(false))

		require.NoError(t, v(ctx, cam, false))
		require.Len(t, warnings, 1)
	})
}

func TestTypeCheckProperties(t *testing.T) {
	t.Parallel()

	t.Run("value and type checks together", func(t *testing.T) {
		t.Parallel()

		v := TypeCheckProperties(map[string]any{
			"Name":         "Test",
			"Name__type":   Type[string](),
			"Config__type": Type[*config](),
		})

		cam := &camera{Name: "Test", Config: &config{}}
		require.NoError(t, v(t.Context(), cam, false))
	})

	t.Run("wrong dynamic type", func(t *testing.T) {
		t.Parallel()

		v := TypeCheckProperties(map[string]any{"Name__type": Type[int]()})

		err := v(t.Context(), &camera{Name: "Test"}, false)
		require.ErrorIs(t, err, errs.ErrWrongType)
		assert.Contains(t, err.Error(), "int")
		assert.Contains(t, err.Error(), "string")
	})

	t.Run("nullable accepts nil", func(t *testing.T) {
		t.Parallel()

		v := TypeCheckProperties(map[string]any{"Config__type": NullableType[*config]()})
		require.NoError(t, v(t.Context(), &camera{}, false))

		v = TypeCheckProperties(map[string]any{"Config__type": Type[*config]()})
		require.ErrorIs(t, v(t.Context(), &camera{}, false), errs.ErrWrongType)
	})

	t.Run("bad type expectation fails on invocation", func(t *testing.T) {
		t.Parallel()

		v := TypeCheckProperties(map[string]any{"Name__type": "string"})
		require.ErrorIs(t, v(t.Context(), &camera{}, false), errs.ErrWrongType)
	})

	t.Run("aggregates value and type failures", func(t *testing.T) {
		t.Parallel()

		v := TypeCheckProperties(map[string]any{
			"Name":       "Expected",
			"Name__type": Type[int](),
		})

		err := v(t.Context(), &camera{Name: "Actual"}, false)
		require.ErrorIs(t, err, errs.ErrInvalidValue)
		require.ErrorIs(t, err, errs.ErrWrongType)
	})
}
