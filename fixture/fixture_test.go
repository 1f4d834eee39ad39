package fixture

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errs "github.com/topiaruss/fixturecheck/errors"
)

func constant(value any) Func {
	return func(context.Context, *Request) (any, error) {
		return value, nil
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("lookup by name", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		def := reg.Register("answer", constant(42))

		found, ok := reg.Lookup("answer")
		require.True(t, ok)
		assert.Same(t, def, found)

		_, ok = reg.Lookup("question")
		assert.False(t, ok)
	})

	t.Run("registration order preserved", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		reg.Register("first", constant(1))
		reg.Register("second", constant(2))
		reg.Register("third", constant(3))

		var names []string
		for _, def := range reg.Definitions() {
			names = append(names, def.Name())
		}

		assert.Equal(t, []string{"first", "second", "third"}, names)
	})

	t.Run("re-registration shadows in place", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		reg.Register("value", constant("old"))
		reg.Register("other", constant("other"))
		replacement := reg.Register("value", constant("new"))

		found, ok := reg.Lookup("value")
		require.True(t, ok)
		assert.Same(t, replacement, found)

		require.Len(t, reg.Definitions(), 2)
		assert.Same(t, replacement, reg.Definitions()[0])
	})

	t.Run("registration site is captured", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		def := reg.Register("here", constant(nil))

		assert.Contains(t, def.Location(), "fixture_test.go")
	})
}

func TestRegistrationOptions(t *testing.T) {
	t.Parallel()

	t.Run("plain registration is unchecked", func(t *testing.T) {
		t.Parallel()

		def := NewRegistry().Register("plain", constant(1))

		assert.False(t, def.Checked())
		assert.Nil(t, def.validate)
	})

	t.Run("check composes the default validator", func(t *testing.T) {
		t.Parallel()

		def := NewRegistry().Register("checked", constant(1), Check())

		require.True(t, def.Checked())
		require.NotNil(t, def.validate)

		// Default validator rejects nil values at execution.
		require.NoError(t, def.validate(t.Context(), 1, false))
		require.ErrorIs(t, def.validate(t.Context(), nil, false), errs.ErrInvalidValue)
	})

	t.Run("validators compose once at registration", func(t *testing.T) {
		t.Parallel()

		calls := 0
		probe := func(any) error {
			calls++

			return nil
		}

		def := NewRegistry().Register("probed", constant(1), WithValidator(probe, probe))

		require.True(t, def.Checked())
		require.NoError(t, def.validate(t.Context(), 1, false))
		assert.Equal(t, 2, calls)
	})

	t.Run("expect validation error implies checked", func(t *testing.T) {
		t.Parallel()

		def := NewRegistry().Register("inverted", constant(1), ExpectValidationError())

		assert.True(t, def.Checked())
		assert.True(t, def.expectError)
		require.NotNil(t, def.validate)
	})

	t.Run("property values shorthand", func(t *testing.T) {
		t.Parallel()

		def := NewRegistry().Register("paired", constant(nil),
			WithPropertyValues("Label", "expected"))

		type widget struct{ Label string }

		require.NoError(t, def.validate(t.Context(), widget{Label: "expected"}, false))
		require.ErrorIs(t,
			def.validate(t.Context(), widget{Label: "actual"}, false),
			errs.ErrInvalidValue)
	})
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unchecked", Unchecked.String())
	assert.Equal(t, "collection-validated", CollectionValidated.String())
	assert.Equal(t, "execution-validated", ExecutionValidated.String())
	assert.Equal(t, "collection-skipped", CollectionSkipped.String())
	assert.Equal(t, "failed", Failed.String())
}
