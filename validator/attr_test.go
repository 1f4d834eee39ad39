package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	Label  string
	hidden string //nolint:unused
}

func (w *widget) Render() string { return w.Label }

func TestLookupAttr(t *testing.T) {
	t.Parallel()

	t.Run("struct field", func(t *testing.T) {
		t.Parallel()

		val, ok := lookupAttr(widget{Label: "w"}, "Label")
		require.True(t, ok)
		assert.Equal(t, "w", val)
	})

	t.Run("field through pointer", func(t *testing.T) {
		t.Parallel()

		val, ok := lookupAttr(&widget{Label: "w"}, "Label")
		require.True(t, ok)
		assert.Equal(t, "w", val)
	})

	t.Run("case-insensitive field match", func(t *testing.T) {
		t.Parallel()

		_, ok := lookupAttr(widget{Label: "w"}, "label")
		assert.True(t, ok)
	})

	t.Run("unexported field is unreachable", func(t *testing.T) {
		t.Parallel()

		_, ok := lookupAttr(widget{}, "hidden")
		assert.False(t, ok)
	})

	t.Run("method by name", func(t *testing.T) {
		t.Parallel()

		val, ok := lookupAttr(&widget{Label: "w"}, "Render")
		require.True(t, ok)
		assert.True(t, isFunction(val))
	})

	t.Run("case-insensitive method match", func(t *testing.T) {
		t.Parallel()

		_, ok := lookupAttr(&widget{}, "render")
		assert.True(t, ok)
	})

	t.Run("map key", func(t *testing.T) {
		t.Parallel()

		val, ok := lookupAttr(map[string]int{"count": 3}, "count")
		require.True(t, ok)
		assert.Equal(t, 3, val)
	})

	t.Run("nil pointer candidate", func(t *testing.T) {
		t.Parallel()

		var w *widget

		_, ok := lookupAttr(w, "Label")
		assert.False(t, ok)
	})

	t.Run("absent attribute", func(t *testing.T) {
		t.Parallel()

		assert.False(t, hasAttr(widget{}, "Missing"))
	})
}

func TestTypeName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "widget", typeName(widget{}))
	assert.Equal(t, "widget", typeName(&widget{}))
	assert.Equal(t, "<nil>", typeName(nil))
	assert.Equal(t, "map[string]int", typeName(map[string]int{}))
}
