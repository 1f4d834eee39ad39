package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBanner(t *testing.T) {
	t.Parallel()

	t.Run("boxes a single line", func(t *testing.T) {
		t.Parallel()

		out := Banner("FIXTURE VALIDATION ERRORS", 40, AlignCenter)
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 3)

		assert.True(t, strings.HasPrefix(lines[0], boxTopLeft))
		assert.Contains(t, lines[1], "FIXTURE VALIDATION ERRORS")
		assert.True(t, strings.HasPrefix(lines[2], boxBottomLeft))
	})

	t.Run("boxes each line of a multi-line string", func(t *testing.T) {
		t.Parallel()

		out := Banner("one\ntwo", 20, AlignLeft)
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 4)
		assert.Contains(t, lines[1], "one")
		assert.Contains(t, lines[2], "two")
	})

	t.Run("truncates overlong lines with ellipsis", func(t *testing.T) {
		t.Parallel()

		out := Banner(strings.Repeat("x", 100), 20, AlignLeft)
		assert.Contains(t, out, ellipsis)
	})

	t.Run("zero width produces nothing", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, Banner("text", 0, AlignLeft))
	})
}

func TestDivider(t *testing.T) {
	t.Parallel()

	out := Divider(10)
	assert.True(t, strings.HasPrefix(out, dividerLeft))
	assert.True(t, strings.HasSuffix(out, dividerRight+"\n"))
}
