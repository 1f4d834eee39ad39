package validator

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errs "github.com/topiaruss/fixturecheck/errors"
)

type author struct {
	Name string
}

type book struct {
	Title  string
	Author *author
	Pages  int
}

func (b *book) Shelve() {}

type shelver interface {
	Shelve()
}

func TestInstanceOf(t *testing.T) {
	t.Parallel()

	t.Run("matching concrete type", func(t *testing.T) {
		t.Parallel()

		v := InstanceOf[*book]()
		require.NoError(t, v(t.Context(), &book{}, false))
	})

	t.Run("matching interface", func(t *testing.T) {
		t.Parallel()

		v := InstanceOf[shelver]()
		require.NoError(t, v(t.Context(), &book{}, false))
	})

	t.Run("mismatch names expected and actual types", func(t *testing.T) {
		t.Parallel()

		v := InstanceOf[*book]()

		err := v(t.Context(), author{Name: "x"}, false)
		require.ErrorIs(t, err, errs.ErrWrongType)
		assert.Contains(t, err.Error(), "book")
		assert.Contains(t, err.Error(), "author")
	})

	t.Run("skips collection phase", func(t *testing.T) {
		t.Parallel()

		v := InstanceOf[*book]()
		require.NoError(t, v(t.Context(), func() {}, true))
	})
}

func TestOneOfTypes(t *testing.T) {
	t.Parallel()

	bookType := reflect.TypeOf(book{})
	authorType := reflect.TypeOf(author{})

	t.Run("member of the set", func(t *testing.T) {
		t.Parallel()

		v := OneOfTypes(bookType, authorType)
		require.NoError(t, v(t.Context(), author{}, false))
	})

	t.Run("pointer candidate matches pointee type", func(t *testing.T) {
		t.Parallel()

		v := OneOfTypes(bookType)
		require.NoError(t, v(t.Context(), &book{}, false))
	})

	t.Run("outside the set names the whole set", func(t *testing.T) {
		t.Parallel()

		v := OneOfTypes(bookType, authorType)

		err := v(t.Context(), 42, false)
		require.ErrorIs(t, err, errs.ErrWrongType)
		assert.Contains(t, err.Error(), "validator.book")
		assert.Contains(t, err.Error(), "validator.author")
		assert.Contains(t, err.Error(), "int")
	})
}

func TestRequiredFields(t *testing.T) {
	t.Parallel()

	t.Run("all fields present", func(t *testing.T) {
		t.Parallel()

		v := RequiredFields("Title", "Author")
		require.NoError(t, v(t.Context(), &book{Title: "x", Author: &author{}}, false))
	})

	t.Run("names the first missing field in declaration order", func(t *testing.T) {
		t.Parallel()

		v := RequiredFields("Publisher", "Isbn")

		err := v(t.Context(), &book{}, false)
		require.ErrorIs(t, err, errs.ErrMissingField)
		assert.Contains(t, err.Error(), `"Publisher"`)
		assert.NotContains(t, err.Error(), "Isbn")
	})

	t.Run("nil field is an invalid value", func(t *testing.T) {
		t.Parallel()

		v := RequiredFields("Author")

		err := v(t.Context(), &book{Title: "x"}, false)
		require.ErrorIs(t, err, errs.ErrInvalidValue)
		assert.Contains(t, err.Error(), `"Author"`)
	})

	t.Run("allow empty accepts nil fields", func(t *testing.T) {
		t.Parallel()

		v := RequiredFieldsWith(FieldOptions{AllowEmpty: true}, "Author")
		require.NoError(t, v(t.Context(), &book{}, false))
	})

	t.Run("loosely cased names reach exported fields", func(t *testing.T) {
		t.Parallel()

		v := RequiredFields("title")
		require.NoError(t, v(t.Context(), &book{Title: "x"}, false))
	})

	t.Run("map candidates", func(t *testing.T) {
		t.Parallel()

		v := RequiredFields("title")
		require.NoError(t, v(t.Context(), map[string]any{"title": "x"}, false))

		err := v(t.Context(), map[string]any{"name": "x"}, false)
		require.ErrorIs(t, err, errs.ErrMissingField)
	})
}

func TestRequiredMethods(t *testing.T) {
	t.Parallel()

	t.Run("method present and callable", func(t *testing.T) {
		t.Parallel()

		v := RequiredMethods("Shelve")
		require.NoError(t, v(t.Context(), &book{}, false))
	})

	t.Run("missing method", func(t *testing.T) {
		t.Parallel()

		v := RequiredMethods("Burn")

		err := v(t.Context(), &book{}, false)
		require.ErrorIs(t, err, errs.ErrMissingField)
		assert.Contains(t, err.Error(), `"Burn"`)
	})

	t.Run("present but not callable", func(t *testing.T) {
		t.Parallel()

		v := RequiredMethods("Title")

		err := v(t.Context(), &book{Title: "x"}, false)
		require.ErrorIs(t, err, errs.ErrWrongType)
		assert.Contains(t, err.Error(), "not callable")
	})
}

func TestPropertyValues(t *testing.T) {
	t.Parallel()

	t.Run("all values match", func(t *testing.T) {
		t.Parallel()

		v := PropertyValues(map[string]any{"Title": "Dune", "Pages": 412})
		require.NoError(t, v(t.Context(), &book{Title: "Dune", Pages: 412}, false))
	})

	t.Run("aggregates every mismatch, not just the first", func(t *testing.T) {
		t.Parallel()

		v := PropertyValues(map[string]any{"Title": "Dune", "Pages": 412})

		err := v(t.Context(), &book{Title: "Emma", Pages: 99}, false)
		require.ErrorIs(t, err, errs.ErrInvalidValue)
		assert.Contains(t, err.Error(), "Title")
		assert.Contains(t, err.Error(), "Pages")
	})

	t.Run("missing property", func(t *testing.T) {
		t.Parallel()

		v := PropertyValues(map[string]any{"Publisher": "x"})

		err := v(t.Context(), &book{}, false)
		require.ErrorIs(t, err, errs.ErrMissingField)
	})

	t.Run("strict false warns instead of failing", func(t *testing.T) {
		t.Parallel()

		var warnings []string

		ctx := WithWarnSink(t.Context(), func(msg string) {
			warnings = append(warnings, msg)
		})

		v := PropertyValues(map[string]any{"Pages": 10}, Strict(false))

		require.NoError(t, v(ctx, &book{Pages: 5}, false))
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "Pages")
	})
}

func TestEqualValues(t *testing.T) {
	t.Parallel()

	type record struct {
		Pages int
		Count int64
		Size  uint
		Grade string
		Ratio float64
	}

	t.Run("cross-width numeric widening still matches", func(t *testing.T) {
		t.Parallel()

		v := PropertyValues(map[string]any{"Count": 30, "Ratio": 2})
		require.NoError(t, v(t.Context(), record{Count: 30, Ratio: 2.0}, false))
	})

	t.Run("fractional expectation never matches a truncated int", func(t *testing.T) {
		t.Parallel()

		v := PropertyValues(map[string]any{"Pages": 10.5})

		err := v(t.Context(), record{Pages: 10}, false)
		require.ErrorIs(t, err, errs.ErrInvalidValue)
	})

	t.Run("numeric expectation never matches a string field", func(t *testing.T) {
		t.Parallel()

		v := PropertyValues(map[string]any{"Grade": 65})

		err := v(t.Context(), record{Grade: "A"}, false)
		require.ErrorIs(t, err, errs.ErrInvalidValue)
	})

	t.Run("string expectation never matches a numeric field", func(t *testing.T) {
		t.Parallel()

		v := PropertyValues(map[string]any{"Pages": "10"})
		require.ErrorIs(t, v(t.Context(), record{Pages: 10}, false), errs.ErrInvalidValue)
	})

	t.Run("negative expectation never wraps into an unsigned field", func(t *testing.T) {
		t.Parallel()

		v := PropertyValues(map[string]any{"Size": -1})
		require.ErrorIs(t, v(t.Context(), record{Size: ^uint(0)}, false), errs.ErrInvalidValue)
	})

	t.Run("overflowing expectation does not match the wrapped value", func(t *testing.T) {
		t.Parallel()

		type narrow struct {
			Flags uint8
		}

		v := PropertyValues(map[string]any{"Flags": 256})
		require.ErrorIs(t, v(t.Context(), narrow{Flags: 0}, false), errs.ErrInvalidValue)
	})
}

func TestPropertyPairs(t *testing.T) {
	t.Parallel()

	t.Run("pairs form expectations", func(t *testing.T) {
		t.Parallel()

		v := PropertyPairs("Title", "Dune", "Pages", 412)
		require.NoError(t, v(t.Context(), &book{Title: "Dune", Pages: 412}, false))
	})

	t.Run("odd pair count fails on invocation", func(t *testing.T) {
		t.Parallel()

		v := PropertyPairs("Title")
		require.ErrorIs(t, v(t.Context(), &book{}, false), errs.ErrWrongType)
	})

	t.Run("non-string name fails on invocation", func(t *testing.T) {
		t.Parallel()

		v := PropertyPairs(42, "x")
		require.ErrorIs(t, v(t.Context(), &book{}, false), errs.ErrWrongType)
	})
}
