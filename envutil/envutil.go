// Package envutil reads typed configuration from environment variables.
// The module recognizes a small set of variables (auto-skip, banner
// suppression, CLI defaults); each is read through a Reader so that absence,
// parse failures, and defaults are handled uniformly.
package envutil

import (
	"fmt"
	"os"
	"strconv"
)

// Reader holds the outcome of reading one environment variable: whether it
// was present, the parsed value, and any parse error.
type Reader[T any] struct {
	key     string
	present bool
	value   T
	err     error
}

// Option post-processes a Reader, e.g. to supply a default.
type Option[T any] func(Reader[T]) Reader[T]

// Default substitutes the given value when the variable is absent.
func Default[T any](value T) Option[T] {
	return func(r Reader[T]) Reader[T] {
		if !r.present && r.err == nil {
			r.value = value
		}

		return r
	}
}

// get returns a Reader for the given environment variable key.
func get(key string) Reader[string] {
	val, ok := os.LookupEnv(key)

	return Reader[string]{
		key:     key,
		present: ok,
		value:   val,
	}
}

// String returns a Reader for the given environment variable key.
func String(key string, opts ...Option[string]) Reader[string] {
	rdr := get(key)
	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

// Bool returns a Reader that parses the variable with strconv.ParseBool.
func Bool(key string, opts ...Option[bool]) Reader[bool] {
	raw := get(key)

	rdr := Reader[bool]{
		key:     key,
		present: raw.present,
	}

	if raw.present {
		parsed, err := strconv.ParseBool(raw.value)
		if err != nil {
			rdr.err = fmt.Errorf("parse %s: %w", key, err)
		} else {
			rdr.value = parsed
		}
	}

	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

// Int returns a Reader that parses the variable with strconv.Atoi.
func Int(key string, opts ...Option[int]) Reader[int] {
	raw := get(key)

	rdr := Reader[int]{
		key:     key,
		present: raw.present,
	}

	if raw.present {
		parsed, err := strconv.Atoi(raw.value)
		if err != nil {
			rdr.err = fmt.Errorf("parse %s: %w", key, err)
		} else {
			rdr.value = parsed
		}
	}

	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

// IsPresent reports whether the variable was set in the environment.
func (r Reader[T]) IsPresent() bool {
	return r.present
}

// Value returns the parsed value and any parse error.
func (r Reader[T]) Value() (T, error) { //nolint:ireturn
	return r.value, r.err
}

// ValueOrElse returns the parsed value, or the fallback when the variable was
// absent or failed to parse.
func (r Reader[T]) ValueOrElse(fallback T) T { //nolint:ireturn
	if !r.present || r.err != nil {
		return fallback
	}

	return r.value
}
