package validator

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"

	errs "github.com/topiaruss/fixturecheck/errors"
)

// Built-in validator factories. Each closes over its parameters and returns a
// canonical Validator. Collection-phase behavior is decided per validator:
// all of the value-oriented built-ins below short-circuit to success during
// collection, because the candidate at that point is the fixture function,
// not a produced value.

// PropOption configures the property-oriented validators.
type PropOption func(*propConfig)

type propConfig struct {
	strict bool
}

// Strict controls failure behavior of the property validators. When false, a
// mismatch is reported through the context's warning sink instead of failing
// validation. Defaults to true.
func Strict(strict bool) PropOption {
	return func(c *propConfig) {
		c.strict = strict
	}
}

func newPropConfig(opts []PropOption) propConfig {
	cfg := propConfig{strict: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// InstanceOf succeeds iff the candidate is a T (concrete type or interface).
func InstanceOf[T any]() Validator {
	return func(_ context.Context, candidate any, collectionPhase bool) error {
		if collectionPhase || isFunction(candidate) {
			return nil
		}

		if _, ok := candidate.(T); !ok {
			want := reflect.TypeOf((*T)(nil)).Elem()

			return fmt.Errorf("%w: expected instance of %s, got %s",
				errs.ErrWrongType, want, typeName(candidate))
		}

		return nil
	}
}

// OneOfTypes succeeds iff the candidate is an instance of one of the supplied
// types. Interface types match by implementation, concrete types by
// assignability; a pointer candidate also matches its pointee's type.
func OneOfTypes(types ...reflect.Type) Validator {
	return func(_ context.Context, candidate any, collectionPhase bool) error {
		if collectionPhase || isFunction(candidate) {
			return nil
		}

		actual := reflect.TypeOf(candidate)
		if actual != nil {
			for _, want := range types {
				if want == nil {
					continue
				}

				if typeMatches(actual, want) {
					return nil
				}
			}
		}

		names := make([]string, 0, len(types))
		for _, want := range types {
			names = append(names, want.String())
		}

		return fmt.Errorf("%w: expected instance of one of (%s), got %s",
			errs.ErrWrongType, strings.Join(names, ", "), typeName(candidate))
	}
}

func typeMatches(actual, want reflect.Type) bool {
	if want.Kind() == reflect.Interface {
		return actual.Implements(want)
	}

	if actual.AssignableTo(want) {
		return true
	}

	return actual.Kind() == reflect.Pointer && actual.Elem().AssignableTo(want)
}

// RequiredFields succeeds iff every named attribute is reachable on the
// candidate and non-nil. The first missing or nil field, in declaration
// order, fails the validator.
func RequiredFields(fields ...string) Validator {
	return RequiredFieldsWith(FieldOptions{}, fields...)
}

// FieldOptions adjusts RequiredFields behavior.
type FieldOptions struct {
	// AllowEmpty accepts fields that exist but hold nil.
	AllowEmpty bool
}

// RequiredFieldsWith is RequiredFields with explicit options.
func RequiredFieldsWith(opts FieldOptions, fields ...string) Validator {
	return func(_ context.Context, candidate any, collectionPhase bool) error {
		if collectionPhase || isFunction(candidate) {
			return nil
		}

		for _, field := range fields {
			value, ok := lookupAttr(candidate, field)
			if !ok {
				return fmt.Errorf("%w: required field %q missing from %s",
					errs.ErrMissingField, field, typeName(candidate))
			}

			if !opts.AllowEmpty && isNilish(value) {
				return fmt.Errorf("%w: required field %q is nil in %s",
					errs.ErrInvalidValue, field, typeName(candidate))
			}
		}

		return nil
	}
}

// RequiredMethods succeeds iff every named attribute exists and is callable.
func RequiredMethods(names ...string) Validator {
	return func(_ context.Context, candidate any, collectionPhase bool) error {
		if collectionPhase || isFunction(candidate) {
			return nil
		}

		for _, name := range names {
			value, ok := lookupAttr(candidate, name)
			if !ok {
				return fmt.Errorf("%w: required method %q missing from %s",
					errs.ErrMissingField, name, typeName(candidate))
			}

			if !isFunction(value) {
				return fmt.Errorf("%w: %q is not callable in %s",
					errs.ErrWrongType, name, typeName(candidate))
			}
		}

		return nil
	}
}

// PropertyValues succeeds iff every named attribute equals its expected
// value. Unlike composition, which is fail-fast, this validator aggregates
// its internal checks and reports every mismatching field. With
// Strict(false), mismatches become warnings and validation succeeds.
func PropertyValues(expected map[string]any, opts ...PropOption) Validator {
	cfg := newPropConfig(opts)

	return func(ctx context.Context, candidate any, collectionPhase bool) error {
		if collectionPhase || isFunction(candidate) {
			return nil
		}

		coll := &errs.Collection{}

		for _, name := range sortedKeys(expected) {
			report(ctx, cfg, coll, checkProperty(candidate, name, expected[name]))
		}

		return coll.GetError()
	}
}

// PropertyPairs is PropertyValues with the expectations given as alternating
// name/value pairs, in the style of slog attributes:
//
//	PropertyPairs("name", "test", "value", 42)
//
// An odd trailing name fails validation when invoked.
func PropertyPairs(pairs ...any) Validator {
	if len(pairs)%2 != 0 {
		return func(context.Context, any, bool) error {
			return fmt.Errorf("%w: PropertyPairs requires name/value pairs, got %d arguments",
				errs.ErrWrongType, len(pairs))
		}
	}

	expected := make(map[string]any, len(pairs)/2)

	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			badArg := pairs[i]

			return func(context.Context, any, bool) error {
				return fmt.Errorf("%w: PropertyPairs name must be a string, got %T",
					errs.ErrWrongType, badArg)
			}
		}

		expected[name] = pairs[i+1]
	}

	return PropertyValues(expected)
}

// checkProperty verifies one attribute equality expectation, returning a
// taxonomy error describing the problem, or nil.
func checkProperty(candidate any, name string, expected any) error {
	actual, ok := lookupAttr(candidate, name)
	if !ok {
		return fmt.Errorf("%w: property %q missing from %s",
			errs.ErrMissingField, name, typeName(candidate))
	}

	if !equalValues(actual, expected) {
		return fmt.Errorf("%w: expected %s=%v, got %v",
			errs.ErrInvalidValue, name, expected, actual)
	}

	return nil
}

// report routes one check result: nil is dropped, and a failure either joins
// the collection (strict) or becomes a warning.
func report(ctx context.Context, cfg propConfig, coll *errs.Collection, err error) {
	if err == nil {
		return
	}

	if cfg.strict {
		coll.Add(err)

		return
	}

	Warn(ctx, err.Error())
}

// equalValues compares with reflect.DeepEqual, falling back to a numeric
// conversion so that literals like int expectations match int64 fields. The
// fallback applies only between numeric kinds and only when the conversion
// round-trips without losing information: 10.5 never equals an int field
// holding 10, and an int expectation never matches a string field through a
// rune conversion.
func equalValues(actual, expected any) bool {
	if reflect.DeepEqual(actual, expected) {
		return true
	}

	av := reflect.ValueOf(actual)
	ev := reflect.ValueOf(expected)

	if !av.IsValid() || !ev.IsValid() {
		return false
	}

	if !isNumericKind(av.Kind()) || !isNumericKind(ev.Kind()) {
		return false
	}

	// A negative expectation can wrap into a huge unsigned value and still
	// round-trip; rule it out before converting.
	if ev.CanInt() && ev.Int() < 0 && av.CanUint() {
		return false
	}

	if !ev.Type().ConvertibleTo(av.Type()) {
		return false
	}

	converted := ev.Convert(av.Type())
	if !reflect.DeepEqual(converted.Convert(ev.Type()).Interface(), expected) {
		return false
	}

	return reflect.DeepEqual(actual, converted.Interface())
}

func isNumericKind(k reflect.Kind) bool {
	switch k { //nolint:exhaustive
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}

	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
