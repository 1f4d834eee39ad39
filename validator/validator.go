// Package validator defines the calling convention for fixture validators and
// a library of built-in validator factories. Any validation function, whether
// built-in, user-written, or model-aware, is normalized to one canonical
// shape so it can be combined, parameterized, and applied identically:
//
//	func(ctx context.Context, candidate any, collectionPhase bool) error
//
// During the collection phase the candidate is the fixture-producing function
// itself; during the execution phase it is the value the fixture produced.
// Validators signal failure by returning an error from the taxonomy in the
// errors package.
package validator

import (
	"context"
	"fmt"
	"reflect"
	"sync/atomic"

	errs "github.com/topiaruss/fixturecheck/errors"
)

// Validator is the canonical two-argument-plus-context validation function.
// It returns nil on success and a taxonomy error on failure. Validators are
// stateless; configuration is captured by the factory that created them.
type Validator func(ctx context.Context, candidate any, collectionPhase bool) error

// Interface is the tagged form for validators implemented as types rather
// than bare functions.
type Interface interface {
	Check(ctx context.Context, candidate any, collectionPhase bool) error
}

// modelHook is the capability the model package installs at process start so
// the default validator can run model-level validation without this package
// importing the integration. Nil means no integration is registered.
var modelHook atomic.Pointer[func(ctx context.Context, candidate any) error] //nolint:gochecknoglobals

// SetModelHook installs the model-awareness hook used by Default. Passing nil
// clears it. Intended to be called once, by the model package, at
// registration time.
func SetModelHook(hook func(ctx context.Context, candidate any) error) {
	if hook == nil {
		modelHook.Store(nil)

		return
	}

	modelHook.Store(&hook)
}

// Normalize converts any accepted raw validator shape into a canonical
// Validator. Accepted shapes:
//
//   - nil                                       -> Default()
//   - Validator / func(ctx, any, bool) error    -> unchanged
//   - func(any, bool) error                     -> context dropped
//   - func(ctx, any) error                      -> phase dropped, collection skipped
//   - func(any) error                           -> both dropped, collection skipped
//   - Interface                                 -> method value
//
// Shapes that drop the phase argument cannot see collection-phase candidates
// (the fixture function), so they are skipped during collection.
//
// Normalization itself never fails: an unsupported shape produces a validator
// that fails with a wrong-type error on its first invocation.
func Normalize(raw any) Validator {
	switch v := raw.(type) {
	case nil:
		return Default()
	case Validator:
		return v
	case func(ctx context.Context, candidate any, collectionPhase bool) error:
		return v
	case func(candidate any, collectionPhase bool) error:
		return func(_ context.Context, candidate any, collectionPhase bool) error {
			return v(candidate, collectionPhase)
		}
	case func(ctx context.Context, candidate any) error:
		return func(ctx context.Context, candidate any, collectionPhase bool) error {
			if collectionPhase || isFunction(candidate) {
				return nil
			}

			return v(ctx, candidate)
		}
	case func(candidate any) error:
		return func(_ context.Context, candidate any, collectionPhase bool) error {
			if collectionPhase || isFunction(candidate) {
				return nil
			}

			return v(candidate)
		}
	case Interface:
		return v.Check
	default:
		return func(context.Context, any, bool) error {
			return fmt.Errorf("%w: unsupported validator shape %T", errs.ErrWrongType, raw)
		}
	}
}

// Combine produces a single validator whose success requires every child to
// succeed. Children are normalized once, here, and evaluated in the order
// supplied; the first failure stops evaluation and propagates (fail-fast, not
// aggregate-all-children).
func Combine(raws ...any) Validator {
	children := make([]Validator, 0, len(raws))
	for _, raw := range raws {
		children = append(children, Normalize(raw))
	}

	return func(ctx context.Context, candidate any, collectionPhase bool) error {
		for _, child := range children {
			if err := child(ctx, candidate, collectionPhase); err != nil {
				return err
			}
		}

		return nil
	}
}

// Default returns the validator substituted when none is given. It does
// nothing during collection; at execution it rejects a nil-ish candidate and,
// when a model integration is registered and recognizes the candidate, runs
// the model's own validation routine.
func Default() Validator {
	return func(ctx context.Context, candidate any, collectionPhase bool) error {
		if collectionPhase || isFunction(candidate) {
			return nil
		}

		if isNilish(candidate) {
			return fmt.Errorf("%w: fixture produced a nil value", errs.ErrInvalidValue)
		}

		if hook := modelHook.Load(); hook != nil {
			return (*hook)(ctx, candidate)
		}

		return nil
	}
}

// Simple wraps a one-argument validation function, handling the phase for
// the caller: the wrapped function only ever sees execution-phase values.
func Simple(f func(candidate any) error) Validator {
	return Normalize(f)
}

// isFunction reports whether the candidate is a function value. Collection
// phase hands validators the fixture function; value-oriented validators use
// this guard so they never inspect a function as if it were data.
func isFunction(candidate any) bool {
	if candidate == nil {
		return false
	}

	return reflect.ValueOf(candidate).Kind() == reflect.Func
}

// isNilish returns true if the value is a literal nil
// or if it points to something with a nil value.
func isNilish(val any) bool {
	if val == nil {
		return true
	}

	valOf := reflect.ValueOf(val)

	switch valOf.Kind() { //nolint:exhaustive
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Pointer,
		reflect.UnsafePointer, reflect.Interface, reflect.Slice:
		return valOf.IsNil()
	}

	return false
}
