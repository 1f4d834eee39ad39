// Package model is the optional introspection boundary for fixtures that
// produce ORM-style model instances. The core treats model awareness as a
// swappable capability, not a privileged path: an integration registers an
// Introspector once at process start, and everything here degrades to a
// graceful no-op when none is registered. Registering never fails; only the
// first validation attempt that truly requires introspection does.
package model

import (
	"context"
	"fmt"
	"sync/atomic"

	errs "github.com/topiaruss/fixturecheck/errors"
	"github.com/topiaruss/fixturecheck/validator"
)

// Introspector is the capability an ORM integration provides.
type Introspector interface {
	// IsModel reports whether the candidate is a model instance the
	// integration understands.
	IsModel(candidate any) bool

	// FieldNames lists the declared field names of the candidate's model.
	FieldNames(candidate any) ([]string, error)

	// Validate runs the model's own full validation routine.
	Validate(ctx context.Context, candidate any) error
}

// noop is the implementation substituted when no integration is registered.
type noop struct{}

func (noop) IsModel(any) bool { return false }

func (noop) FieldNames(any) ([]string, error) {
	return nil, fmt.Errorf("%w: no model introspector registered", errs.ErrUnavailable)
}

func (noop) Validate(context.Context, any) error {
	return fmt.Errorf("%w: no model introspector registered", errs.ErrUnavailable)
}

var current atomic.Value //nolint:gochecknoglobals

func init() {
	current.Store(Introspector(noop{}))
}

// Register installs the process-wide introspector and hooks model awareness
// into the default validator. Call once at process start, before fixtures
// are collected. Passing nil restores the no-op implementation.
func Register(i Introspector) {
	if i == nil {
		current.Store(Introspector(noop{}))
		validator.SetModelHook(nil)

		return
	}

	current.Store(i)
	validator.SetModelHook(func(ctx context.Context, candidate any) error {
		intro := Current()
		if !intro.IsModel(candidate) {
			return nil
		}

		return intro.Validate(ctx, candidate)
	})
}

// Current returns the registered introspector, or the no-op default.
func Current() Introspector { //nolint:ireturn
	return current.Load().(Introspector)
}

// Available reports whether a real introspector is registered.
func Available() bool {
	_, isNoop := current.Load().(noop)

	return !isNoop
}

// InstanceOfModel returns a validator that succeeds iff the candidate is a
// model instance. Trivially succeeds during collection.
func InstanceOfModel() validator.Validator {
	return func(_ context.Context, candidate any, collectionPhase bool) error {
		if collectionPhase {
			return nil
		}

		if !Available() {
			return fmt.Errorf("%w: InstanceOfModel requires a registered introspector", errs.ErrUnavailable)
		}

		if !Current().IsModel(candidate) {
			return fmt.Errorf("%w: expected a model instance, got %T", errs.ErrWrongType, candidate)
		}

		return nil
	}
}

// HasFields returns a validator that succeeds iff the candidate is a model
// whose declared fields include every name given. Trivially succeeds during
// collection; requires a registered introspector at execution.
func HasFields(fields ...string) validator.Validator {
	return func(_ context.Context, candidate any, collectionPhase bool) error {
		if collectionPhase {
			return nil
		}

		intro := Current()
		if !intro.IsModel(candidate) {
			if !Available() {
				return fmt.Errorf("%w: HasFields requires a registered introspector", errs.ErrUnavailable)
			}

			return fmt.Errorf("%w: expected a model instance, got %T", errs.ErrWrongType, candidate)
		}

		declared, err := intro.FieldNames(candidate)
		if err != nil {
			return err
		}

		declaredSet := make(map[string]struct{}, len(declared))
		for _, name := range declared {
			declaredSet[name] = struct{}{}
		}

		for _, field := range fields {
			if _, ok := declaredSet[field]; !ok {
				return fmt.Errorf("%w: model %T has no field %q", errs.ErrMissingField, candidate, field)
			}
		}

		return nil
	}
}

// Validates returns a validator that runs the model's own full validation
// routine. Trivially succeeds during collection.
func Validates() validator.Validator {
	return func(ctx context.Context, candidate any, collectionPhase bool) error {
		if collectionPhase {
			return nil
		}

		intro := Current()
		if !intro.IsModel(candidate) {
			if !Available() {
				return fmt.Errorf("%w: Validates requires a registered introspector", errs.ErrUnavailable)
			}

			return fmt.Errorf("%w: expected a model instance, got %T", errs.ErrWrongType, candidate)
		}

		if err := intro.Validate(ctx, candidate); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrInvalidValue, err)
		}

		return nil
	}
}
