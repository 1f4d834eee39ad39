package validator

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	errs "github.com/topiaruss/fixturecheck/errors"
)

// pathSeparator addresses nested attributes: "config__resolution" reaches
// candidate.Config.Resolution.
const pathSeparator = "__"

// typeSuffix marks TypeCheckProperties keys that carry a type expectation
// instead of a value expectation.
const typeSuffix = "__type"

// NestedProperties is PropertyValues with double-underscore path support:
// the key "a__b__c" addresses candidate.a.b.c. A missing path segment fails
// naming the first unreachable segment and the path walked so far. Like
// PropertyValues it aggregates every failing path, and Strict(false)
// downgrades failures to warnings.
func NestedProperties(expected map[string]any, opts ...PropOption) Validator {
	cfg := newPropConfig(opts)

	return func(ctx context.Context, candidate any, collectionPhase bool) error {
		if collectionPhase || isFunction(candidate) {
			return nil
		}

		coll := &errs.Collection{}

		for _, path := range sortedKeys(expected) {
			report(ctx, cfg, coll, checkPath(candidate, path, expected[path]))
		}

		return coll.GetError()
	}
}

// checkPath walks one double-underscore path and verifies the expectation at
// its end.
func checkPath(candidate any, path string, expected any) error {
	segments := strings.Split(path, pathSeparator)
	current := candidate

	for i, segment := range segments {
		value, ok := lookupAttr(current, segment)
		if !ok {
			return fmt.Errorf("%w: property %q missing at path %q on %s",
				errs.ErrMissingField, segment, strings.Join(segments[:i], "."), typeName(candidate))
		}

		if i == len(segments)-1 {
			if !equalValues(value, expected) {
				return fmt.Errorf("%w: expected %s=%v, got %v",
					errs.ErrInvalidValue, path, expected, value)
			}

			return nil
		}

		current = value
	}

	return nil
}

// TypeSpec is a type expectation for TypeCheckProperties. Build one with
// Type or NullableType.
type TypeSpec struct {
	Type     reflect.Type
	AllowNil bool
}

// Type expects the property to hold a T.
func Type[T any]() TypeSpec {
	return TypeSpec{Type: reflect.TypeOf((*T)(nil)).Elem()}
}

// NullableType expects the property to hold a T or nil, the optional
// semantics for properties that are legitimately absent.
func NullableType[T any]() TypeSpec {
	return TypeSpec{Type: reflect.TypeOf((*T)(nil)).Elem(), AllowNil: true}
}

// TypeCheckProperties is PropertyValues extended with type conformance: keys
// suffixed "__type" carry a TypeSpec (or bare reflect.Type) checked against
// the property's dynamic type; remaining keys are equality checks. Failures
// aggregate, and Strict(false) downgrades them to warnings.
func TypeCheckProperties(expected map[string]any, opts ...PropOption) Validator {
	cfg := newPropConfig(opts)

	valueSpecs := make(map[string]any)
	typeSpecs := make(map[string]any)

	for key, want := range expected {
		if strings.HasSuffix(key, typeSuffix) {
			typeSpecs[strings.TrimSuffix(key, typeSuffix)] = want
		} else {
			valueSpecs[key] = want
		}
	}

	return func(ctx context.Context, candidate any, collectionPhase bool) error {
		if collectionPhase || isFunction(candidate) {
			return nil
		}

		coll := &errs.Collection{}

		for _, name := range sortedKeys(valueSpecs) {
			report(ctx, cfg, coll, checkProperty(candidate, name, valueSpecs[name]))
		}

		for _, name := range sortedKeys(typeSpecs) {
			report(ctx, cfg, coll, checkPropertyType(candidate, name, typeSpecs[name]))
		}

		return coll.GetError()
	}
}

// checkPropertyType verifies one type expectation.
func checkPropertyType(candidate any, name string, want any) error {
	spec, err := asTypeSpec(name, want)
	if err != nil {
		return err
	}

	actual, ok := lookupAttr(candidate, name)
	if !ok {
		return fmt.Errorf("%w: property %q missing from %s",
			errs.ErrMissingField, name, typeName(candidate))
	}

	if isNilish(actual) {
		if spec.AllowNil {
			return nil
		}

		return fmt.Errorf("%w: expected %s to be of type %s, got nil",
			errs.ErrWrongType, name, spec.Type)
	}

	if !typeMatches(reflect.TypeOf(actual), spec.Type) {
		return fmt.Errorf("%w: expected %s to be of type %s, got %s",
			errs.ErrWrongType, name, spec.Type, reflect.TypeOf(actual))
	}

	return nil
}

func asTypeSpec(name string, want any) (TypeSpec, error) {
	switch spec := want.(type) {
	case TypeSpec:
		if spec.Type == nil {
			return TypeSpec{}, fmt.Errorf("%w: type expectation for %q has no type",
				errs.ErrWrongType, name)
		}

		return spec, nil
	case reflect.Type:
		return TypeSpec{Type: spec}, nil
	default:
		return TypeSpec{}, fmt.Errorf("%w: type expectation for %q must be a TypeSpec or reflect.Type, got %T",
			errs.ErrWrongType, name, want)
	}
}
