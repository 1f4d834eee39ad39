// Package errors defines the error taxonomy shared by the validator and
// fixture packages, plus a small Collection type for accumulating errors
// across multiple checks before deciding an overall outcome.
package errors

import "errors"

var (
	// ErrValidation wraps every error produced by a validator, so callers can
	// detect validation failures with errors.Is regardless of the concrete kind.
	ErrValidation = errors.New("validation failed")

	// ErrMissingField indicates a required attribute, method, or property path
	// segment could not be found on the candidate.
	ErrMissingField = errors.New("missing field")

	// ErrWrongType indicates the candidate (or one of its properties) has a
	// type outside the expected set, or a validator had an unsupported shape.
	ErrWrongType = errors.New("wrong type")

	// ErrInvalidValue indicates an attribute exists but holds an unacceptable
	// value (nil where forbidden, or not equal to the expected value).
	ErrInvalidValue = errors.New("invalid value")

	// ErrExpectedValidation indicates a fixture declared ExpectValidationError
	// but no validation error occurred.
	ErrExpectedValidation = errors.New("expected validation error but none occurred")

	// ErrFixtureFailure indicates the fixture function itself failed for
	// reasons of its own, as opposed to a validator rejecting its value.
	ErrFixtureFailure = errors.New("fixture failed")

	// ErrUnavailable indicates an optional integration (such as model
	// introspection) is required by a validator but was never registered.
	ErrUnavailable = errors.New("integration unavailable")
)

// Kind is a coarse classification of a validation error, used for reporting
// and metrics labels.
type Kind string

const (
	KindMissingField Kind = "missing_field"
	KindWrongType    Kind = "wrong_type"
	KindInvalidValue Kind = "invalid_value"
	KindExpected     Kind = "expected"
	KindFixture      Kind = "fixture"
	KindUnavailable  Kind = "unavailable"
	KindUnknown      Kind = "unknown"
)

// KindOf maps an error onto its Kind by probing the taxonomy sentinels.
// Errors outside the taxonomy report KindUnknown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrMissingField):
		return KindMissingField
	case errors.Is(err, ErrWrongType):
		return KindWrongType
	case errors.Is(err, ErrInvalidValue):
		return KindInvalidValue
	case errors.Is(err, ErrExpectedValidation):
		return KindExpected
	case errors.Is(err, ErrFixtureFailure):
		return KindFixture
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	default:
		return KindUnknown
	}
}

// Collection is a thread-unsafe utility for accumulating multiple errors.
// It provides methods to add errors, check for errors, and retrieve them as a single combined error.
// Use this when you need to collect errors from multiple operations and return them together.
type Collection struct {
	errors []error
}

// Add appends an error to the collection. Nil errors are automatically ignored.
func (c *Collection) Add(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

// Clear removes all errors from the collection, resetting it to an empty state.
func (c *Collection) Clear() {
	c.errors = nil
}

// HasError returns true if the collection contains at least one error.
func (c *Collection) HasError() bool {
	return len(c.errors) > 0
}

// GetError returns the collected errors as a single error.
// Returns nil if the collection is empty, the single error if there's only one,
// or a joined error (using errors.Join) if there are multiple errors.
func (c *Collection) GetError() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	default:
		return errors.Join(c.errors...)
	}
}
