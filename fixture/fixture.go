// Package fixture provides pre-flight validation for test fixtures. A
// fixture is a named producer of a test-time value; registering one with a
// check attaches a composed validator that runs in two phases: once at
// collection time against the fixture function itself (catching definition
// errors before any test body executes) and once against the produced value
// when the fixture is resolved. Failures are captured as structured outcomes
// and surfaced in one aggregated report instead of failing confusingly deep
// inside dependent tests.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/topiaruss/fixturecheck/validator"
)

// Func produces a fixture value. Dependencies on other fixtures are resolved
// through the Request. A Func may return a Deferred instead of a finished
// value; the driver awaits it before validation.
type Func func(ctx context.Context, req *Request) (any, error)

// Deferred is a fixture value that is still being produced. The driver
// drives it to completion before the result is considered a validation
// candidate. lazy.Future implements this.
type Deferred interface {
	Await(ctx context.Context) (any, error)
}

// ErrSkipCollection marks a fixture error as "cannot run during collection"
// rather than "broken": a fixture whose production needs an external
// resource that is legitimately absent at collection time wraps its error
// with this sentinel, and the driver attributes the fixture as
// collection-skipped instead of failed.
var ErrSkipCollection = errors.New("skip collection")

// Definition is a registered fixture together with its composed validator.
// The validator is composed exactly once, at registration; a Definition is
// immutable afterwards. It owns no resources and delegates execution to the
// original Func.
type Definition struct {
	name        string
	fn          Func
	validate    validator.Validator
	checked     bool
	expectError bool
	file        string
	line        int
}

// Name returns the fixture's registered name.
func (d *Definition) Name() string { return d.name }

// Checked reports whether the fixture was registered with a check.
func (d *Definition) Checked() bool { return d.checked }

// Location returns the file:line of the registration site.
func (d *Definition) Location() string {
	if d.file == "" {
		return "<unknown location>"
	}

	return fmt.Sprintf("%s:%d", d.file, d.line)
}

// Option configures a fixture registration.
type Option func(*regConfig)

type regConfig struct {
	raws        []any
	checked     bool
	expectError bool
}

// WithValidator attaches one or more validators, composed in order with
// fail-fast semantics. Raw validators may have any shape accepted by
// validator.Normalize.
func WithValidator(raws ...any) Option {
	return func(c *regConfig) {
		c.raws = append(c.raws, raws...)
		c.checked = true
	}
}

// Check marks the fixture for validation with the default validator (the
// produced value must not be nil; model instances run their own validation
// routine when an introspector is registered).
func Check() Option {
	return func(c *regConfig) {
		c.checked = true
	}
}

// WithPropertyValues is shorthand for WithValidator(validator.PropertyPairs(...)).
func WithPropertyValues(pairs ...any) Option {
	return WithValidator(validator.PropertyPairs(pairs...))
}

// ExpectValidationError declares that this fixture's validation is expected
// to fail. The expected failure does not block testing; instead, the absence
// of any failure is reported. Used to test the validation mechanism itself.
func ExpectValidationError() Option {
	return func(c *regConfig) {
		c.checked = true
		c.expectError = true
	}
}

// Registry holds fixture definitions in registration order. It performs no
// dependency analysis of its own; dependencies resolve lazily through
// Request at execution time.
type Registry struct {
	defs   []*Definition
	byName map[string]*Definition
}

// NewRegistry creates an empty fixture registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Definition),
	}
}

// Register adds a fixture. Registering the same name again replaces the
// earlier definition, mirroring fixture shadowing in test frameworks.
// The composed validator is built here, exactly once.
func (r *Registry) Register(name string, fn Func, opts ...Option) *Definition {
	cfg := regConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	def := &Definition{
		name:        name,
		fn:          fn,
		checked:     cfg.checked,
		expectError: cfg.expectError,
	}

	if cfg.checked {
		if len(cfg.raws) == 0 {
			def.validate = validator.Default()
		} else {
			def.validate = validator.Combine(cfg.raws...)
		}
	}

	if _, file, line, ok := runtime.Caller(1); ok {
		def.file = file
		def.line = line
	}

	if _, exists := r.byName[name]; exists {
		for i, existing := range r.defs {
			if existing.name == name {
				r.defs[i] = def

				break
			}
		}
	} else {
		r.defs = append(r.defs, def)
	}

	r.byName[name] = def

	return def
}

// Lookup returns the definition for a name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	def, ok := r.byName[name]

	return def, ok
}

// Definitions returns the definitions in registration order.
func (r *Registry) Definitions() []*Definition {
	return r.defs
}
