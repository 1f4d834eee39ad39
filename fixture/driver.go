package fixture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/topiaruss/fixturecheck/envutil"
	errs "github.com/topiaruss/fixturecheck/errors"
	"github.com/topiaruss/fixturecheck/validator"
)

// State tracks a checked fixture through the two validation phases.
type State int

const (
	// Unchecked is the initial state, and the final one for fixtures
	// registered without a check.
	Unchecked State = iota

	// CollectionValidated means the fixture function passed the
	// collection-phase check.
	CollectionValidated

	// ExecutionValidated is the success terminal state: the produced value
	// passed the execution-phase check (or the expected failure occurred).
	ExecutionValidated

	// CollectionSkipped means the fixture could not be produced at
	// collection time for environmental reasons. Not a failure; the fixture
	// is retried when a test actually asks for it.
	CollectionSkipped

	// Failed is the failure terminal state.
	Failed
)

func (s State) String() string {
	switch s {
	case Unchecked:
		return "unchecked"
	case CollectionValidated:
		return "collection-validated"
	case ExecutionValidated:
		return "execution-validated"
	case CollectionSkipped:
		return "collection-skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// fixtureState is the per-session mutable companion of a Definition.
type fixtureState struct {
	state    State
	value    any
	resolved bool
	err      error
}

// Session drives validation over a registry. Create one per process in
// TestMain, Collect before running tests, then hand values to tests through
// Require or Value. All methods are safe for concurrent use.
type Session struct {
	registry *Registry
	autoSkip bool

	mu     sync.Mutex
	states map[string]*fixtureState
	report *Report
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithAutoSkip controls whether tests depending on a failed fixture are
// skipped instead of failed. Overrides the FIXTURECHECK_AUTO_SKIP
// environment variable.
func WithAutoSkip(enabled bool) SessionOption {
	return func(s *Session) {
		s.autoSkip = enabled
	}
}

// NewSession creates a session over the registry. Auto-skip defaults to the
// FIXTURECHECK_AUTO_SKIP environment variable.
func NewSession(registry *Registry, opts ...SessionOption) *Session {
	s := &Session{
		registry: registry,
		autoSkip: envutil.Bool("FIXTURECHECK_AUTO_SKIP",
			envutil.Default(false)).
			ValueOrElse(false),
		states: make(map[string]*fixtureState),
		report: NewReport(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// AutoSkip reports whether failed fixtures skip dependent tests.
func (s *Session) AutoSkip() bool { return s.autoSkip }

// Report returns the accumulated validation report.
func (s *Session) Report() *Report { return s.report }

// StateOf returns the validation state of a named fixture.
func (s *Session) StateOf(name string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.states[name]; ok {
		return st.state
	}

	return Unchecked
}

// Collect runs both validation phases over every checked fixture, in
// registration order. For each one it first checks the fixture function
// itself, then produces the value and checks that. Unchecked fixtures are
// left alone. The returned report holds one outcome per checked fixture.
func (s *Session) Collect(ctx context.Context) *Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = validator.WithWarnSink(ctx, s.report.addWarning)

	for _, def := range s.registry.Definitions() {
		if !def.checked {
			continue
		}

		st := s.stateFor(def.name)
		if st.state == ExecutionValidated || st.state == Failed {
			continue
		}

		if cerr := s.check(ctx, def, def.fn, PhaseCollection); cerr != nil {
			if def.expectError {
				st.state = ExecutionValidated
				s.report.add(s.outcome(def, PhaseCollection, StatusOK, nil))

				continue
			}

			s.fail(def, st, PhaseCollection, fmt.Errorf("%w: %w", errs.ErrValidation, cerr))

			continue
		}

		st.state = CollectionValidated

		_ = s.runExecution(ctx, def, st)
	}

	return s.report
}

// Value resolves a fixture by name, producing and validating it on first use
// if Collect has not already done so. Values are memoized per session. A
// fixture in the Failed state returns its recorded error without re-running.
func (s *Session) Value(ctx context.Context, name string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown fixture %q", errs.ErrFixtureFailure, name)
	}

	st := s.stateFor(name)
	if st.state == Failed {
		return nil, st.err
	}

	if st.resolved {
		return st.value, nil
	}

	// A fixture whose expected failure arrived during collection was never
	// produced; dependent tests still get its value, without re-validating.
	if def.expectError && st.state == ExecutionValidated {
		value, err := s.produce(ctx, def, st, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: fixture %q: %w", errs.ErrFixtureFailure, name, err)
		}

		st.value = value
		st.resolved = true

		return st.value, nil
	}

	if !def.checked {
		value, err := s.produce(ctx, def, st, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: fixture %q: %w", errs.ErrFixtureFailure, name, err)
		}

		st.value = value
		st.resolved = true

		return st.value, nil
	}

	if err := s.runExecution(ctx, def, st); err != nil {
		return nil, err
	}

	return st.value, nil
}

// Require resolves a fixture for a test. Unknown fixtures and validation
// failures fail the test; with auto-skip enabled, validation failures skip
// it instead. Environmental unavailability always skips.
func (s *Session) Require(t testing.TB, name string) any {
	t.Helper()

	value, err := s.Value(t.Context(), name)
	if err == nil {
		return value
	}

	switch {
	case errors.Is(err, ErrSkipCollection) || errors.Is(err, errs.ErrUnavailable):
		t.Skipf("fixture %q unavailable: %v", name, err)
	case s.autoSkip:
		t.Skipf("fixture %q failed validation: %v", name, err)
	default:
		t.Fatalf("fixture %q failed validation: %v", name, err)
	}

	return nil
}

// Run is the TestMain entry point: collect, print the report on failure,
// then either abort before any test runs or fall through to auto-skip.
func (s *Session) Run(ctx context.Context, m *testing.M) int {
	report := s.Collect(ctx)
	if report.HasFailures() {
		fmt.Fprint(os.Stderr, report.Format())

		if !s.autoSkip {
			return 1
		}
	}

	return m.Run()
}

// stateFor returns the mutable state for a fixture, creating it on first
// use. Callers hold s.mu.
func (s *Session) stateFor(name string) *fixtureState {
	st, ok := s.states[name]
	if !ok {
		st = &fixtureState{}
		s.states[name] = st
	}

	return st
}

// check invokes the composed validator for one phase. A panicking validator
// is reported as a validation failure rather than tearing down collection.
func (s *Session) check(ctx context.Context, def *Definition, candidate any, phase Phase) (err error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: validator panicked: %v", errs.ErrValidation, r)
		}

		observeValidation(phase, err, time.Since(start))
	}()

	return def.validate(ctx, candidate, phase == PhaseCollection)
}

// runExecution produces the fixture value and runs the execution-phase
// check, recording the outcome. Returns an error when no usable value
// results; a collection skip is returned to the caller but not recorded as
// a failure. Callers hold s.mu.
func (s *Session) runExecution(ctx context.Context, def *Definition, st *fixtureState) error {
	value, perr := s.produce(ctx, def, st, nil)
	if perr != nil {
		if def.expectError {
			st.state = ExecutionValidated
			s.report.add(s.outcome(def, PhaseExecution, StatusOK, nil))

			return nil
		}

		if errors.Is(perr, ErrSkipCollection) || errors.Is(perr, errs.ErrUnavailable) {
			if st.state != CollectionSkipped {
				st.state = CollectionSkipped
				s.report.add(s.outcome(def, PhaseExecution, StatusSkipped, perr))
			}

			return fmt.Errorf("fixture %q: %w", def.name, perr)
		}

		ferr := fmt.Errorf("%w: fixture %q: %w", errs.ErrFixtureFailure, def.name, perr)
		s.fail(def, st, PhaseExecution, ferr)

		return ferr
	}

	st.value = value
	st.resolved = true

	verr := s.check(ctx, def, value, PhaseExecution)

	switch {
	case def.expectError && verr != nil:
		st.state = ExecutionValidated
		s.report.add(s.outcome(def, PhaseExecution, StatusOK, nil))
	case def.expectError:
		eerr := fmt.Errorf("%w (fixture %q)", errs.ErrExpectedValidation, def.name)
		s.fail(def, st, PhaseExecution, eerr)

		return eerr
	case errors.Is(verr, errs.ErrUnavailable):
		// A missing optional integration is an environment problem, not a
		// broken fixture.
		if st.state != CollectionSkipped {
			st.state = CollectionSkipped
			s.report.add(s.outcome(def, PhaseExecution, StatusSkipped, verr))
		}

		return fmt.Errorf("fixture %q: %w", def.name, verr)
	case verr != nil:
		werr := fmt.Errorf("%w: %w", errs.ErrValidation, verr)
		s.fail(def, st, PhaseExecution, werr)

		return werr
	default:
		st.state = ExecutionValidated
		s.report.add(s.outcome(def, PhaseExecution, StatusOK, nil))
	}

	return nil
}

// produce runs the fixture function, awaiting a Deferred result. The stack
// carries the names already being produced, for cycle detection. Callers
// hold s.mu.
func (s *Session) produce(ctx context.Context, def *Definition, st *fixtureState, stack []string) (any, error) {
	if st.resolved {
		return st.value, nil
	}

	req := &Request{
		session: s,
		stack:   append(stack, def.name),
	}

	value, err := def.fn(ctx, req)
	if err == nil {
		if deferred, ok := value.(Deferred); ok {
			value, err = deferred.Await(ctx)
		}
	}

	return value, err
}

// fail moves a fixture into the Failed terminal state and records the
// outcome. Callers hold s.mu.
func (s *Session) fail(def *Definition, st *fixtureState, phase Phase, err error) {
	st.state = Failed
	st.err = err
	s.report.add(s.outcome(def, phase, StatusFailed, err))
}

func (s *Session) outcome(def *Definition, phase Phase, status Status, err error) Outcome {
	return Outcome{
		ID:       newOutcomeID(),
		Fixture:  def.name,
		Location: def.Location(),
		Phase:    phase,
		Status:   status,
		Kind:     errs.KindOf(err),
		Err:      err,
	}
}

// Request resolves fixture dependencies during production of another
// fixture. It is valid only for the duration of the producing call.
type Request struct {
	session *Session
	stack   []string
}

// Get resolves a dependency by name, memoized across the session. A
// dependency that is itself checked gets validated in its own Collect pass,
// not here.
func (rq *Request) Get(ctx context.Context, name string) (any, error) {
	for _, producing := range rq.stack {
		if producing == name {
			return nil, fmt.Errorf("%w: fixture dependency cycle: %s -> %s",
				errs.ErrFixtureFailure, strings.Join(rq.stack, " -> "), name)
		}
	}

	def, ok := rq.session.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown fixture %q", errs.ErrFixtureFailure, name)
	}

	st := rq.session.stateFor(name)
	if st.state == Failed {
		return nil, st.err
	}

	if st.resolved {
		return st.value, nil
	}

	value, err := rq.session.produce(ctx, def, st, rq.stack)
	if err != nil {
		return nil, fmt.Errorf("fixture %q: %w", name, err)
	}

	st.value = value
	st.resolved = true

	return value, nil
}
