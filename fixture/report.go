package fixture

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/topiaruss/fixturecheck/cli"
	errs "github.com/topiaruss/fixturecheck/errors"
	"github.com/topiaruss/fixturecheck/logger"
)

// Phase names the validation phase an outcome belongs to.
type Phase string

const (
	// PhaseCollection is the check of the fixture function itself, before
	// any value exists.
	PhaseCollection Phase = "collection"

	// PhaseExecution is the check of the produced value.
	PhaseExecution Phase = "execution"
)

// Status is the result of validating one fixture.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Outcome records the validation result for a single fixture. Err is nil
// for StatusOK; for StatusSkipped it carries the reason production was not
// possible.
type Outcome struct {
	ID       string
	Fixture  string
	Location string
	Phase    Phase
	Status   Status
	Kind     errs.Kind
	Err      error
}

func newOutcomeID() string {
	return uuid.NewString()
}

// Report accumulates outcomes across a collection pass. It is read once at
// the end to decide whether to abort, skip, or proceed.
type Report struct {
	outcomes []Outcome
	warnings []string
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{}
}

func (r *Report) add(o Outcome) {
	r.outcomes = append(r.outcomes, o)
}

func (r *Report) addWarning(msg string) {
	r.warnings = append(r.warnings, msg)
}

// Outcomes returns every recorded outcome, in collection order.
func (r *Report) Outcomes() []Outcome {
	return r.outcomes
}

// Failures returns the failed outcomes only.
func (r *Report) Failures() []Outcome {
	var failed []Outcome

	for _, o := range r.outcomes {
		if o.Status == StatusFailed {
			failed = append(failed, o)
		}
	}

	return failed
}

// Warnings returns the non-fatal validation warnings collected from
// validators running in non-strict mode.
func (r *Report) Warnings() []string {
	return r.warnings
}

// HasFailures reports whether any fixture failed validation.
func (r *Report) HasFailures() bool {
	for _, o := range r.outcomes {
		if o.Status == StatusFailed {
			return true
		}
	}

	return false
}

// Format renders the failures as a banner-delimited block suitable for
// terminal output. Returns the empty string when nothing failed.
func (r *Report) Format() string {
	failures := r.Failures()
	if len(failures) == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString(cli.BannerAutoWidth("FIXTURE VALIDATION ERRORS", cli.AlignCenter))
	b.WriteString("\n")

	for _, o := range failures {
		fmt.Fprintf(&b, "Fixture %q in %s failed %s-phase validation:\n", o.Fixture, o.Location, o.Phase)
		fmt.Fprintf(&b, "  %s: %v\n", o.Kind, o.Err)
	}

	for _, w := range r.warnings {
		fmt.Fprintf(&b, "Warning: %s\n", w)
	}

	b.WriteString(cli.DividerAutoWidth())
	b.WriteString("Fix these fixture issues before running your tests.\n")

	return b.String()
}

// Log writes the failures and warnings to the structured logger.
func (r *Report) Log(ctx context.Context) {
	log := logger.Get(ctx)

	for _, o := range r.Failures() {
		log.Error("fixture validation failed",
			"outcome", o.ID,
			"fixture", o.Fixture,
			"location", o.Location,
			"phase", string(o.Phase),
			"kind", string(o.Kind),
			"error", o.Err)
	}

	for _, w := range r.warnings {
		log.Warn("fixture validation warning", "message", w)
	}
}
