package fixture

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// validationsTotal counts validator invocations by phase and outcome.
	//
	// Labels:
	//   - phase: "collection" or "execution".
	//   - outcome: "ok" if the validator accepted the candidate, "failed"
	//     otherwise.
	//
	// The nolint:gochecknoglobals directive is used because Prometheus
	// metrics are intentionally global by design - registered once and
	// observed throughout the process lifetime.
	validationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "fixturecheck_validations_total",
		Help: "The total number of fixture validator invocations",
	}, []string{"phase", "outcome"})

	// validationTime tracks how long a composed validator takes to run, in
	// milliseconds, per phase. Collection-phase checks are usually trivial;
	// execution-phase checks may reflect over large values or call into a
	// model's validation routine, so the buckets reach into seconds.
	validationTime = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Name: "fixturecheck_validation_time_millis",
		Help: "The time a fixture validator takes to run, in milliseconds",
		Buckets: []float64{
			1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000,
		},
	}, []string{"phase"})
)

// init pre-registers every label combination so the time series exist from
// process start. Rate queries and zero-activity alerts then behave the same
// before and after the first validation runs.
func init() {
	for _, phase := range []Phase{PhaseCollection, PhaseExecution} {
		for _, outcome := range []string{"ok", "failed"} {
			validationsTotal.WithLabelValues(string(phase), outcome).Add(0)
		}
	}
}

func observeValidation(phase Phase, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}

	validationsTotal.WithLabelValues(string(phase), outcome).Inc()
	validationTime.WithLabelValues(string(phase)).Observe(float64(elapsed.Milliseconds()))
}
