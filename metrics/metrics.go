// Package metrics exposes Prometheus collectors for the challenge
// lifecycle. The challenge manager drives a Collector when one is
// configured; hosts that do not scrape metrics simply leave it unset.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "captcha"

// Collector bundles the challenge lifecycle metrics.
type Collector struct {
	// Generated counts challenges built and installed, including
	// failure-triggered regenerations.
	Generated prometheus.Counter
	// Solved counts challenges completed by a correct answer.
	Solved prometheus.Counter
	// Regenerated counts in-place replacements after the failure
	// threshold was reached.
	Regenerated prometheus.Counter
	// FailedInputs counts full-but-wrong buffer states.
	FailedInputs prometheus.Counter
	// ActiveSessions tracks the number of stored challenges.
	ActiveSessions prometheus.Gauge
}

// NewCollector registers the lifecycle metrics on the given registerer. A
// nil registerer uses the default prometheus registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Collector{
		Generated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "challenges_generated_total",
			Help:      "Challenges generated and installed, including regenerations.",
		}),
		Solved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "challenges_solved_total",
			Help:      "Challenges completed by a correct answer sequence.",
		}),
		Regenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "challenges_regenerated_total",
			Help:      "Challenges replaced after reaching the failure threshold.",
		}),
		FailedInputs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failed_inputs_total",
			Help:      "Full-length entered sequences that did not match the answer.",
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Challenges currently held in the session store.",
		}),
	}
}
