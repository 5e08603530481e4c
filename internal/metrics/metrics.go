package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every schedbench collector. It is separate from the default
// registry so tests can inspect it without global state from other packages.
var Registry = prometheus.NewRegistry()

var (
	TrialTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedbench_trial_transitions_total",
			Help: "Trial state machine transitions, by state entered.",
		},
		[]string{"state"},
	)

	Trials = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedbench_trials_total",
			Help: "Finished trials, by policy and outcome.",
		},
		[]string{"policy", "outcome"},
	)

	DeployDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "schedbench_deploy_duration_seconds",
			Help:    "Time taken by a single per-node deployment step.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		},
		[]string{"step"},
	)

	DeployErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedbench_deploy_node_errors_total",
			Help: "Per-node deployment step failures.",
		},
		[]string{"step"},
	)

	Events = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedbench_feed_events_total",
			Help: "Protocol events seen on the live event feed, by kind.",
		},
		[]string{"kind"},
	)

	PolicyLatency = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "schedbench_policy_latency_seconds",
			Help: "Average per-cycle latency of a policy in the last ranking.",
		},
		[]string{"policy"},
	)

	PolicyEnergy = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "schedbench_policy_energy",
			Help: "Average energy of a policy in the last ranking.",
		},
		[]string{"policy"},
	)

	PolicySuccessRatio = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "schedbench_policy_success_ratio",
			Help: "Average scenario success ratio of a policy in the last ranking.",
		},
		[]string{"policy"},
	)
)

func init() {
	Registry.MustRegister(
		TrialTransitions,
		Trials,
		DeployDuration,
		DeployErrors,
		Events,
		PolicyLatency,
		PolicyEnergy,
		PolicySuccessRatio,
	)
}

// ObserveDeploy records the duration of a deployment step started at the given
// time, and counts it as a failure if err is not nil.
func ObserveDeploy(step string, start time.Time, err error) {
	DeployDuration.WithLabelValues(step).Observe(time.Since(start).Seconds())

	if err != nil {
		DeployErrors.WithLabelValues(step).Inc()
	}
}

func SetPolicy(policy string, latency, energy, success float64) {
	PolicyLatency.WithLabelValues(policy).Set(latency)
	PolicyEnergy.WithLabelValues(policy).Set(energy)
	PolicySuccessRatio.WithLabelValues(policy).Set(success)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
