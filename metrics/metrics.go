// Package metrics exposes wallet action outcomes as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"vault-wallet-tui/coordinator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is a coordinator.Observer backed by its own Prometheus registry.
type Registry struct {
	registry *prometheus.Registry
	actions  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight *prometheus.GaugeVec
}

var _ coordinator.Observer = (*Registry)(nil)

// New creates and registers the action metrics.
func New() *Registry {
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vault_wallet_actions_total",
		Help: "Wallet actions by kind and outcome",
	}, []string{"action", "outcome"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vault_wallet_action_duration_seconds",
		Help:    "Time from action start to result, including confirmation wait",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120},
	}, []string{"action"})

	inFlight := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vault_wallet_actions_in_flight",
		Help: "Wallet actions currently running",
	}, []string{"action"})

	r := prometheus.NewRegistry()
	r.MustRegister(actions, duration, inFlight)

	return &Registry{
		registry: r,
		actions:  actions,
		duration: duration,
		inFlight: inFlight,
	}
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

func (r *Registry) ActionStarted(kind coordinator.ActionKind) {
	r.inFlight.WithLabelValues(kind.String()).Inc()
}

func (r *Registry) ActionFinished(kind coordinator.ActionKind, res coordinator.Result, elapsed time.Duration) {
	r.inFlight.WithLabelValues(kind.String()).Dec()
	r.duration.WithLabelValues(kind.String()).Observe(elapsed.Seconds())
	r.actions.WithLabelValues(kind.String(), Outcome(res)).Inc()
}

// ActionRejected counts an in-flight rejection; nothing was started, so the
// gauge and histogram are left alone.
func (r *Registry) ActionRejected(kind coordinator.ActionKind, res coordinator.Result) {
	r.actions.WithLabelValues(kind.String(), Outcome(res)).Inc()
}

// Outcome is the metric label for a result: "success" or the error kind.
func Outcome(res coordinator.Result) string {
	if res.Failure == nil {
		return "success"
	}
	return res.Failure.Kind.String()
}
