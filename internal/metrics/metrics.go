// Package metrics exposes engine counters for observability. The
// orchestrator records one observation per public operation plus the
// time spent rebuilding the allocation cache.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Operation label values.
const (
	OpInvoke = "invoke"
	OpUndo   = "undo"
	OpRedo   = "redo"
)

// Metrics bundles the prometheus collectors for one engine instance.
type Metrics struct {
	Commands        *prometheus.CounterVec
	RebuildDuration prometheus.Histogram
}

// New creates the collectors and registers them with reg. Passing
// prometheus.DefaultRegisterer wires them into the default exposition.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planboard",
			Name:      "commands_total",
			Help:      "Commands processed by the engine, by operation and outcome.",
		}, []string{"op", "status"}),
		RebuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "planboard",
			Name:      "cache_rebuild_seconds",
			Help:      "Time spent rebuilding the allocation cache.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Commands, m.RebuildDuration)
	}
	return m
}

// Observe records the outcome of one engine operation.
func (m *Metrics) Observe(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.Commands.WithLabelValues(op, status).Inc()
}
