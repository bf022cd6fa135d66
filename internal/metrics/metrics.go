package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcome labels.
const (
	OutcomeCompleted = "completed"
	OutcomePartial   = "partial"
	OutcomeBudget    = "budget_exceeded"
	OutcomeFailed    = "failed"
)

// Metrics holds the engine's Prometheus collectors. A nil *Metrics is a
// valid no-op sink.
type Metrics struct {
	nodeExecutions *prometheus.CounterVec
	nodeDuration   *prometheus.HistogramVec
	runDuration    *prometheus.HistogramVec
	saveFailures   prometheus.Counter
}

// New registers the engine collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		nodeExecutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "refine",
			Subsystem: "engine",
			Name:      "node_executions_total",
			Help:      "Node executions by node id.",
		}, []string{"node"}),
		nodeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "refine",
			Subsystem: "engine",
			Name:      "node_duration_seconds",
			Help:      "Node execution latency by node id.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"node"}),
		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "refine",
			Subsystem: "engine",
			Name:      "run_duration_seconds",
			Help:      "End-to-end run latency by outcome.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"outcome"}),
		saveFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "refine",
			Subsystem: "engine",
			Name:      "conversation_save_failures_total",
			Help:      "Best-effort snapshot saves that returned an error.",
		}),
	}
}

// ObserveNode records one node execution.
func (m *Metrics) ObserveNode(node string, seconds float64) {
	if m == nil {
		return
	}
	m.nodeExecutions.WithLabelValues(node).Inc()
	m.nodeDuration.WithLabelValues(node).Observe(seconds)
}

// RunFinished records one terminated run.
func (m *Metrics) RunFinished(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.runDuration.WithLabelValues(outcome).Observe(seconds)
}

// SaveFailure counts a failed snapshot save.
func (m *Metrics) SaveFailure() {
	if m == nil {
		return
	}
	m.saveFailures.Inc()
}
