package txn

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts root transaction outcomes. Savepoint activity is not
// measured separately; it lives and dies with its root transaction.
type Metrics struct {
	Started    prometheus.Counter
	Committed  prometheus.Counter
	RolledBack prometheus.Counter
	Retries    prometheus.Counter
	Deadlocks  prometheus.Counter
	Duration   prometheus.Histogram
}

// NewMetrics registers the transaction metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Started: factory.NewCounter(prometheus.CounterOpts{
			Name: "catalog_txn_started_total",
			Help: "Root transactions begun",
		}),
		Committed: factory.NewCounter(prometheus.CounterOpts{
			Name: "catalog_txn_committed_total",
			Help: "Root transactions committed",
		}),
		RolledBack: factory.NewCounter(prometheus.CounterOpts{
			Name: "catalog_txn_rolled_back_total",
			Help: "Root transactions rolled back",
		}),
		Retries: factory.NewCounter(prometheus.CounterOpts{
			Name: "catalog_txn_retries_total",
			Help: "Unit-of-work attempts repeated after a transient failure",
		}),
		Deadlocks: factory.NewCounter(prometheus.CounterOpts{
			Name: "catalog_txn_deadlocks_total",
			Help: "Failures classified as deadlock or lock contention",
		}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_txn_duration_seconds",
			Help:    "Wall-clock time of a unit of work including retries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}),
	}
}

func (m *Metrics) started() {
	if m != nil {
		m.Started.Inc()
	}
}

func (m *Metrics) committed() {
	if m != nil {
		m.Committed.Inc()
	}
}

func (m *Metrics) rolledBack() {
	if m != nil {
		m.RolledBack.Inc()
	}
}

func (m *Metrics) retried() {
	if m != nil {
		m.Retries.Inc()
	}
}

func (m *Metrics) deadlock() {
	if m != nil {
		m.Deadlocks.Inc()
	}
}

func (m *Metrics) observeDuration(seconds float64) {
	if m != nil {
		m.Duration.Observe(seconds)
	}
}
