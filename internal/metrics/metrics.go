// Package metrics exposes Prometheus instruments for ledger operations.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "thuchi"

type Metrics struct {
	mutations       *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
	syncDuration    *prometheus.HistogramVec
	transactions    prometheus.Gauge
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Ledger mutations by entity, operation and outcome.",
		}, []string{"entity", "op", "outcome"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Failed writes of persisted state by key.",
		}, []string{"key"}),
		syncDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Duration of remote sync operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "outcome"}),
		transactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transactions",
			Help:      "Number of transactions in the ledger.",
		}),
	}

	reg.MustRegister(m.mutations, m.persistFailures, m.syncDuration, m.transactions)

	return m
}

func (m *Metrics) Mutation(entity, op string, err error) {
	if m == nil {
		return
	}

	m.mutations.WithLabelValues(entity, op, outcome(err)).Inc()
}

func (m *Metrics) PersistFailure(key string) {
	if m == nil {
		return
	}

	m.persistFailures.WithLabelValues(key).Inc()
}

func (m *Metrics) Sync(op string, started time.Time, err error) {
	if m == nil {
		return
	}

	m.syncDuration.WithLabelValues(op, outcome(err)).Observe(time.Since(started).Seconds())
}

func (m *Metrics) TransactionCount(n int) {
	if m == nil {
		return
	}

	m.transactions.Set(float64(n))
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}

	return "ok"
}
