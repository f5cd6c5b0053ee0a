package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Aggregate levels recorded by RecomputeMetrics.
const (
	LevelOrder   = "order"
	LevelSession = "session"
)

// RecomputeMetrics records derived aggregate recomputations.
type RecomputeMetrics struct {
	recomputed *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewRecomputeMetrics registers the recomputation metrics on the provided registerer.
func NewRecomputeMetrics(reg prometheus.Registerer) *RecomputeMetrics {
	if reg == nil {
		return &RecomputeMetrics{}
	}
	recomputed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_aggregate_recomputations_total",
		Help: "Order and session aggregates recomputed after payment writes.",
	}, []string{"level"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pos_aggregate_flush_duration_seconds",
		Help:    "Time spent flushing dirty aggregates inside a write transaction.",
		Buckets: prometheus.DefBuckets,
	}, []string{"level"})
	reg.MustRegister(recomputed, duration)
	return &RecomputeMetrics{recomputed: recomputed, duration: duration}
}

// Inc increments the recompute counter for the level.
func (m *RecomputeMetrics) Inc(level string) {
	if m == nil || m.recomputed == nil {
		return
	}
	m.recomputed.WithLabelValues(normalizeLabel(level)).Inc()
}

// ObserveDuration records how long one level of a flush took.
func (m *RecomputeMetrics) ObserveDuration(level string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(level)).Observe(d.Seconds())
}

// RPCMetrics counts calls to the multi-currency RPC endpoints.
type RPCMetrics struct {
	calls *prometheus.CounterVec
}

// NewRPCMetrics registers the RPC metrics on the provided registerer.
func NewRPCMetrics(reg prometheus.Registerer) *RPCMetrics {
	if reg == nil {
		return &RPCMetrics{}
	}
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_multi_currency_rpc_calls_total",
		Help: "Multi-currency RPC calls by method and outcome.",
	}, []string{"method", "outcome"})
	reg.MustRegister(calls)
	return &RPCMetrics{calls: calls}
}

// Observe increments the counter for method with outcome "ok" or "error".
func (m *RPCMetrics) Observe(method string, ok bool) {
	if m == nil || m.calls == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.calls.WithLabelValues(normalizeLabel(method), outcome).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
