package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecomputeMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRecomputeMetrics(reg)

	m.Inc(LevelOrder)
	m.Inc(LevelOrder)
	m.Inc(LevelSession)
	m.ObserveDuration(LevelOrder, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.recomputed.WithLabelValues(LevelOrder)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recomputed.WithLabelValues(LevelSession)))
}

func TestRPCMetricsOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRPCMetrics(reg)

	m.Observe("statistics", true)
	m.Observe("statistics", false)
	m.Observe("", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("statistics", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("statistics", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("unknown", "error")))
}

func TestNilRegistererIsNoop(t *testing.T) {
	var m *RecomputeMetrics
	m.Inc(LevelOrder)

	NewRecomputeMetrics(nil).Inc(LevelSession)
	NewRPCMetrics(nil).Observe("rates", true)
}
