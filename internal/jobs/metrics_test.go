package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, c.Write(&out))
	return out.GetCounter().GetValue()
}

func TestTrackerRecordsOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	require.NoError(t, m.Track("dashboard:warmup").End(nil))
	boom := errors.New("boom")
	require.ErrorIs(t, m.Track("dashboard:warmup").End(boom), boom)
	m.Track("dashboard:warmup").Skip("locked")
	m.AddWarmed("summary", 3)
	m.AddWarmed("summary", 0)

	assert.Equal(t, 1.0, counterValue(t, m.runs.WithLabelValues("dashboard:warmup", "success")))
	assert.Equal(t, 1.0, counterValue(t, m.runs.WithLabelValues("dashboard:warmup", "failure")))
	assert.Equal(t, 1.0, counterValue(t, m.runs.WithLabelValues("dashboard:warmup", "skipped")))
	assert.Equal(t, 1.0, counterValue(t, m.failures.WithLabelValues("dashboard:warmup")))
	assert.Equal(t, 1.0, counterValue(t, m.skipped.WithLabelValues("dashboard:warmup", "locked")))
	assert.Equal(t, 3.0, counterValue(t, m.warmed.WithLabelValues("summary")))
}

func TestNilMetricsTrackerIsNoop(t *testing.T) {
	var m *Metrics
	tracker := m.Track("noop")
	tracker.Skip("locked")
	m.AddWarmed("summary", 1)
	assert.NoError(t, tracker.End(nil))
}
