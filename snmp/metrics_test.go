package snmp

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsInstancesHaveDistinctSeries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()
	assert.NotEqual(t, a.InstanceID, b.InstanceID)

	a.GetRequests.Add(3)
	b.GetRequests.Add(1)

	assert.EqualValues(t, 3, a.GetRequests.Value())
	assert.EqualValues(t, 1, b.GetRequests.Value())
}

func TestMetricsRegisteredOnSharedRegistry(t *testing.T) {
	NewMetrics()
	families, err := Registry.Gather()
	require.NoError(t, err)

	found := false
	for _, mf := range families {
		if mf.GetName() == "edgeo_snmp_requests_sent_total" {
			found = true
		}
	}
	assert.True(t, found, "expected edgeo_snmp_requests_sent_total to be registered")
}

func TestMetricsSnapshotReflectsCounters(t *testing.T) {
	m := NewMetrics()
	m.RequestsSent.Add(2)
	m.Errors.Add(1)
	m.RequestLatency.Observe(15)

	snap := m.Snapshot()
	assert.EqualValues(t, 2, snap.RequestsSent)
	assert.EqualValues(t, 1, snap.Errors)
	assert.EqualValues(t, 1, snap.RequestLatency.Count)
}

func TestMetricsResetClearsInProcessCountersOnly(t *testing.T) {
	m := NewMetrics()
	m.RequestsSent.Add(5)
	m.Reset()
	assert.EqualValues(t, 0, m.RequestsSent.Value())
}

func TestPromCounterVecLabelCardinality(t *testing.T) {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_metric_total"}, []string{instanceLabel})
	vec.WithLabelValues("a").Inc()
	vec.WithLabelValues("b").Inc()

	var out dto.Metric
	require.NoError(t, vec.WithLabelValues("a").Write(&out))
	assert.EqualValues(t, 1, out.GetCounter().GetValue())
}
