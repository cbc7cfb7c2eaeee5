package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAnalyticsMetrics(reg)

	m.ObserveSimulation(0.001, nil)
	m.ObserveSimulation(0.002, errors.New("boom"))
	m.ObserveCacheLookup("hit")
	m.ObserveCacheLookup("miss")
	m.ObserveCacheLookup("miss")
	m.ObserveSnapshot()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.simulationsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.simulationsTotal.WithLabelValues("error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.snapshotsTotal))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 4)
}

func TestAnalyticsMetricsNilSafe(t *testing.T) {
	var m *AnalyticsMetrics
	m.ObserveSimulation(0.1, nil)
	m.ObserveCacheLookup("hit")
	m.ObserveSnapshot()
}
