// Package metrics публикует метрики симуляций аналитики в Prometheus.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// AnalyticsMetrics содержит счётчики и гистограммы запусков симуляции.
type AnalyticsMetrics struct {
	simulationsTotal   *prometheus.CounterVec
	simulationDuration prometheus.Histogram
	cacheLookups       *prometheus.CounterVec
	snapshotsTotal     prometheus.Counter
}

// NewAnalyticsMetrics регистрирует метрики в reg; nil означает реестр по умолчанию.
func NewAnalyticsMetrics(reg prometheus.Registerer) *AnalyticsMetrics {
	m := &AnalyticsMetrics{
		simulationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clubsite",
			Subsystem: "analytics",
			Name:      "simulations_total",
			Help:      "Total analytics simulation runs",
		}, []string{"status"}),
		simulationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clubsite",
			Subsystem: "analytics",
			Name:      "simulation_duration_seconds",
			Help:      "Duration of analytics simulation runs",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clubsite",
			Subsystem: "analytics",
			Name:      "cache_lookups_total",
			Help:      "Report cache lookups by result",
		}, []string{"result"}),
		snapshotsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clubsite",
			Subsystem: "analytics",
			Name:      "snapshots_total",
			Help:      "Total archived analytics snapshots",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.simulationsTotal, m.simulationDuration, m.cacheLookups, m.snapshotsTotal)
	return m
}

// ObserveSimulation учитывает запуск симуляции и его длительность в секундах.
func (m *AnalyticsMetrics) ObserveSimulation(seconds float64, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.simulationsTotal.WithLabelValues(status).Inc()
	m.simulationDuration.Observe(seconds)
}

// ObserveCacheLookup учитывает обращение к кэшу отчётов: hit, miss или error.
func (m *AnalyticsMetrics) ObserveCacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveSnapshot учитывает сохранённый снимок аналитики.
func (m *AnalyticsMetrics) ObserveSnapshot() {
	if m == nil {
		return
	}
	m.snapshotsTotal.Inc()
}
