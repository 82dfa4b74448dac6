package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "fte_report"

// metrics holds the collectors of one handler. Each handler owns its
// registry so tests can build several without conflicts.
type metrics struct {
	registry  *prometheus.Registry
	reports   *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	generated *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reports_total",
			Help:      "Reports generated, by view and output.",
		}, []string{"view", "output"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "report_failures_total",
			Help:      "Report requests that failed, by view and HTTP status.",
		}, []string{"view", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "report_duration_seconds",
			Help:      "Time spent reading the upload and building a report.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"view"}),
		generated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "generated_fte_total",
			Help:      "Sum of Generated FTE over every report returned.",
		}, []string{"view"}),
	}
	m.registry.MustRegister(
		m.reports,
		m.failures,
		m.duration,
		m.generated,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *metrics) observe(view, out string, start time.Time, generated float64) {
	m.reports.WithLabelValues(view, out).Inc()
	m.duration.WithLabelValues(view).Observe(time.Since(start).Seconds())
	if generated > 0 {
		m.generated.WithLabelValues(view).Add(generated)
	}
}

func (m *metrics) fail(view string, status int) {
	m.failures.WithLabelValues(view, http.StatusText(status)).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
