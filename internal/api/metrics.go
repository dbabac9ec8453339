package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/myjellybean/jellybean/internal/analysis"
)

const outcomeOK = "ok"

type metrics struct {
	registry *prometheus.Registry
	analyses *prometheus.CounterVec
	duration prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jellybean_analyses_total",
			Help: "Analyses by outcome (ok, empty, configuration, provider, malformed).",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jellybean_analysis_duration_seconds",
			Help:    "Wall time of analysis calls that reached the provider step.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		}),
	}
	m.registry.MustRegister(m.analyses, m.duration)
	return m
}

// observe records one analysis attempt.
func (m *metrics) observe(start time.Time, err error) {
	if errors.Is(err, analysis.ErrEmptyMessage) {
		m.analyses.WithLabelValues("empty").Inc()
		return
	}
	m.duration.Observe(time.Since(start).Seconds())
	outcome := outcomeOK
	if err != nil {
		outcome = analysis.Kind(err)
	}
	m.analyses.WithLabelValues(outcome).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
