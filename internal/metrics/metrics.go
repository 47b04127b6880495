// Package metrics exposes Prometheus collectors for the prediction path.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prediction outcomes.
const (
	OutcomeOK              = "ok"
	OutcomeInputFormat     = "input_format"
	OutcomeUnknownCategory = "unknown_category"
	OutcomeError           = "error"
)

// Metrics holds the collectors registered for one server.
type Metrics struct {
	registry    *prometheus.Registry
	predictions *prometheus.CounterVec
	duration    prometheus.Histogram
	prices      prometheus.Histogram
	logins      *prometheus.CounterVec
	catalogRows prometheus.Gauge
}

// New registers the collectors on a fresh registry, alongside the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carprice",
			Name:      "predictions_total",
			Help:      "Prediction requests by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "carprice",
			Name:      "prediction_duration_seconds",
			Help:      "Time spent building the feature vector and running the model.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		prices: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "carprice",
			Name:      "predicted_price",
			Help:      "Distribution of predicted prices.",
			Buckets:   prometheus.ExponentialBuckets(50000, 2, 10),
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carprice",
			Name:      "auth_attempts_total",
			Help:      "Login and registration attempts by action and result.",
		}, []string{"action", "result"}),
		catalogRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "carprice",
			Name:      "catalog_rows",
			Help:      "Rows in the reference car catalog.",
		}),
	}
	reg.MustRegister(
		m.predictions,
		m.duration,
		m.prices,
		m.logins,
		m.catalogRows,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObservePrediction records one prediction request.
func (m *Metrics) ObservePrediction(outcome string, took time.Duration, price float64) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(outcome).Inc()
	m.duration.Observe(took.Seconds())
	if outcome == OutcomeOK {
		m.prices.Observe(price)
	}
}

// ObserveAuth records a login or register attempt.
func (m *Metrics) ObserveAuth(action string, ok bool) {
	if m == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	m.logins.WithLabelValues(action, result).Inc()
}

// SetCatalogRows records the catalog size.
func (m *Metrics) SetCatalogRows(n int) {
	if m == nil {
		return
	}
	m.catalogRows.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
