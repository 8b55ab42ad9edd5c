// Package metrics holds the Prometheus collectors of the API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	StepWrites      *prometheus.CounterVec
	TransactionsFee *prometheus.CounterVec
	Uploads         *prometheus.CounterVec
}

// New registers every collector on a private registry, so tests can build
// as many instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salon_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "salon_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		StepWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salon_onboarding_writes_total",
			Help: "Onboarding step writes by operation and outcome",
		}, []string{"operation", "outcome"}),
		TransactionsFee: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salon_platform_fees_fcfa_total",
			Help: "Platform fees recorded, in FCFA",
		}, []string{"type"}),
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salon_image_uploads_total",
			Help: "Image uploads by outcome",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.StepWrites,
		m.TransactionsFee,
		m.Uploads,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveWrite counts one step write. A nil receiver is a no-op.
func (m *Metrics) ObserveWrite(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.StepWrites.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) ObserveFee(transactionType string, fee int64) {
	if m == nil {
		return
	}
	m.TransactionsFee.WithLabelValues(transactionType).Add(float64(fee))
}

func (m *Metrics) ObserveUpload(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Uploads.WithLabelValues(outcome).Inc()
}
