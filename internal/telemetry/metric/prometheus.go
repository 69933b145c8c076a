package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pwapreview"

// Registry holds all preview server metrics.
type Registry struct {
	reg *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ContentChanges  prometheus.Counter
	CertsGenerated  prometheus.Counter
	Fallbacks       prometheus.Counter
}

// NewRegistry creates a registry with every metric registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests served, by listener, status code and method.",
		}, []string{"listener", "code", "method"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"listener", "code", "method"}),
		ContentChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_changes_total",
			Help:      "Debounced change batches observed under the served root.",
		}),
		CertsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "certificates_generated_total",
			Help:      "Self-signed certificates generated at startup.",
		}),
		Fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "https_fallbacks_total",
			Help:      "Times the HTTPS server fell back to plain HTTP.",
		}),
	}

	r.reg.MustRegister(
		r.RequestsTotal,
		r.RequestDuration,
		r.ContentChanges,
		r.CertsGenerated,
		r.Fallbacks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Gatherer exposes the underlying registry for scraping and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Instrument wraps h so that requests are counted and timed under the
// given listener label. A nil registry returns h unchanged.
func (r *Registry) Instrument(listener string, h http.Handler) http.Handler {
	if r == nil {
		return h
	}
	labels := prometheus.Labels{"listener": listener}
	counter := r.RequestsTotal.MustCurryWith(labels)
	duration := r.RequestDuration.MustCurryWith(labels)
	return promhttp.InstrumentHandlerDuration(duration,
		promhttp.InstrumentHandlerCounter(counter, h))
}

// IncContentChanges records one debounced content change batch.
func (r *Registry) IncContentChanges() {
	if r != nil {
		r.ContentChanges.Inc()
	}
}

// IncCertsGenerated records a certificate generation.
func (r *Registry) IncCertsGenerated() {
	if r != nil {
		r.CertsGenerated.Inc()
	}
}

// IncFallbacks records an HTTPS to HTTP fallback.
func (r *Registry) IncFallbacks() {
	if r != nil {
		r.Fallbacks.Inc()
	}
}
