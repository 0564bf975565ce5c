package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the API.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec   // labels: method, route, status
	HTTPDuration    *prometheus.HistogramVec // labels: route
	UpstreamFetches *prometheus.CounterVec   // labels: source, result
	CacheLookups    *prometheus.CounterVec   // labels: result
	OverviewSymbols *prometheus.GaugeVec     // labels: state
	WSClients       prometheus.Gauge
}

// NewMetrics registers and returns all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketlens_http_requests_total",
			Help: "HTTP requests served",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketlens_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		UpstreamFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketlens_upstream_fetch_total",
			Help: "Chart fetches against the market data source",
		}, []string{"source", "result"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketlens_cache_lookups_total",
			Help: "Raw chart cache lookups",
		}, []string{"result"}),
		OverviewSymbols: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "marketlens_overview_symbols",
			Help: "Symbols in the last overview build, by outcome",
		}, []string{"state"}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "marketlens_ws_clients",
			Help: "Connected overview stream clients",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.UpstreamFetches,
		m.CacheLookups,
		m.OverviewSymbols,
		m.WSClients,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveFetch(source, result string) {
	if m == nil {
		return
	}
	m.UpstreamFetches.WithLabelValues(source, result).Inc()
}

func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) SetOverview(ok, failed int) {
	if m == nil {
		return
	}
	m.OverviewSymbols.WithLabelValues("ok").Set(float64(ok))
	m.OverviewSymbols.WithLabelValues("failed").Set(float64(failed))
}

func (m *Metrics) SetWSClients(n int) {
	if m == nil {
		return
	}
	m.WSClients.Set(float64(n))
}
