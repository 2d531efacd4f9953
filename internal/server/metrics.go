package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the proxy's Prometheus collectors.
type Metrics struct {
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	upstream  *prometheus.CounterVec
	cacheHits *prometheus.CounterVec
	gatherer  prometheus.Gatherer
}

// NewMetrics registers the proxy collectors with reg.
//
// A nil reg uses a fresh registry, which keeps tests independent of the global one.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moviebot_proxy_requests_total",
			Help: "Proxy requests by route and status code.",
		}, []string{"route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "moviebot_proxy_request_duration_seconds",
			Help:    "Proxy request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		upstream: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moviebot_proxy_upstream_requests_total",
			Help: "Upstream TMDB calls by route and outcome.",
		}, []string{"route", "outcome"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moviebot_proxy_cache_total",
			Help: "Response cache lookups by route and result.",
		}, []string{"route", "result"}),
		gatherer: reg,
	}

	reg.MustRegister(m.requests, m.latency, m.upstream, m.cacheHits)
	return m
}

// ObserveRequest records a served request.
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveUpstream records an upstream call; outcome is "ok", "error" or a status code.
func (m *Metrics) ObserveUpstream(route, outcome string) {
	m.upstream.WithLabelValues(route, outcome).Inc()
}

// ObserveCache records a cache hit or miss.
func (m *Metrics) ObserveCache(route string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheHits.WithLabelValues(route, result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// routeLabel collapses movie ids so label cardinality stays bounded.
func routeLabel(path string) string {
	switch {
	case strings.HasPrefix(path, MoviePrefix):
		return "movie"
	case path == TrendingRoute:
		return "trending"
	case path == SearchRoute:
		return "search"
	case path == HealthRoute:
		return "health"
	case path == MetricsRoute:
		return "metrics"
	default:
		return "other"
	}
}
