package server

import (
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
)

// AppOptions configures [NewProxyRouter].
type AppOptions struct {
	Proxy     ProxyOptions
	RateLimit float64 // requests per second; 0 disables
	Burst     int
	Registry  *prometheus.Registry
	Logger    *log.Logger
}

// NewProxyRouter assembles the metadata proxy: recovery, logging and rate limiting around
// the TMDB routes, plus /health and /metrics.
func NewProxyRouter(opts AppOptions) (*BasicRouter, *Metrics) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.With("component", "server")

	metrics := NewMetrics(opts.Registry)

	proxyOpts := opts.Proxy
	proxyOpts.Metrics = metrics
	if proxyOpts.Logger == nil {
		proxyOpts.Logger = logger
	}

	router := NewBasicRouter()
	router.Use(
		Recover(logger),
		Logging(logger, metrics),
		RateLimit(NewLimiter(opts.RateLimit, opts.Burst), logger),
	)

	router.HandleFunc(http.MethodGet, HealthRoute, Health(proxyOpts.APIKey != ""))
	router.Handle(http.MethodGet, MetricsRoute, metrics.Handler())
	router.Handler(NewTMDBProxy(proxyOpts))

	return router, metrics
}
