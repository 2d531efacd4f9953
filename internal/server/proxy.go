package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviebot/internal/models"
)

// Routes served by the proxy.
const (
	TrendingRoute = "/api/tmdb/trending"
	SearchRoute   = "/api/tmdb/search"
	MoviePrefix   = "/api/tmdb/movie/"
	HealthRoute   = "/health"
	MetricsRoute  = "/metrics"
)

// DefaultTMDBBaseURL is the upstream API root.
const DefaultTMDBBaseURL = "https://api.themoviedb.org/3"

// DefaultCacheTTL applies when [ProxyOptions.CacheTTL] is zero.
const DefaultCacheTTL = 10 * time.Minute

// maxUpstreamBody is the default cap on an upstream response body.
const maxUpstreamBody = 8 << 20

var errBodyTooLarge = errors.New("upstream body exceeds limit")

// ResponseCache stores upstream bodies by key with a time to live.
//
// Both the sqlite movie_cache repository and the redis repository satisfy it.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, body []byte, ttl time.Duration) error
}

// ProxyOptions configures a [TMDBProxy].
type ProxyOptions struct {
	BaseURL  string
	APIKey   string
	Client   *http.Client
	Cache    ResponseCache // nil disables caching
	CacheTTL time.Duration
	Metrics  *Metrics
	Logger   *log.Logger
	MaxBody  int64 // bytes; larger upstream bodies fail with 502
}

// TMDBProxy forwards the three metadata routes to TMDB, adding the API key server-side.
type TMDBProxy struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cache   ResponseCache
	ttl     time.Duration
	metrics *Metrics
	logger  *log.Logger
	maxBody int64
}

// NewTMDBProxy creates a proxy handler from opts.
func NewTMDBProxy(opts ProxyOptions) *TMDBProxy {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultTMDBBaseURL
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.MaxBody <= 0 {
		opts.MaxBody = maxUpstreamBody
	}

	return &TMDBProxy{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		client:  opts.Client,
		cache:   opts.Cache,
		ttl:     opts.CacheTTL,
		metrics: opts.Metrics,
		logger:  opts.Logger.With("component", "proxy"),
		maxBody: opts.MaxBody,
	}
}

// Routes implements [Handler].
func (p *TMDBProxy) Routes() []string {
	return []string{TrendingRoute, SearchRoute, MoviePrefix}
}

// ServeHTTP implements [http.Handler].
func (p *TMDBProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if p.apiKey == "" {
		writeError(w, http.StatusServiceUnavailable, "TMDB API key not configured")
		return
	}

	route, key, upstream, status, msg := p.resolve(r)
	if status != 0 {
		writeError(w, status, msg)
		return
	}

	p.forward(w, r, route, key, upstream)
}

// resolve maps a request onto a cache key and upstream path. A non-zero status means reject.
func (p *TMDBProxy) resolve(r *http.Request) (route, key, upstream string, status int, msg string) {
	switch path := r.URL.Path; {
	case path == TrendingRoute:
		return "trending", "trending", "/trending/movie/week", 0, ""

	case path == SearchRoute:
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			return "", "", "", http.StatusBadRequest, "missing query parameter q"
		}
		return "search", "search:" + strings.ToLower(q), "/search/multi?query=" + url.QueryEscape(q), 0, ""

	case strings.HasPrefix(path, MoviePrefix):
		raw := strings.Trim(strings.TrimPrefix(path, MoviePrefix), "/")
		if raw == "" || strings.Contains(raw, "/") {
			return "", "", "", http.StatusNotFound, "not found"
		}
		id, err := models.ParseMovieID(raw)
		if err != nil {
			return "", "", "", http.StatusBadRequest, "invalid movie id"
		}
		upstream := "/movie/" + url.PathEscape(id.String()) + "?append_to_response=credits,keywords,images"
		return "movie", "movie:" + id.String(), upstream, 0, ""
	}

	return "", "", "", http.StatusNotFound, "not found"
}

func (p *TMDBProxy) forward(w http.ResponseWriter, r *http.Request, route, key, upstream string) {
	ctx := r.Context()

	if body, ok := p.cached(ctx, route, key); ok {
		w.Header().Set("X-Cache", "HIT")
		writeBody(w, http.StatusOK, body)
		return
	}

	body, status, err := p.fetch(ctx, upstream)
	if err != nil {
		p.observeUpstream(route, "error")
		p.logger.Error("upstream request failed", "route", route, "err", err)
		writeError(w, http.StatusBadGateway, "upstream request failed")
		return
	}

	if status != http.StatusOK {
		p.observeUpstream(route, fmt.Sprintf("%d", status))
		p.logger.Warn("upstream returned non-200", "route", route, "status", status)
		writeBody(w, status, body)
		return
	}

	p.observeUpstream(route, "ok")
	if p.cache != nil {
		if err := p.cache.Put(ctx, key, body, p.ttl); err != nil {
			p.logger.Warn("failed to cache response", "key", key, "err", err)
		}
	}

	w.Header().Set("X-Cache", "MISS")
	writeBody(w, http.StatusOK, body)
}

func (p *TMDBProxy) cached(ctx context.Context, route, key string) ([]byte, bool) {
	if p.cache == nil {
		return nil, false
	}

	body, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.logger.Warn("cache lookup failed", "key", key, "err", err)
		ok = false
	}
	if p.metrics != nil {
		p.metrics.ObserveCache(route, ok)
	}
	return body, ok
}

// fetch performs the upstream GET with the API key appended.
func (p *TMDBProxy) fetch(ctx context.Context, path string) ([]byte, int, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	endpoint := p.baseURL + path + sep + "api_key=" + url.QueryEscape(p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", redactKey(err, p.apiKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBody+1))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > p.maxBody {
		return nil, 0, fmt.Errorf("%w: more than %d bytes", errBodyTooLarge, p.maxBody)
	}
	return body, resp.StatusCode, nil
}

func (p *TMDBProxy) observeUpstream(route, outcome string) {
	if p.metrics != nil {
		p.metrics.ObserveUpstream(route, outcome)
	}
}

// redactKey keeps the API key out of logged url errors.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), key, "REDACTED"))
}

// Health reports liveness and whether an upstream key is configured.
func Health(keyConfigured bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":         "ok",
			"tmdbConfigured": keyConfigured,
		})
	}
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
