package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/moviebot/internal/server"
	"github.com/desertthunder/moviebot/internal/shared"
	"github.com/urfave/cli/v3"
)

// ProxyServe runs the TMDB proxy until the process is interrupted.
func (r *Runner) ProxyServe(ctx context.Context, cmd *cli.Command) error {
	config := r.cfg()
	proxy := config.Proxy
	if host := cmd.String("host"); host != "" {
		proxy.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		if port < 0 || port > 65535 {
			return fmt.Errorf("%w: port %d out of range", shared.ErrInvalidFlag, port)
		}
		proxy.Port = port
	}

	if proxy.TMDBAPIKey == "" {
		r.logger.Warn("no TMDB API key configured, metadata routes will return 503", "env", shared.EnvTMDBAPIKey)
	}

	cache, err := r.openCache(ctx, cmd.String("cache"))
	if err != nil {
		return err
	}

	handler, _ := server.NewProxyRouter(server.AppOptions{
		Proxy: server.ProxyOptions{
			BaseURL:  proxy.TMDBBaseURL,
			APIKey:   proxy.TMDBAPIKey,
			Client:   &http.Client{Timeout: config.API.Timeout.Duration},
			Cache:    cache,
			CacheTTL: proxy.CacheTTL.Duration,
		},
		RateLimit: proxy.RateLimit,
		Burst:     proxy.Burst,
		Logger:    r.logger,
	})

	r.writePlain("Serving TMDB proxy on http://%s\n", proxy.Addr())
	return server.ListenAndServe(ctx, proxy.Addr(), handler, r.logger)
}
