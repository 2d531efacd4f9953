package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/moviebot/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the proxy
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	compact := cmd.Bool("json")

	r.logger.Info("GET request", "path", path)

	resp, err := r.apiService().Get(ctx, path)
	if err != nil {
		return err
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, !compact)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// APIHealth checks the proxy by calling its /health endpoint.
func (r *Runner) APIHealth(ctx context.Context, cmd *cli.Command) error {
	api := r.apiService()
	r.logger.Info("checking proxy health", "url", api.BaseURL())

	resp, err := api.Get(ctx, "/health")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	if !resp.OK() {
		return fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}

	healthData, ok := resp.JSONData.(map[string]any)
	if !resp.IsJSON || !ok {
		return r.writePlain("✓ Proxy is healthy\nStatus: %s\n", strings.TrimSpace(string(resp.Body)))
	}

	status, ok := healthData["status"].(string)
	if !ok {
		status = "unknown"
	}
	configured, _ := healthData["tmdbConfigured"].(bool)

	r.writePlain("✓ Proxy is healthy\n")
	r.writePlain("URL: %s\n", api.BaseURL())
	r.writePlain("Status: %s\n", status)
	if configured {
		r.writePlain("TMDB key: ✓ configured\n")
	} else {
		r.writePlain("TMDB key: ✗ missing (set %s)\n", shared.EnvTMDBAPIKey)
	}
	return nil
}
