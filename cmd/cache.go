package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/moviebot/internal/repositories"
	"github.com/desertthunder/moviebot/internal/server"
	"github.com/desertthunder/moviebot/internal/shared"
	"github.com/urfave/cli/v3"
)

const cacheNone = "none"

// proxyCache is a response cache that can also be purged from the CLI.
type proxyCache interface {
	server.ResponseCache
	Purge(ctx context.Context) (int64, error)
}

// openCache opens the proxy response cache named by kind. An empty kind follows storage.driver;
// the memory driver and "none" disable caching.
func (r *Runner) openCache(ctx context.Context, kind string) (proxyCache, error) {
	config := r.cfg()
	if kind == "" {
		kind = config.Storage.Driver
	}

	switch strings.ToLower(kind) {
	case shared.DriverSQLite:
		db, err := shared.OpenStorageDatabase(ctx, config.Storage)
		if err != nil {
			return nil, err
		}
		r.closers = append(r.closers, db)
		return repositories.NewMovieCacheRepository(db), nil
	case shared.DriverRedis:
		client, err := repositories.NewRedisClient(ctx, config.Storage)
		if err != nil {
			return nil, err
		}
		r.closers = append(r.closers, client)
		return repositories.NewRedisRepository(client, config.Storage.RedisPrefix), nil
	case shared.DriverMemory, cacheNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown cache %q (sqlite, redis, none)", shared.ErrInvalidFlag, kind)
	}
}

// CachePurge removes cached proxy responses: expired rows for sqlite, every entry for redis.
func (r *Runner) CachePurge(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.openCache(ctx, cmd.String("cache"))
	if err != nil {
		return err
	}
	if cache == nil {
		return r.writePlain("Caching is disabled, nothing to purge\n")
	}

	n, err := cache.Purge(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("cache purged", "entries", n)
	return r.writePlain("✓ Purged %d cached response(s)\n", n)
}

// cacheCommand handles the proxy response cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the proxy response cache",
		Commands: []*cli.Command{
			{
				Name:  "purge",
				Usage: "Remove cached TMDB responses",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "cache",
						Usage: "Cache backend: sqlite or redis (default follows storage.driver)",
					},
				},
				Action: r.CachePurge,
			},
		},
	}
}
