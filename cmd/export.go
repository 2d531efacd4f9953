package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/desertthunder/moviebot/internal/formatter"
	"github.com/desertthunder/moviebot/internal/shared"
	"github.com/desertthunder/moviebot/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ExportWatchlist fetches details for every watchlist movie and writes them in the chosen format.
func (r *Runner) ExportWatchlist(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	if !formatter.Supported(format) {
		return fmt.Errorf("%w: unknown format %q (csv, markdown, txt, json)", shared.ErrInvalidFlag, format)
	}

	if err := r.core(ctx); err != nil {
		return err
	}

	opts := tasks.ReportOpts{
		NumWorkers: r.cfg().API.Workers,
		RateLimit:  r.cfg().API.RateLimit,
	}
	if n := cmd.Int("workers"); n > 0 {
		opts.NumWorkers = n
	}
	if rl := cmd.Float("rate-limit"); rl > 0 {
		opts.RateLimit = rl
	}

	r.logger.Info("starting watchlist export", "format", format, "workers", opts.NumWorkers)
	r.writePlain("Exporting watchlist...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchWatchlist:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.FetchDetails:
				r.writePlain("   %s\n", update.Message)
			case tasks.WriteReport:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	report, err := r.engine.WatchlistReport(ctx, progressCh, opts)
	close(progressCh)
	wg.Wait()

	if err != nil && (report == nil || !errors.Is(err, context.Canceled)) {
		return err
	}

	export := formatter.FromReport(report, r.collection.Ratings(ctx), r.sessions.Current(ctx), r.now())
	path, werr := formatter.Write(export, format, cmd.String("output"))
	if werr != nil {
		return werr
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Movies: %d (%d failed)\n", len(report.Entries), report.Failed)
	r.writePlain("Ratings: %d\n", len(export.Ratings))
	r.writePlain("Saved to: %s\n", path)

	// A cancelled export still writes what was fetched.
	return err
}
