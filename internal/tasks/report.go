package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/moviebot/internal/models"
	"github.com/desertthunder/moviebot/internal/shared"
	"golang.org/x/time/rate"
)

// ReportOpts configures [Engine.WatchlistReport].
type ReportOpts struct {
	NumWorkers int     // Concurrent workers (default: 4, max: 10)
	RateLimit  float64 // Requests per second (default: 5)
}

// ReportEntry is one watchlist movie with whatever could be fetched for it.
type ReportEntry struct {
	ID     models.MovieID
	Detail *models.MovieDetail // nil when the lookup failed
	Rating *models.Rating
	Err    error
}

// Title returns the detail title, or the id when the lookup failed.
func (e ReportEntry) Title() string {
	if e.Detail != nil && e.Detail.Title != "" {
		return e.Detail.Title
	}
	return fmt.Sprintf("Unknown (%s)", e.ID)
}

// WatchlistReport contains details for every watchlist movie in watchlist order.
type WatchlistReport struct {
	Entries   []ReportEntry
	Succeeded int
	Failed    int
}

type reportJob struct {
	index int
	id    models.MovieID
}

type reportResult struct {
	index int
	entry ReportEntry
}

// WatchlistReport fetches details for each watchlist movie with a bounded worker pool.
//
// Requests share a token bucket so the proxy is never hit faster than opts.RateLimit. Per-movie
// failures are recorded on the entry and do not abort the report.
func (e *Engine) WatchlistReport(ctx context.Context, prog chan<- ProgressUpdate, opts ReportOpts) (*WatchlistReport, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: collection not initialized", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	ids := e.library.Watchlist(ctx)
	ratings := e.library.Ratings(ctx)
	e.sendProgress(prog, fetchWatchlistUpdate(len(ids)))

	report := &WatchlistReport{Entries: make([]ReportEntry, len(ids))}
	if len(ids) == 0 {
		return report, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan reportJob, len(ids))
	results := make(chan reportResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.reportWorker(ctx, &wg, limiter, jobs, results)
	}

	for i, id := range ids {
		jobs <- reportJob{index: i, id: id}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	seen := make([]bool, len(ids))
	completed := 0
	for res := range results {
		completed++
		seen[res.index] = true
		if r, ok := ratings[res.entry.ID]; ok {
			res.entry.Rating = &r
		}
		report.Entries[res.index] = res.entry

		if res.entry.Err != nil {
			report.Failed++
			e.sendProgress(prog, detailFailedUpdate(completed, len(ids), res.entry.ID, res.entry.Err))
			continue
		}
		report.Succeeded++
		e.sendProgress(prog, detailCompletedUpdate(completed, len(ids), res.entry.Detail))
	}

	if err := ctx.Err(); err != nil {
		for i, ok := range seen {
			if !ok {
				report.Entries[i] = ReportEntry{ID: ids[i], Err: err}
				report.Failed++
			}
		}
		return report, fmt.Errorf("watchlist report cancelled: %w", err)
	}

	e.sendProgress(prog, reportReadyUpdate(report))
	return report, nil
}

// reportWorker fetches details for jobs until the channel closes or ctx is done.
func (e *Engine) reportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan reportJob,
	results chan<- reportResult,
) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			return
		}

		entry := ReportEntry{ID: job.id}
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		detail, err := e.catalog.Movie(ctx, job.id)
		if err != nil {
			entry.Err = fmt.Errorf("failed to fetch movie: %w", err)
		} else {
			entry.Detail = detail
		}
		results <- reportResult{index: job.index, entry: entry}
	}
}
