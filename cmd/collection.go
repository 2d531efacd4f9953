package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/desertthunder/moviebot/internal/formatter"
	"github.com/desertthunder/moviebot/internal/models"
	"github.com/desertthunder/moviebot/internal/shared"
	"github.com/desertthunder/moviebot/internal/tasks"
	"github.com/urfave/cli/v3"
)

// movieArg reads and normalizes the "id" argument.
func movieArg(cmd *cli.Command) (models.MovieID, error) {
	raw := cmd.StringArg("id")
	if raw == "" {
		return "", fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}
	id, err := models.ParseMovieID(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	return id, nil
}

// WatchlistList prints the watchlist, optionally resolving titles through the proxy.
func (r *Runner) WatchlistList(ctx context.Context, cmd *cli.Command) error {
	if err := r.core(ctx); err != nil {
		return err
	}

	ids := r.collection.Watchlist(ctx)
	if !cmd.Bool("details") {
		if cmd.Bool("json") {
			return r.writeJSON(ids, true)
		}
		if len(ids) == 0 {
			return r.writePlain("Your watchlist is empty\n")
		}
		for _, id := range ids {
			r.writePlain("%s\n", id)
		}
		return nil
	}

	report, err := r.engine.WatchlistReport(ctx, nil, tasks.ReportOpts{
		NumWorkers: r.cfg().API.Workers,
		RateLimit:  r.cfg().API.RateLimit,
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		export := formatter.FromReport(report, r.collection.Ratings(ctx), r.sessions.Current(ctx), r.now())
		return r.writeJSON(export.Watchlist, true)
	}

	r.writePlainHeader(fmt.Sprintf("Watchlist (%d)", len(report.Entries)))
	for i, entry := range report.Entries {
		line := fmt.Sprintf("%2d. %s", i+1, entry.Title())
		if entry.Detail != nil {
			if year := entry.Detail.Summary().Year(); year != "" {
				line += " (" + year + ")"
			}
		}
		if entry.Rating != nil {
			line += "  " + entry.Rating.Stars()
		}
		r.writePlain("%s  [%s]\n", line, entry.ID)
	}
	if report.Failed > 0 {
		r.writePlain("\n%d movie(s) could not be loaded\n", report.Failed)
	}
	return nil
}

func (r *Runner) watchlistIntent(ctx context.Context, cmd *cli.Command, kind tasks.IntentKind) error {
	id, err := movieArg(cmd)
	if err != nil {
		return err
	}
	if err := r.core(ctx); err != nil {
		return err
	}
	return r.dispatcher.Dispatch(ctx, tasks.Intent{Kind: kind, MovieID: id}).Err
}

// WatchlistAdd adds a movie to the watchlist.
func (r *Runner) WatchlistAdd(ctx context.Context, cmd *cli.Command) error {
	return r.watchlistIntent(ctx, cmd, tasks.IntentAddWatchlist)
}

// WatchlistRemove removes a movie from the watchlist.
func (r *Runner) WatchlistRemove(ctx context.Context, cmd *cli.Command) error {
	return r.watchlistIntent(ctx, cmd, tasks.IntentRemoveWatchlist)
}

// WatchlistToggle flips watchlist membership.
func (r *Runner) WatchlistToggle(ctx context.Context, cmd *cli.Command) error {
	return r.watchlistIntent(ctx, cmd, tasks.IntentToggleWatchlist)
}

// RatingsList prints every rating ordered by movie id.
func (r *Runner) RatingsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.core(ctx); err != nil {
		return err
	}

	ratings := r.collection.Ratings(ctx)
	if cmd.Bool("json") {
		return r.writeJSON(ratings, true)
	}
	if len(ratings) == 0 {
		return r.writePlain("No ratings yet\n")
	}

	ids := make([]models.MovieID, 0, len(ratings))
	for id := range ratings {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		rating := ratings[id]
		r.writePlain("%-10s %s  %s\n", id, rating.Stars(), rating.RatedAt.Local().Format("2006-01-02"))
	}
	return nil
}

// RatingsGet prints the rating for one movie.
func (r *Runner) RatingsGet(ctx context.Context, cmd *cli.Command) error {
	id, err := movieArg(cmd)
	if err != nil {
		return err
	}
	if err := r.core(ctx); err != nil {
		return err
	}

	rating, ok := r.collection.GetRating(ctx, id)
	if !ok {
		return r.writePlain("Movie %s is not rated\n", id)
	}
	return r.writePlain("%s  %s (%d/%d)\n", id, rating.Stars(), rating.Value, models.MaxRating)
}

// RatingsSet rates a movie from 1 to 5.
func (r *Runner) RatingsSet(ctx context.Context, cmd *cli.Command) error {
	id, err := movieArg(cmd)
	if err != nil {
		return err
	}

	raw := strings.TrimSpace(cmd.StringArg("value"))
	if raw == "" {
		return fmt.Errorf("%w: rating value", shared.ErrMissingArgument)
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: rating must be a number, got %q", shared.ErrInvalidArgument, raw)
	}

	if err := r.core(ctx); err != nil {
		return err
	}
	return r.dispatcher.Dispatch(ctx, tasks.Intent{Kind: tasks.IntentRate, MovieID: id, Rating: value}).Err
}
