package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/moviebot/internal/formatter"
	"github.com/desertthunder/moviebot/internal/shared"
	"github.com/desertthunder/moviebot/internal/tasks"
	"github.com/urfave/cli/v3"
)

func browseQuery(cmd *cli.Command, query string) tasks.BrowseQuery {
	return tasks.BrowseQuery{
		Query:     query,
		Genre:     cmd.String("genre"),
		Year:      cmd.String("year"),
		MinRating: cmd.Float("min-rating"),
		Filter:    cmd.String("filter"),
		Limit:     cmd.Int("limit"),
	}
}

// MoviesTrending lists the trending movies.
func (r *Runner) MoviesTrending(ctx context.Context, cmd *cli.Command) error {
	return r.browse(ctx, cmd, browseQuery(cmd, ""))
}

// MoviesSearch searches the proxy. An empty query falls back to trending.
func (r *Runner) MoviesSearch(ctx context.Context, cmd *cli.Command) error {
	return r.browse(ctx, cmd, browseQuery(cmd, cmd.StringArg("query")))
}

func (r *Runner) browse(ctx context.Context, cmd *cli.Command, q tasks.BrowseQuery) error {
	if err := r.core(ctx); err != nil {
		return err
	}

	r.logger.Info("browsing movies", "query", q.Query, "genre", q.Genre, "year", q.Year)
	res := r.engine.Browse(ctx, q)

	if cmd.Bool("json") {
		return r.writeJSON(res.Items, true)
	}

	if res.Err != nil {
		r.writePlain("✗ Could not load movies: %v\n", res.Err)
		return r.writePlain("Is the proxy running? Try 'moviebot api health'\n")
	}

	title := "Trending this week"
	if res.Source == "search" {
		title = fmt.Sprintf("Results for %q", q.Query)
	}
	r.writePlainHeader(fmt.Sprintf("%s (%d of %d)", title, len(res.Items), res.Total))

	if len(res.Items) == 0 {
		return r.writePlain("No movies found\n")
	}

	for i, item := range res.Items {
		mark := " "
		if item.InWatchlist {
			mark = "+"
		}
		line := fmt.Sprintf("%s %2d. %s", mark, i+1, item.Movie.DisplayTitle())
		if year := item.Movie.Year(); year != "" {
			line += " (" + year + ")"
		}
		line += "  " + formatter.FormatRating(item.Movie.VoteAverage)
		if item.Rating != nil {
			line += "  " + item.Rating.Stars()
		}
		r.writePlain("%s  [%s]\n", line, item.Movie.ID)
	}
	return nil
}

// MoviesShow prints details for one movie with its watchlist and rating state.
func (r *Runner) MoviesShow(ctx context.Context, cmd *cli.Command) error {
	id, err := movieArg(cmd)
	if err != nil {
		return err
	}
	if err := r.core(ctx); err != nil {
		return err
	}

	detail, item, err := r.engine.Details(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"movie":       detail,
			"inWatchlist": item.InWatchlist,
			"rating":      item.Rating,
		}, true)
	}

	r.writePlainHeader(detail.Title)
	if detail.Tagline != "" {
		r.writePlain("%s\n\n", detail.Tagline)
	}
	r.writePlain("Released:  %s\n", formatter.FormatDate(detail.ReleaseDate))
	r.writePlain("Runtime:   %s\n", formatter.FormatRuntime(detail.Runtime))
	r.writePlain("Rating:    %s (%d votes)\n", formatter.FormatRating(detail.VoteAverage), detail.VoteCount)
	if genres := detail.GenreNames(); len(genres) > 0 {
		r.writePlain("Genres:    %s\n", strings.Join(genres, ", "))
	}
	if directors := detail.Directors(); len(directors) > 0 {
		r.writePlain("Director:  %s\n", strings.Join(directors, ", "))
	}
	if detail.Budget > 0 {
		r.writePlain("Budget:    %s\n", formatter.FormatMoney(detail.Budget))
	}
	if detail.Revenue > 0 {
		r.writePlain("Revenue:   %s\n", formatter.FormatMoney(detail.Revenue))
	}

	if cast := detail.TopCast(5); len(cast) > 0 {
		r.writePlain("\nCast:\n")
		for _, c := range cast {
			r.writePlain("  %s as %s\n", c.Name, c.Character)
		}
	}
	if detail.Overview != "" {
		r.writePlain("\n%s\n", detail.Overview)
	}

	r.writePlain("\n")
	if item.InWatchlist {
		r.writePlain("✓ In your watchlist\n")
	}
	if item.Rating != nil {
		r.writePlain("Your rating: %s\n", item.Rating.Stars())
	}
	return r.writePlain("%s\n", shared.MovieWebURL(id.String()))
}

// MoviesOpen opens the TMDB page for a movie.
func (r *Runner) MoviesOpen(ctx context.Context, cmd *cli.Command) error {
	id, err := movieArg(cmd)
	if err != nil {
		return err
	}

	url := shared.MovieWebURL(id.String())
	r.logger.Info("opening browser", "url", url)
	if err := r.openURL(url); err != nil {
		r.writePlain("Could not open a browser, visit %s\n", url)
		return err
	}
	return nil
}
