// package tasks connects hosts to the core: it routes user intents, assembles browse listings
// and runs concurrent detail lookups for the watchlist.
package tasks

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviebot/internal/models"
	"github.com/desertthunder/moviebot/internal/services"
	"github.com/sahilm/fuzzy"
)

// Library is the read side of the collection the engine annotates listings with.
type Library interface {
	Watchlist(ctx context.Context) []models.MovieID
	Ratings(ctx context.Context) map[models.MovieID]models.Rating
}

// BrowseQuery selects and filters a listing.
//
// An empty Query lists trending movies. Filters left at their zero value are ignored.
type BrowseQuery struct {
	Query     string  // server-side search term
	Genre     string  // case-insensitive genre name fragment
	Year      string  // release year fragment, e.g. "2024" or "199"
	MinRating float64 // minimum vote average
	Filter    string  // fuzzy title filter applied locally
	Limit     int     // maximum items returned; 0 means all
}

// BrowseItem is one listing entry with the local collection state attached.
type BrowseItem struct {
	Movie       models.MovieSummary
	InWatchlist bool
	Rating      *models.Rating
}

// BrowseResult is the outcome of [Engine.Browse].
type BrowseResult struct {
	Source string // "trending" or "search"
	Items  []BrowseItem
	Total  int   // entries returned by the catalog before local filtering
	Err    error // collaborator failure; Items is empty when set
}

// Engine reads the catalog on behalf of the hosts.
type Engine struct {
	catalog services.Catalog
	library Library
	logger  *log.Logger
}

// NewEngine creates an Engine. library may be nil, in which case nothing is annotated.
func NewEngine(catalog services.Catalog, library Library, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{
		catalog: catalog,
		library: library,
		logger:  logger.With("component", "tasks"),
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Browse fetches trending movies or search results and applies the local filters.
//
// A catalog failure yields an empty listing with Err set and a logged diagnostic; it never panics
// or returns partial data.
func (e *Engine) Browse(ctx context.Context, q BrowseQuery) BrowseResult {
	var (
		movies []models.MovieSummary
		err    error
		res    BrowseResult
	)

	if query := strings.TrimSpace(q.Query); query != "" {
		res.Source = "search"
		movies, err = e.catalog.Search(ctx, query)
	} else {
		res.Source = "trending"
		movies, err = e.catalog.Trending(ctx)
	}
	if err != nil {
		e.logger.Error("metadata load failed", "source", res.Source, "err", err)
		res.Items = []BrowseItem{}
		res.Err = err
		return res
	}

	res.Total = len(movies)
	movies = filterMovies(movies, q)
	if q.Limit > 0 && len(movies) > q.Limit {
		movies = movies[:q.Limit]
	}

	res.Items = e.annotate(ctx, movies)
	e.logger.Debug("browse", "source", res.Source, "total", res.Total, "shown", len(res.Items))
	return res
}

// Details fetches a single movie with its collection state.
func (e *Engine) Details(ctx context.Context, id models.MovieID) (*models.MovieDetail, BrowseItem, error) {
	detail, err := e.catalog.Movie(ctx, id)
	if err != nil {
		e.logger.Error("movie detail load failed", "id", id, "err", err)
		return nil, BrowseItem{}, err
	}
	items := e.annotate(ctx, []models.MovieSummary{detail.Summary()})
	return detail, items[0], nil
}

func (e *Engine) annotate(ctx context.Context, movies []models.MovieSummary) []BrowseItem {
	items := make([]BrowseItem, 0, len(movies))

	var (
		watch   map[models.MovieID]struct{}
		ratings map[models.MovieID]models.Rating
	)
	if e.library != nil {
		watch = make(map[models.MovieID]struct{})
		for _, id := range e.library.Watchlist(ctx) {
			watch[id] = struct{}{}
		}
		ratings = e.library.Ratings(ctx)
	}

	for _, m := range movies {
		item := BrowseItem{Movie: m}
		if _, ok := watch[m.ID]; ok {
			item.InWatchlist = true
		}
		if r, ok := ratings[m.ID]; ok {
			item.Rating = &r
		}
		items = append(items, item)
	}
	return items
}

// filterMovies applies genre, year and rating filters in listing order, then the fuzzy title
// filter, which reorders by match score.
func filterMovies(movies []models.MovieSummary, q BrowseQuery) []models.MovieSummary {
	year := strings.TrimSpace(q.Year)

	kept := make([]models.MovieSummary, 0, len(movies))
	for _, m := range movies {
		if !m.HasGenre(q.Genre) {
			continue
		}
		if year != "" && !strings.Contains(m.Year(), year) {
			continue
		}
		if q.MinRating > 0 && m.VoteAverage < q.MinRating {
			continue
		}
		kept = append(kept, m)
	}

	return FuzzyFilter(kept, q.Filter)
}

// titles adapts a listing to [fuzzy.Source].
type titles []models.MovieSummary

func (t titles) String(i int) string { return t[i].DisplayTitle() }
func (t titles) Len() int            { return len(t) }

// FuzzyFilter keeps movies whose title fuzzily matches pattern, best match first.
// An empty pattern returns movies unchanged.
func FuzzyFilter(movies []models.MovieSummary, pattern string) []models.MovieSummary {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return movies
	}

	matches := fuzzy.FindFrom(pattern, titles(movies))
	out := make([]models.MovieSummary, 0, len(matches))
	for _, match := range matches {
		out = append(out, movies[match.Index])
	}
	return out
}
