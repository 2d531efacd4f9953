package collection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviebot/internal/models"
	"github.com/desertthunder/moviebot/internal/notify"
	"github.com/desertthunder/moviebot/internal/shared"
	"github.com/desertthunder/moviebot/internal/storage"
)

// Notice messages.
const (
	MsgLoginToAdd     = "Please login to add movies to your watchlist"
	MsgLoginToManage  = "Please login to manage your watchlist"
	MsgLoginToRate    = "Please login to rate movies"
	MsgAlreadyPresent = "Movie is already in your watchlist"
	MsgAdded          = "Movie added to your watchlist!"
	MsgRemoved        = "Movie removed from watchlist"
)

// Sessions reports the active session.
type Sessions interface {
	Current(ctx context.Context) *models.Session
}

// Options configures a [Collection]. Store and Sessions are required.
type Options struct {
	Store     *storage.Store
	Sessions  Sessions
	Notifier  notify.Notifier
	Navigator notify.Navigator
	Logger    *log.Logger
	Now       func() time.Time
}

// Collection is the watchlist and ratings store.
type Collection struct {
	store     *storage.Store
	sessions  Sessions
	notifier  notify.Notifier
	navigator notify.Navigator
	logger    *log.Logger
	now       func() time.Time
}

// New creates a Collection.
func New(opts Options) *Collection {
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard{}
	}
	if opts.Navigator == nil {
		opts.Navigator = notify.Discard{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Collection{
		store:     opts.Store,
		sessions:  opts.Sessions,
		notifier:  opts.Notifier,
		navigator: opts.Navigator,
		logger:    opts.Logger.With("component", "collection"),
		now:       opts.Now,
	}
}

// Watchlist returns the watchlist in insertion order.
func (c *Collection) Watchlist(ctx context.Context) []models.MovieID {
	return dedupe(storage.Get(ctx, c.store, models.KeyWatchlist, []models.MovieID{}))
}

// IsInWatchlist reports whether id is on the watchlist.
func (c *Collection) IsInWatchlist(ctx context.Context, id models.MovieID) bool {
	id, err := models.ParseMovieID(id)
	if err != nil {
		return false
	}
	_, ok := toSet(c.Watchlist(ctx))[id]
	return ok
}

// AddToWatchlist adds id and reports whether it was newly added.
//
// Adding an id already present writes nothing and returns false with an informational notice.
func (c *Collection) AddToWatchlist(ctx context.Context, id models.MovieID) (bool, error) {
	session, id, err := c.prepare(ctx, id, MsgLoginToAdd)
	if err != nil {
		return false, err
	}

	added, err := c.add(ctx, id)
	if err != nil {
		return false, err
	}
	if !added {
		c.notifier.Notify(MsgAlreadyPresent, models.NoticeInfo)
		return false, nil
	}

	c.logger.Debug("watchlist add", "movie", id, "session", session.ID)
	c.notifier.Notify(MsgAdded, models.NoticeSuccess)
	return true, nil
}

// RemoveFromWatchlist removes id and reports whether it was present. Removing an absent id is a no-op.
func (c *Collection) RemoveFromWatchlist(ctx context.Context, id models.MovieID) (bool, error) {
	session, id, err := c.prepare(ctx, id, MsgLoginToManage)
	if err != nil {
		return false, err
	}

	removed, err := c.remove(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		c.logger.Debug("watchlist remove", "movie", id, "session", session.ID)
		c.notifier.Notify(MsgRemoved, models.NoticeInfo)
	}
	return removed, nil
}

// ToggleWatchlist adds id when absent and removes it when present, returning the new membership.
func (c *Collection) ToggleWatchlist(ctx context.Context, id models.MovieID) (bool, error) {
	_, id, err := c.prepare(ctx, id, MsgLoginToAdd)
	if err != nil {
		return false, err
	}

	if c.IsInWatchlist(ctx, id) {
		if _, err := c.RemoveFromWatchlist(ctx, id); err != nil {
			return true, err
		}
		return false, nil
	}

	if _, err := c.AddToWatchlist(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

// RateMovie stores value for id, replacing any earlier rating.
func (c *Collection) RateMovie(ctx context.Context, id models.MovieID, value int) (models.Rating, error) {
	session, id, err := c.prepare(ctx, id, MsgLoginToRate)
	if err != nil {
		return models.Rating{}, err
	}

	if !models.ValidRating(value) {
		err := fmt.Errorf("%w: rating %d outside %d-%d", shared.ErrValidation, value, models.MinRating, models.MaxRating)
		c.logger.Error("rejected rating", "movie", id, "value", value)
		return models.Rating{}, err
	}

	r := models.Rating{Value: value, RatedAt: c.now().UTC(), UserID: session.ID}
	err = storage.Update(ctx, c.store, models.KeyRatings, map[models.MovieID]models.Rating{},
		func(ratings map[models.MovieID]models.Rating) (map[models.MovieID]models.Rating, error) {
			if ratings == nil {
				ratings = map[models.MovieID]models.Rating{}
			}
			ratings[id] = r
			return ratings, nil
		})
	if err != nil {
		return models.Rating{}, fmt.Errorf("failed to save rating: %w", err)
	}

	c.notifier.Notify(ratedMessage(value), models.NoticeSuccess)
	return r, nil
}

// GetRating returns the rating for id, if any.
func (c *Collection) GetRating(ctx context.Context, id models.MovieID) (models.Rating, bool) {
	id, err := models.ParseMovieID(id)
	if err != nil {
		return models.Rating{}, false
	}
	r, ok := c.Ratings(ctx)[id]
	return r, ok
}

// Ratings returns a copy of every stored rating.
func (c *Collection) Ratings(ctx context.Context) map[models.MovieID]models.Rating {
	stored := storage.Get(ctx, c.store, models.KeyRatings, map[models.MovieID]models.Rating{})
	if stored == nil {
		return map[models.MovieID]models.Rating{}
	}
	return maps.Clone(stored)
}

func ratedMessage(value int) string {
	if value == 1 {
		return "You rated this movie 1 star"
	}
	return fmt.Sprintf("You rated this movie %d stars", value)
}

// prepare checks for a session and normalizes id. Failures are reported to the ports.
func (c *Collection) prepare(ctx context.Context, id models.MovieID, loginMessage string) (*models.Session, models.MovieID, error) {
	session := c.sessions.Current(ctx)
	if session == nil {
		c.notifier.Notify(loginMessage, models.NoticeWarning)
		c.navigator.Navigate(models.LocationLogin)
		return nil, "", shared.ErrNotAuthenticated
	}

	normalized, err := models.ParseMovieID(id)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	return session, normalized, nil
}

func (c *Collection) add(ctx context.Context, id models.MovieID) (bool, error) {
	err := storage.Update(ctx, c.store, models.KeyWatchlist, []models.MovieID{},
		func(ids []models.MovieID) ([]models.MovieID, error) {
			ids = dedupe(ids)
			if _, ok := toSet(ids)[id]; ok {
				return nil, errUnchanged
			}
			return append(ids, id), nil
		})
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to save watchlist: %w", err)
	}
	return true, nil
}

func (c *Collection) remove(ctx context.Context, id models.MovieID) (bool, error) {
	err := storage.Update(ctx, c.store, models.KeyWatchlist, []models.MovieID{},
		func(ids []models.MovieID) ([]models.MovieID, error) {
			ids = dedupe(ids)
			out := make([]models.MovieID, 0, len(ids))
			for _, existing := range ids {
				if existing != id {
					out = append(out, existing)
				}
			}
			if len(out) == len(ids) {
				return nil, errUnchanged
			}
			return out, nil
		})
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to save watchlist: %w", err)
	}
	return true, nil
}

// errUnchanged aborts an update that would not change the stored value.
var errUnchanged = errors.New("unchanged")

func toSet(ids []models.MovieID) map[models.MovieID]struct{} {
	set := make(map[models.MovieID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// dedupe drops repeated and empty ids, keeping first occurrences.
func dedupe(ids []models.MovieID) []models.MovieID {
	seen := make(map[models.MovieID]struct{}, len(ids))
	out := make([]models.MovieID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
