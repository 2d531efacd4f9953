package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviebot/internal/collection"
	"github.com/desertthunder/moviebot/internal/models"
	"github.com/desertthunder/moviebot/internal/session"
	"github.com/desertthunder/moviebot/internal/shared"
)

// IntentKind names a user action a host forwards to the core.
type IntentKind string

const (
	IntentLogin           IntentKind = "login"
	IntentRegister        IntentKind = "register"
	IntentSocialLogin     IntentKind = "social_login"
	IntentLogout          IntentKind = "logout"
	IntentAddWatchlist    IntentKind = "add_watchlist"
	IntentRemoveWatchlist IntentKind = "remove_watchlist"
	IntentToggleWatchlist IntentKind = "toggle_watchlist"
	IntentRate            IntentKind = "rate"
)

// Intent is a user action. Only the fields relevant to Kind are read.
type Intent struct {
	Kind     IntentKind
	Email    string
	Password string
	Remember bool
	Register session.RegisterFields
	Provider string
	MovieID  models.MovieID
	Rating   int
}

// Outcome is the state after an intent has been handled.
type Outcome struct {
	Kind        IntentKind
	Session     *models.Session
	Changed     bool // watchlist add/remove actually changed the list
	InWatchlist bool
	Rating      *models.Rating
	Err         error
}

// Dispatcher routes intents to the session manager and collection.
//
// Notices and navigation are emitted by the core itself; the dispatcher only blocks until the
// action has settled so hosts can re-query state afterwards.
type Dispatcher struct {
	sessions   *session.Manager
	collection *collection.Collection
	logger     *log.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(sessions *session.Manager, coll *collection.Collection, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Dispatcher{
		sessions:   sessions,
		collection: coll,
		logger:     logger.With("component", "dispatch"),
	}
}

// Dispatch handles in and waits for login and registration attempts to complete.
func (d *Dispatcher) Dispatch(ctx context.Context, in Intent) Outcome {
	out := Outcome{Kind: in.Kind}

	switch in.Kind {
	case IntentLogin:
		out.Session, out.Err = d.sessions.Login(ctx, in.Email, in.Password, in.Remember).Wait(ctx)

	case IntentRegister:
		out.Session, out.Err = d.sessions.Register(ctx, in.Register).Wait(ctx)

	case IntentSocialLogin:
		out.Session, out.Err = d.sessions.LoginWithProvider(ctx, in.Provider)

	case IntentLogout:
		out.Err = d.sessions.Logout(ctx)

	case IntentAddWatchlist:
		out.Changed, out.Err = d.collection.AddToWatchlist(ctx, in.MovieID)
		out.InWatchlist = d.collection.IsInWatchlist(ctx, in.MovieID)

	case IntentRemoveWatchlist:
		out.Changed, out.Err = d.collection.RemoveFromWatchlist(ctx, in.MovieID)
		out.InWatchlist = d.collection.IsInWatchlist(ctx, in.MovieID)

	case IntentToggleWatchlist:
		out.InWatchlist, out.Err = d.collection.ToggleWatchlist(ctx, in.MovieID)
		out.Changed = out.Err == nil

	case IntentRate:
		var r models.Rating
		if r, out.Err = d.collection.RateMovie(ctx, in.MovieID, in.Rating); out.Err == nil {
			out.Rating = &r
		}

	default:
		out.Err = fmt.Errorf("%w: unknown intent %q", shared.ErrInvalidArgument, in.Kind)
	}

	if out.Err != nil {
		d.logger.Debug("intent failed", "kind", in.Kind, "err", out.Err)
	}
	if out.Session == nil && out.Err == nil {
		out.Session = d.sessions.Current(ctx)
	}
	return out
}
