package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/moviebot/internal/collection"
	"github.com/desertthunder/moviebot/internal/models"
	"github.com/desertthunder/moviebot/internal/repositories"
	"github.com/desertthunder/moviebot/internal/session"
	"github.com/desertthunder/moviebot/internal/shared"
	"github.com/desertthunder/moviebot/internal/storage"
	tu "github.com/desertthunder/moviebot/internal/testing"
)

var trending = []models.MovieSummary{
	{ID: "550", Title: "Fight Club", ReleaseDate: "1999-10-15", VoteAverage: 8.4, GenreIDs: []int{18}},
	{ID: "603", Title: "The Matrix", ReleaseDate: "1999-03-30", VoteAverage: 8.2, GenreIDs: []int{28, 878}},
	{ID: "27205", Title: "Inception", ReleaseDate: "2010-07-15", VoteAverage: 8.4, GenreIDs: []int{28, 878, 12}},
	{ID: "1399", Name: "Game of Thrones", FirstAirDate: "2011-04-17", VoteAverage: 8.5, GenreIDs: []int{18}, MediaType: "tv"},
	{ID: "13", Title: "Forrest Gump", ReleaseDate: "1994-06-23", VoteAverage: 8.5, GenreIDs: []int{35, 18, 10749}},
}

type harness struct {
	engine     *Engine
	dispatcher *Dispatcher
	catalog    *tu.MockCatalog
	coll       *collection.Collection
	sessions   *session.Manager
	rec        *tu.Recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := storage.New(repositories.NewMemoryRepository(), nil)
	rec := &tu.Recorder{}
	sessions := session.NewManager(session.Options{
		Store:     store,
		Notifier:  rec,
		Navigator: rec,
		Delayer:   tu.InstantDelayer{},
	})
	coll := collection.New(collection.Options{
		Store:     store,
		Sessions:  sessions,
		Notifier:  rec,
		Navigator: rec,
	})
	catalog := &tu.MockCatalog{
		TrendingResults: trending,
		SearchResults: map[string][]models.MovieSummary{
			"matrix": {trending[1]},
		},
		Details: map[models.MovieID]*models.MovieDetail{
			"550":   {ID: "550", Title: "Fight Club", Runtime: 139},
			"603":   {ID: "603", Title: "The Matrix", Runtime: 136},
			"27205": {ID: "27205", Title: "Inception", Runtime: 148},
		},
	}

	return &harness{
		engine:     NewEngine(catalog, coll, nil),
		dispatcher: NewDispatcher(sessions, coll, nil),
		catalog:    catalog,
		coll:       coll,
		sessions:   sessions,
		rec:        rec,
	}
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	out := h.dispatcher.Dispatch(context.Background(), Intent{Kind: IntentLogin, Email: "jane@example.com", Password: "hunter22"})
	if out.Err != nil {
		t.Fatalf("login failed: %v", out.Err)
	}
}

func ids(items []BrowseItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Movie.ID.String())
	}
	return out
}

func TestBrowse(t *testing.T) {
	ctx := context.Background()

	t.Run("Trending And Search", func(t *testing.T) {
		h := newHarness(t)

		res := h.engine.Browse(ctx, BrowseQuery{})
		if res.Source != "trending" || len(res.Items) != len(trending) || res.Err != nil {
			t.Errorf("unexpected trending result: %+v", res)
		}

		res = h.engine.Browse(ctx, BrowseQuery{Query: "  matrix "})
		if res.Source != "search" || len(res.Items) != 1 || res.Items[0].Movie.ID != "603" {
			t.Errorf("unexpected search result: %+v", res)
		}
		if h.catalog.Calls[len(h.catalog.Calls)-1] != "search:matrix" {
			t.Errorf("expected trimmed query, got %v", h.catalog.Calls)
		}
	})

	t.Run("Filters", func(t *testing.T) {
		h := newHarness(t)

		tests := []struct {
			name  string
			query BrowseQuery
			want  string
		}{
			{"genre", BrowseQuery{Genre: "science"}, "603,27205"},
			{"genre case insensitive", BrowseQuery{Genre: "DRAMA"}, "550,1399,13"},
			{"year", BrowseQuery{Year: "1999"}, "550,603"},
			{"decade fragment", BrowseQuery{Year: "201"}, "27205,1399"},
			{"min rating", BrowseQuery{MinRating: 8.45}, "1399,13"},
			{"combined", BrowseQuery{Genre: "action", Year: "2010", MinRating: 8}, "27205"},
			{"limit", BrowseQuery{Limit: 2}, "550,603"},
			{"fuzzy", BrowseQuery{Filter: "mtrx"}, "603"},
			{"no match", BrowseQuery{Genre: "western"}, ""},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				res := h.engine.Browse(ctx, tt.query)
				if got := strings.Join(ids(res.Items), ","); got != tt.want {
					t.Errorf("got %q, want %q", got, tt.want)
				}
				if res.Total != len(trending) {
					t.Errorf("expected total %d, got %d", len(trending), res.Total)
				}
			})
		}
	})

	t.Run("Annotates Collection State", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)
		h.dispatcher.Dispatch(ctx, Intent{Kind: IntentAddWatchlist, MovieID: "603"})
		h.dispatcher.Dispatch(ctx, Intent{Kind: IntentRate, MovieID: "550", Rating: 4})

		res := h.engine.Browse(ctx, BrowseQuery{})
		for _, it := range res.Items {
			switch it.Movie.ID {
			case "603":
				if !it.InWatchlist {
					t.Error("expected 603 to be marked in watchlist")
				}
			case "550":
				if it.Rating == nil || it.Rating.Value != 4 {
					t.Errorf("expected 550 rating 4, got %+v", it.Rating)
				}
			default:
				if it.InWatchlist || it.Rating != nil {
					t.Errorf("unexpected annotation on %s", it.Movie.ID)
				}
			}
		}
	})

	t.Run("Catalog Failure Degrades To Empty", func(t *testing.T) {
		h := newHarness(t)
		h.catalog.Err = shared.ErrAPIRequest

		res := h.engine.Browse(ctx, BrowseQuery{Query: "anything"})
		if res.Items == nil || len(res.Items) != 0 {
			t.Errorf("expected empty non-nil items, got %v", res.Items)
		}
		if !errors.Is(res.Err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", res.Err)
		}
	})

	t.Run("Details", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)
		h.dispatcher.Dispatch(ctx, Intent{Kind: IntentToggleWatchlist, MovieID: "27205"})

		detail, item, err := h.engine.Details(ctx, "27205")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if detail.Runtime != 148 || !item.InWatchlist {
			t.Errorf("unexpected detail %+v / %+v", detail, item)
		}

		if _, _, err := h.engine.Details(ctx, "404"); err == nil {
			t.Error("expected error for unknown movie")
		}
	})
}

func TestFuzzyFilter(t *testing.T) {
	t.Run("Empty Pattern Keeps Order", func(t *testing.T) {
		if got := FuzzyFilter(trending, " "); len(got) != len(trending) {
			t.Errorf("expected %d movies, got %d", len(trending), len(got))
		}
	})

	t.Run("Matches Name Fallback", func(t *testing.T) {
		got := FuzzyFilter(trending, "thrones")
		if len(got) != 1 || got[0].ID != "1399" {
			t.Errorf("expected Game of Thrones, got %+v", got)
		}
	})
}

func TestWatchlistReport(t *testing.T) {
	ctx := context.Background()

	t.Run("Fetches Details In Watchlist Order", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)
		for _, id := range []models.MovieID{"27205", "550", "999", "603"} {
			h.dispatcher.Dispatch(ctx, Intent{Kind: IntentAddWatchlist, MovieID: id})
		}
		h.dispatcher.Dispatch(ctx, Intent{Kind: IntentRate, MovieID: "603", Rating: 5})

		prog := make(chan ProgressUpdate, 16)
		report, err := h.engine.WatchlistReport(ctx, prog, ReportOpts{NumWorkers: 3, RateLimit: 1000})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Succeeded != 3 || report.Failed != 1 {
			t.Errorf("expected 3 ok / 1 failed, got %d / %d", report.Succeeded, report.Failed)
		}

		var titles []string
		for _, e := range report.Entries {
			titles = append(titles, e.Title())
		}
		want := "Inception,Fight Club,Unknown (999),The Matrix"
		if got := strings.Join(titles, ","); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
		if r := report.Entries[3].Rating; r == nil || r.Value != 5 {
			t.Errorf("expected rating on The Matrix, got %+v", r)
		}

		close(prog)
		var phases []Phase
		for u := range prog {
			phases = append(phases, u.Phase)
		}
		if len(phases) != 6 || phases[0] != FetchWatchlist || phases[5] != WriteReport {
			t.Errorf("expected watchlist, 4 detail and 1 report update, got %v", phases)
		}
	})

	t.Run("Empty Watchlist", func(t *testing.T) {
		h := newHarness(t)
		report, err := h.engine.WatchlistReport(ctx, nil, ReportOpts{})
		if err != nil || len(report.Entries) != 0 {
			t.Errorf("expected empty report, got %+v, %v", report, err)
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)
		h.dispatcher.Dispatch(ctx, Intent{Kind: IntentAddWatchlist, MovieID: "550"})
		h.dispatcher.Dispatch(ctx, Intent{Kind: IntentAddWatchlist, MovieID: "603"})

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		report, err := h.engine.WatchlistReport(cctx, nil, ReportOpts{})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if report.Failed+report.Succeeded != 2 {
			t.Errorf("expected every entry accounted for, got %+v", report)
		}
	})

	t.Run("Without Library", func(t *testing.T) {
		e := NewEngine(&tu.MockCatalog{}, nil, nil)
		if _, err := e.WatchlistReport(ctx, nil, ReportOpts{}); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestDispatcher(t *testing.T) {
	ctx := context.Background()

	t.Run("Login Waits For Attempt", func(t *testing.T) {
		h := newHarness(t)
		out := h.dispatcher.Dispatch(ctx, Intent{Kind: IntentLogin, Email: "jane@example.com", Password: "x", Remember: true})
		if out.Err != nil || out.Session == nil || out.Session.Name != "jane" {
			t.Fatalf("unexpected outcome: %+v", out)
		}
		if !h.sessions.Remembered(ctx) {
			t.Error("expected remember flag to persist")
		}
		if h.rec.LastLocation() != models.LocationHome {
			t.Errorf("expected navigation home, got %q", h.rec.LastLocation())
		}
	})

	t.Run("Register Validation", func(t *testing.T) {
		h := newHarness(t)
		out := h.dispatcher.Dispatch(ctx, Intent{Kind: IntentRegister, Register: session.RegisterFields{
			FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
			Password: "secret1", ConfirmPassword: "secret2", TermsAccepted: true,
		}})
		if !errors.Is(out.Err, shared.ErrPasswordMismatch) {
			t.Errorf("expected ErrPasswordMismatch, got %v", out.Err)
		}
		if out.Session != nil {
			t.Error("expected no session")
		}
	})

	t.Run("Social Login Then Logout", func(t *testing.T) {
		h := newHarness(t)
		out := h.dispatcher.Dispatch(ctx, Intent{Kind: IntentSocialLogin, Provider: "google"})
		if out.Err != nil || out.Session.Provider != models.ProviderGoogle {
			t.Fatalf("unexpected outcome: %+v", out)
		}

		h.dispatcher.Dispatch(ctx, Intent{Kind: IntentAddWatchlist, MovieID: "550"})
		h.dispatcher.Dispatch(ctx, Intent{Kind: IntentRate, MovieID: "550", Rating: 3})

		out = h.dispatcher.Dispatch(ctx, Intent{Kind: IntentLogout})
		if out.Err != nil || out.Session != nil {
			t.Fatalf("unexpected logout outcome: %+v", out)
		}
		if len(h.coll.Watchlist(ctx)) != 0 {
			t.Error("expected watchlist cleared on logout")
		}
		if _, ok := h.coll.GetRating(ctx, "550"); !ok {
			t.Error("expected rating to survive logout")
		}
	})

	t.Run("Watchlist Intents", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		steps := []struct {
			intent      IntentKind
			changed, in bool
		}{
			{IntentAddWatchlist, true, true},
			{IntentAddWatchlist, false, true},
			{IntentToggleWatchlist, true, false},
			{IntentToggleWatchlist, true, true},
			{IntentRemoveWatchlist, true, false},
			{IntentRemoveWatchlist, false, false},
		}
		for i, s := range steps {
			out := h.dispatcher.Dispatch(ctx, Intent{Kind: s.intent, MovieID: "603"})
			if out.Err != nil {
				t.Fatalf("step %d: unexpected error %v", i, out.Err)
			}
			if out.Changed != s.changed || out.InWatchlist != s.in {
				t.Errorf("step %d (%s): changed=%v in=%v, want %v %v", i, s.intent, out.Changed, out.InWatchlist, s.changed, s.in)
			}
		}
	})

	t.Run("Unauthenticated Rate", func(t *testing.T) {
		h := newHarness(t)
		out := h.dispatcher.Dispatch(ctx, Intent{Kind: IntentRate, MovieID: "603", Rating: 4})
		if !errors.Is(out.Err, shared.ErrNotAuthenticated) || out.Rating != nil {
			t.Errorf("unexpected outcome: %+v", out)
		}
		if h.rec.LastLocation() != models.LocationLogin {
			t.Errorf("expected navigation to login, got %q", h.rec.LastLocation())
		}
	})

	t.Run("Unknown Intent", func(t *testing.T) {
		h := newHarness(t)
		out := h.dispatcher.Dispatch(ctx, Intent{Kind: "dance"})
		if !errors.Is(out.Err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", out.Err)
		}
	})
}

func TestPhase(t *testing.T) {
	for p, want := range map[Phase]string{FetchWatchlist: "fetch_watchlist", FetchDetails: "fetch_details", WriteReport: "write_report", Phase(99): ""} {
		if p.String() != want {
			t.Errorf("Phase(%d).String() = %q, want %q", p, p.String(), want)
		}
	}
}
