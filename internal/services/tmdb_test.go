package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/moviebot/internal/models"
	"github.com/desertthunder/moviebot/internal/shared"
)

func newProxy(t *testing.T) (*TMDBService, *[]string) {
	t.Helper()
	var seen []string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/tmdb/trending", func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.RequestURI())
		w.Write([]byte(`{"page":1,"results":[{"id":550,"title":"Fight Club"},{"id":"1399","name":"Game of Thrones","media_type":"tv"}]}`))
	})
	mux.HandleFunc("/api/tmdb/search", func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.RequestURI())
		if r.URL.Query().Get("q") != "blade runner" {
			t.Errorf("expected decoded query 'blade runner', got %q", r.URL.Query().Get("q"))
		}
		w.Write([]byte(`{"results":[{"id":78,"title":"Blade Runner"}]}`))
	})
	mux.HandleFunc("/api/tmdb/movie/", func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.RequestURI())
		if r.URL.Path != "/api/tmdb/movie/603" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"id":603,"title":"The Matrix","runtime":136,"credits":{"cast":[{"name":"Keanu Reeves"}]}}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return NewTMDBService(NewAPIService(server.URL, nil)), &seen
}

func TestTMDBService(t *testing.T) {
	ctx := context.Background()

	t.Run("Trending", func(t *testing.T) {
		svc, seen := newProxy(t)
		movies, err := svc.Trending(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(movies) != 2 {
			t.Fatalf("expected 2 results, got %d", len(movies))
		}
		if movies[0].ID != "550" || movies[1].ID != "1399" {
			t.Errorf("expected ids normalized to strings, got %q and %q", movies[0].ID, movies[1].ID)
		}
		if movies[1].DisplayTitle() != "Game of Thrones" {
			t.Errorf("expected name fallback, got %q", movies[1].DisplayTitle())
		}
		if (*seen)[0] != TrendingPath {
			t.Errorf("expected %s, got %s", TrendingPath, (*seen)[0])
		}
	})

	t.Run("Search", func(t *testing.T) {
		svc, seen := newProxy(t)
		movies, err := svc.Search(ctx, "  blade runner ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(movies) != 1 || movies[0].Title != "Blade Runner" {
			t.Errorf("unexpected results: %+v", movies)
		}
		if (*seen)[0] != "/api/tmdb/search?q=blade+runner" {
			t.Errorf("unexpected request uri %s", (*seen)[0])
		}

		t.Run("Empty Query", func(t *testing.T) {
			if _, err := svc.Search(ctx, "   "); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	})

	t.Run("Movie", func(t *testing.T) {
		svc, _ := newProxy(t)
		detail, err := svc.Movie(ctx, models.MovieID("603"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if detail.Title != "The Matrix" || detail.Runtime != 136 {
			t.Errorf("unexpected detail: %+v", detail)
		}
		if cast := detail.TopCast(1); len(cast) != 1 || cast[0].Name != "Keanu Reeves" {
			t.Errorf("expected credits to decode, got %+v", cast)
		}

		t.Run("Not Found", func(t *testing.T) {
			if _, err := svc.Movie(ctx, "1"); !errors.Is(err, shared.ErrMovieNotFound) {
				t.Errorf("expected ErrMovieNotFound, got %v", err)
			}
		})

		t.Run("Empty ID", func(t *testing.T) {
			if _, err := svc.Movie(ctx, ""); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	})

	t.Run("Satisfies Catalog", func(t *testing.T) {
		var _ Catalog = (*TMDBService)(nil)
	})
}
