package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/moviebot/internal/models"
	"github.com/desertthunder/moviebot/internal/shared"
)

// Proxy routes.
const (
	TrendingPath = "/api/tmdb/trending"
	SearchPath   = "/api/tmdb/search"
	MoviePath    = "/api/tmdb/movie/"
)

// TMDBService implements [Catalog] against the proxy.
type TMDBService struct {
	api *APIService
}

// NewTMDBService creates a TMDBService over api.
func NewTMDBService(api *APIService) *TMDBService {
	return &TMDBService{api: api}
}

// Trending fetches the trending listing.
func (s *TMDBService) Trending(ctx context.Context) ([]models.MovieSummary, error) {
	var listing models.Listing
	if err := s.api.GetJSON(ctx, TrendingPath, &listing); err != nil {
		return nil, fmt.Errorf("trending: %w", err)
	}
	return listing.Results, nil
}

// Search fetches movies matching query.
func (s *TMDBService) Search(ctx context.Context, query string) ([]models.MovieSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is empty", shared.ErrInvalidArgument)
	}

	var listing models.Listing
	path := SearchPath + "?q=" + url.QueryEscape(query)
	if err := s.api.GetJSON(ctx, path, &listing); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return listing.Results, nil
}

// Movie fetches the detail record for id.
func (s *TMDBService) Movie(ctx context.Context, id models.MovieID) (*models.MovieDetail, error) {
	id, err := models.ParseMovieID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	var detail models.MovieDetail
	if err := s.api.GetJSON(ctx, MoviePath+url.PathEscape(id.String()), &detail); err != nil {
		return nil, fmt.Errorf("movie %s: %w", id, err)
	}
	return &detail, nil
}
