package services

import (
	"context"

	"github.com/desertthunder/moviebot/internal/models"
)

// Catalog is the movie metadata read contract.
type Catalog interface {
	// Trending returns this week's trending movies.
	Trending(ctx context.Context) ([]models.MovieSummary, error)

	// Search returns movies and shows matching query.
	Search(ctx context.Context, query string) ([]models.MovieSummary, error)

	// Movie returns the detail record for id, with credits, keywords and images.
	Movie(ctx context.Context, id models.MovieID) (*models.MovieDetail, error)
}
