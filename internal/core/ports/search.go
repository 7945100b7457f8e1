package ports

import (
	"context"

	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
)

// MovieProvider looks a title up in an external movie database.
// A missing match is reported as (nil, nil), not as an error.
type MovieProvider interface {
	FindByTitle(ctx context.Context, title string) (*domain.Movie, error)
}

// SearchCache stores reshaped provider results by query.
type SearchCache interface {
	Get(ctx context.Context, query string) ([]domain.Movie, bool, error)
	Set(ctx context.Context, query string, movies []domain.Movie) error
}

// SearchService proxies title searches to the external provider.
type SearchService interface {
	Search(ctx context.Context, title string) ([]domain.Movie, error)
}
