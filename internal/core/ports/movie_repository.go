package ports

import (
	"context"

	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
)

// MovieRepository defines persistence operations for movies.
// Every method is scoped to the owning user id; a row owned by someone else
// behaves exactly like a missing row (domain.ErrMovieNotFound).
type MovieRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.Movie, error)
	// Create returns domain.ErrMovieExists on a (user, title, year) collision.
	Create(ctx context.Context, userID int64, fields domain.MovieFields) (*domain.Movie, error)
	Update(ctx context.Context, id, userID int64, fields domain.MovieFields) (*domain.Movie, error)
	Delete(ctx context.Context, id, userID int64) error
	FindByTitleYear(ctx context.Context, userID int64, title string, year int) (*domain.Movie, error)
	// FlipFavorite negates the stored is_favorite flag in a single statement.
	FlipFavorite(ctx context.Context, id, userID int64) (*domain.Movie, error)
}
