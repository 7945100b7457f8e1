package ports

import (
	"context"

	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
)

// ToggleResult is returned by ToggleFavorite.
type ToggleResult struct {
	Movie domain.Movie
	// Created is true when the toggle inserted a new row instead of flipping one.
	Created bool
}

// MovieService defines the owner-scoped catalog use cases.
type MovieService interface {
	List(ctx context.Context, username string) ([]domain.Movie, error)
	Create(ctx context.Context, userID int64, fields domain.MovieFields) (*domain.Movie, error)
	Update(ctx context.Context, id, userID int64, fields domain.MovieFields) (*domain.Movie, error)
	Delete(ctx context.Context, id, userID int64) error
	ToggleFavorite(ctx context.Context, userID int64, fields domain.MovieFields) (*ToggleResult, error)
}
