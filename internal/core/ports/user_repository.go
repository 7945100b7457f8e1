package ports

import (
	"context"

	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// FindByUsername returns domain.ErrUserNotFound when no row matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// Create returns domain.ErrUserExists when the username is already taken.
	Create(ctx context.Context, username string) (*domain.User, error)
}
