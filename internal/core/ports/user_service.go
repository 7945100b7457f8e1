package ports

import (
	"context"

	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
)

// UserService resolves self-reported usernames to user ids.
type UserService interface {
	// Ensure returns the id for username, creating the user on first sight.
	Ensure(ctx context.Context, username string) (int64, error)
	// Lookup returns the id for an existing username without creating it.
	Lookup(ctx context.Context, username string) (int64, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
}
