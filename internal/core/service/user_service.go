package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/KirilDora/movie-fullstack-app/internal/api/metrics"
	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
	"github.com/KirilDora/movie-fullstack-app/internal/core/ports"
)

// UserService resolves usernames to user ids, creating users on first sight.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// Ensure returns the id of username, inserting the user when it does not exist.
// The unique index on username is the source of truth: when a concurrent call
// inserts the same username first, the resulting ErrUserExists is resolved by
// reading the winner's row.
func (s *UserService) Ensure(ctx context.Context, username string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, domain.ErrInvalidUsername
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return user.ID, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return 0, fmt.Errorf("resolve user: %w", err)
	}

	user, err = s.repo.Create(ctx, username)
	if errors.Is(err, domain.ErrUserExists) {
		metrics.UpsertRetriesTotal.WithLabelValues("resolve_user").Inc()
		s.logger.Warn().Str("username", username).Msg("user created concurrently, re-reading")

		user, err = s.repo.FindByUsername(ctx, username)
		if err != nil {
			return 0, fmt.Errorf("resolve user: re-read: %w", err)
		}
		return user.ID, nil
	}
	if err != nil {
		return 0, fmt.Errorf("resolve user: create: %w", err)
	}

	metrics.UsersCreatedTotal.Inc()
	s.logger.Info().Str("username", username).Int64("user_id", user.ID).Msg("user created")
	return user.ID, nil
}

// Lookup returns the id of an existing username. Unknown usernames yield
// domain.ErrUserNotFound; nothing is created.
func (s *UserService) Lookup(ctx context.Context, username string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, domain.ErrInvalidUsername
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("lookup user: %w", err)
	}
	return user.ID, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, domain.ErrUserNotFound
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
