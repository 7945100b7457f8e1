package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/KirilDora/movie-fullstack-app/internal/api/metrics"
	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
	"github.com/KirilDora/movie-fullstack-app/internal/core/ports"
)

// maxToggleAttempts bounds the find-then-act loop of ToggleFavorite when it
// keeps losing races against concurrent writers.
const maxToggleAttempts = 3

type MovieService struct {
	movies ports.MovieRepository
	users  ports.UserService
	logger zerolog.Logger
}

func NewMovieService(movies ports.MovieRepository, users ports.UserService, logger zerolog.Logger) *MovieService {
	return &MovieService{movies: movies, users: users, logger: logger}
}

// List returns every movie owned by username. Unknown usernames are not
// created here; they yield domain.ErrUserNotFound.
func (s *MovieService) List(ctx context.Context, username string) ([]domain.Movie, error) {
	userID, err := s.users.Lookup(ctx, username)
	if err != nil {
		return nil, err
	}

	movies, err := s.movies.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	if movies == nil {
		movies = []domain.Movie{}
	}
	return movies, nil
}

func (s *MovieService) Create(ctx context.Context, userID int64, fields domain.MovieFields) (*domain.Movie, error) {
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	movie, err := s.movies.Create(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, domain.ErrMovieExists) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to create movie")
		return nil, fmt.Errorf("create movie: %w", err)
	}

	metrics.MovieMutationsTotal.WithLabelValues("create").Inc()
	s.logger.Info().Int64("movie_id", movie.ID).Int64("user_id", userID).Msg("movie created")
	return movie, nil
}

// Update replaces every mutable field of the movie identified by id and owned
// by userID.
func (s *MovieService) Update(ctx context.Context, id, userID int64, fields domain.MovieFields) (*domain.Movie, error) {
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	movie, err := s.movies.Update(ctx, id, userID, fields)
	if err != nil {
		if errors.Is(err, domain.ErrMovieNotFound) || errors.Is(err, domain.ErrMovieExists) {
			return nil, err
		}
		return nil, fmt.Errorf("update movie: %w", err)
	}

	metrics.MovieMutationsTotal.WithLabelValues("update").Inc()
	s.logger.Info().Int64("movie_id", id).Int64("user_id", userID).Msg("movie updated")
	return movie, nil
}

func (s *MovieService) Delete(ctx context.Context, id, userID int64) error {
	if err := s.movies.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, domain.ErrMovieNotFound) {
			return err
		}
		return fmt.Errorf("delete movie: %w", err)
	}

	metrics.MovieMutationsTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Int64("movie_id", id).Int64("user_id", userID).Msg("movie deleted")
	return nil
}

// ToggleFavorite flips is_favorite on the user's (title, year) entry, or
// creates the entry as a favorite when it does not exist yet.
//
// The unique (user_id, title, year) index arbitrates concurrent toggles: an
// insert that loses the race comes back as ErrMovieExists and is retried as a
// flip, and a row deleted between the lookup and the flip is retried as an
// insert.
func (s *MovieService) ToggleFavorite(ctx context.Context, userID int64, fields domain.MovieFields) (*ports.ToggleResult, error) {
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxToggleAttempts; attempt++ {
		existing, err := s.movies.FindByTitleYear(ctx, userID, fields.Title, fields.Year)
		switch {
		case err == nil:
			movie, err := s.movies.FlipFavorite(ctx, existing.ID, userID)
			if errors.Is(err, domain.ErrMovieNotFound) {
				s.retried(userID, fields, attempt)
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("toggle favorite: flip: %w", err)
			}
			metrics.FavoriteTogglesTotal.WithLabelValues("flipped").Inc()
			return &ports.ToggleResult{Movie: *movie}, nil

		case errors.Is(err, domain.ErrMovieNotFound):
			fields.IsFavorite = true
			movie, err := s.movies.Create(ctx, userID, fields)
			if errors.Is(err, domain.ErrMovieExists) {
				s.retried(userID, fields, attempt)
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("toggle favorite: create: %w", err)
			}
			metrics.FavoriteTogglesTotal.WithLabelValues("created").Inc()
			s.logger.Info().Int64("movie_id", movie.ID).Int64("user_id", userID).Msg("favorite created")
			return &ports.ToggleResult{Movie: *movie, Created: true}, nil

		default:
			return nil, fmt.Errorf("toggle favorite: find: %w", err)
		}
	}

	return nil, fmt.Errorf("toggle favorite: %d attempts: %w", maxToggleAttempts, domain.ErrMovieExists)
}

func (s *MovieService) retried(userID int64, fields domain.MovieFields, attempt int) {
	metrics.UpsertRetriesTotal.WithLabelValues("toggle_favorite").Inc()
	s.logger.Warn().
		Int64("user_id", userID).
		Str("title", fields.Title).
		Int("year", fields.Year).
		Int("attempt", attempt).
		Msg("favorite toggle raced a concurrent writer, retrying")
}
