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

type searchService struct {
	provider ports.MovieProvider
	cache    ports.SearchCache
	log      zerolog.Logger
}

// NewSearchService returns a SearchService backed by provider. cache may be
// nil, in which case every search goes to the provider.
func NewSearchService(provider ports.MovieProvider, cache ports.SearchCache, log zerolog.Logger) ports.SearchService {
	return &searchService{provider: provider, cache: cache, log: log}
}

// Search returns zero or one reshaped records for title. No match is an empty
// slice, never an error.
func (s *searchService) Search(ctx context.Context, title string) ([]domain.Movie, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.ErrSearchQueryRequired
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, title)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("query", title).Msg("search cache read failed")
		case ok:
			metrics.SearchCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.SearchCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	movie, err := s.provider.FindByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, domain.ErrSearchNotConfigured) {
			return nil, err
		}
		s.log.Error().Err(err).Str("query", title).Msg("search provider failed")
		return nil, fmt.Errorf("search %q: %w", title, domain.ErrSearchUnavailable)
	}

	results := []domain.Movie{}
	if movie != nil {
		results = append(results, *movie)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, title, results); err != nil {
			s.log.Warn().Err(err).Str("query", title).Msg("search cache write failed")
		}
	}
	return results, nil
}
