package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
)

const (
	searchKeyPrefix = "omdb:search:"
	defaultCacheTTL = time.Hour
)

// SearchCache stores reshaped search results as JSON.
// Key format: omdb:search:<lowercased query>
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSearchCache wraps client. A non-positive ttl falls back to one hour.
func NewSearchCache(client *redis.Client, ttl time.Duration) *SearchCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &SearchCache{client: client, ttl: ttl}
}

// Get reports a miss as (nil, false, nil).
func (c *SearchCache) Get(ctx context.Context, query string) ([]domain.Movie, bool, error) {
	raw, err := c.client.Get(ctx, searchKey(query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("search cache get: %w", err)
	}

	var movies []domain.Movie
	if err := json.Unmarshal(raw, &movies); err != nil {
		return nil, false, fmt.Errorf("search cache decode: %w", err)
	}
	if movies == nil {
		movies = []domain.Movie{}
	}
	return movies, true, nil
}

func (c *SearchCache) Set(ctx context.Context, query string, movies []domain.Movie) error {
	raw, err := json.Marshal(movies)
	if err != nil {
		return fmt.Errorf("search cache encode: %w", err)
	}
	return c.client.Set(ctx, searchKey(query), raw, c.ttl).Err()
}

func searchKey(query string) string {
	return searchKeyPrefix + strings.ToLower(strings.TrimSpace(query))
}
