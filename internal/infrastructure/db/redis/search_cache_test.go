package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
)

func TestSearchKey(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"Inception", "omdb:search:inception"},
		{"  The Matrix ", "omdb:search:the matrix"},
		{"ALIEN", "omdb:search:alien"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, searchKey(tt.query), tt.query)
	}
}

func TestNewSearchCache_DefaultTTL(t *testing.T) {
	assert.Equal(t, defaultCacheTTL, NewSearchCache(nil, 0).ttl)
	assert.Equal(t, time.Minute, NewSearchCache(nil, time.Minute).ttl)
}

// Set MOVIES_TEST_REDIS_ADDR to run against a live server.
func TestSearchCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("MOVIES_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MOVIES_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cache := NewSearchCache(client, time.Minute)
	query := "Inception " + uuid.NewString()
	t.Cleanup(func() { client.Del(context.Background(), searchKey(query)) })

	_, ok, err := cache.Get(ctx, query)
	require.NoError(t, err)
	assert.False(t, ok)

	want := []domain.Movie{domain.NewSearchResult("Inception", 2010, "148 min", "Sci-Fi", "Christopher Nolan")}
	require.NoError(t, cache.Set(ctx, query, want))

	got, ok, err := cache.Get(ctx, query)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	empty := "no-such-title " + uuid.NewString()
	t.Cleanup(func() { client.Del(context.Background(), searchKey(empty)) })
	require.NoError(t, cache.Set(ctx, empty, []domain.Movie{}))
	got, ok, err = cache.Get(ctx, empty)
	require.NoError(t, err)
	assert.True(t, ok, "an empty result is still a hit")
	assert.Empty(t, got)

	ttl, err := client.TTL(ctx, searchKey(query)).Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)
}
