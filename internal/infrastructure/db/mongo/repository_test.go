package mongo

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/KirilDora/movie-fullstack-app/internal/core/ports"
	"github.com/KirilDora/movie-fullstack-app/internal/infrastructure/db/storetest"
)

// Set MOVIES_TEST_MONGO_URI to run against a live server. Each run uses a
// throwaway database that is dropped afterwards.
func TestRepositoryContract(t *testing.T) {
	uri := os.Getenv("MOVIES_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("MOVIES_TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	name := "movies_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	client, db, err := Connect(ctx, Config{URI: uri, Database: name})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	require.NoError(t, EnsureIndexes(ctx, db))
	require.NoError(t, EnsureIndexes(ctx, db), "index creation must be re-runnable")

	storetest.Run(t, func(t *testing.T) (ports.UserRepository, ports.MovieRepository) {
		return NewUserRepository(db), NewMovieRepository(db)
	})
}

func TestNextIDIsSequential(t *testing.T) {
	uri := os.Getenv("MOVIES_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("MOVIES_TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	client, db, err := Connect(ctx, Config{URI: uri, Database: "movies_seq_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	for want := int64(1); want <= 3; want++ {
		got, err := nextID(ctx, db, "widgets")
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}
