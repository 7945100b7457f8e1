package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
	"github.com/KirilDora/movie-fullstack-app/internal/core/ports"
	"github.com/KirilDora/movie-fullstack-app/internal/core/service"
	"github.com/KirilDora/movie-fullstack-app/internal/infrastructure/db/storetest"

	"github.com/rs/zerolog"
)

func openTestDB(t *testing.T) (*UserRepository, *MovieRepository) {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "movies.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepository(db), NewMovieRepository(db)
}

func TestRepositoryContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) (ports.UserRepository, ports.MovieRepository) {
		return openTestDB(t)
	})
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.db")

	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	users := NewUserRepository(db)
	_, err = users.Create(context.Background(), "alice")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	reopened, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer reopened.Close()

	u, err := NewUserRepository(reopened).FindByUsername(context.Background(), "alice")
	require.NoError(t, err, "schema re-application must keep existing rows")
	require.Equal(t, "alice", u.Username)
}

// The services over a real store: three toggles on an unseen title leave one
// row that ends as a favorite.
func TestToggleFavorite_AgainstSQLite(t *testing.T) {
	users, movies := openTestDB(t)
	userSvc := service.NewUserService(users, zerolog.Nop())
	movieSvc := service.NewMovieService(movies, userSvc, zerolog.Nop())
	ctx := context.Background()

	alice, err := userSvc.Ensure(ctx, "alice")
	require.NoError(t, err)

	fields := domain.MovieFields{Title: "Inception", Year: 2010, Director: "Christopher Nolan"}
	wantFavorite := []bool{true, false, true}
	for i, want := range wantFavorite {
		res, err := movieSvc.ToggleFavorite(ctx, alice, fields)
		require.NoError(t, err)
		require.Equal(t, i == 0, res.Created, "toggle %d", i+1)
		require.Equal(t, want, res.Movie.IsFavorite, "toggle %d", i+1)
	}

	list, err := movieSvc.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.True(t, list[0].IsFavorite)
}
