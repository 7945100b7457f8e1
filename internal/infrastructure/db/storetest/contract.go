// Package storetest holds the behavioural contract every store backend must
// satisfy. Backend packages run it from their own tests against a live store.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
	"github.com/KirilDora/movie-fullstack-app/internal/core/ports"
)

// Factory returns fresh, empty repositories for one sub-test.
type Factory func(t *testing.T) (ports.UserRepository, ports.MovieRepository)

var seq atomic.Int64

// uniqueName keeps sub-tests independent when a backend shares one database.
func uniqueName(base string) string {
	return fmt.Sprintf("%s-%d", base, seq.Add(1))
}

func inception() domain.MovieFields {
	return domain.MovieFields{
		Title:    "Inception",
		Year:     2010,
		Runtime:  "148 min",
		Genre:    "Sci-Fi",
		Director: "Christopher Nolan",
	}
}

// Run executes the repository contract.
func Run(t *testing.T, newRepos Factory) {
	tests := []struct {
		name  string
		check func(t *testing.T, users ports.UserRepository, movies ports.MovieRepository)
	}{
		{"user create and find", testUserCreateAndFind},
		{"user duplicate username", testUserDuplicate},
		{"user not found", testUserNotFound},
		{"movie create returns row", testMovieCreate},
		{"movie duplicate title and year", testMovieDuplicate},
		{"movie unknown owner", testMovieUnknownOwner},
		{"movie list is owner scoped", testMovieListScoped},
		{"movie update is owner scoped", testMovieUpdateScoped},
		{"movie update collision", testMovieUpdateCollision},
		{"movie delete is owner scoped", testMovieDeleteScoped},
		{"movie find by title and year", testMovieFindByTitleYear},
		{"movie flip favorite", testMovieFlipFavorite},
		{"concurrent user creation", testConcurrentUserCreate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, movies := newRepos(t)
			tt.check(t, users, movies)
		})
	}
}

func mustUser(t *testing.T, users ports.UserRepository, base string) *domain.User {
	t.Helper()
	u, err := users.Create(context.Background(), uniqueName(base))
	require.NoError(t, err)
	require.Positive(t, u.ID)
	return u
}

func testUserCreateAndFind(t *testing.T, users ports.UserRepository, _ ports.MovieRepository) {
	ctx := context.Background()
	created := mustUser(t, users, "alice")

	byName, err := users.FindByUsername(ctx, created.Username)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byID, err := users.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Username, byID.Username)
}

func testUserDuplicate(t *testing.T, users ports.UserRepository, _ ports.MovieRepository) {
	created := mustUser(t, users, "dup")

	_, err := users.Create(context.Background(), created.Username)
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func testUserNotFound(t *testing.T, users ports.UserRepository, _ ports.MovieRepository) {
	ctx := context.Background()

	_, err := users.FindByUsername(ctx, uniqueName("ghost"))
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = users.FindByID(ctx, 987654321)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func testMovieCreate(t *testing.T, users ports.UserRepository, movies ports.MovieRepository) {
	owner := mustUser(t, users, "alice")

	m, err := movies.Create(context.Background(), owner.ID, inception())
	require.NoError(t, err)

	assert.Positive(t, m.ID)
	assert.Equal(t, "Inception", m.Title)
	assert.Equal(t, 2010, m.Year)
	assert.Equal(t, "148 min", m.Runtime)
	assert.Equal(t, "Sci-Fi", m.Genre)
	assert.Equal(t, "Christopher Nolan", m.Director)
	assert.False(t, m.IsFavorite)
	assert.Equal(t, owner.ID, m.UserID)
}

func testMovieDuplicate(t *testing.T, users ports.UserRepository, movies ports.MovieRepository) {
	ctx := context.Background()
	owner := mustUser(t, users, "alice")

	_, err := movies.Create(ctx, owner.ID, inception())
	require.NoError(t, err)

	_, err = movies.Create(ctx, owner.ID, inception())
	assert.ErrorIs(t, err, domain.ErrMovieExists)

	list, err := movies.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1, "duplicate must not be stored")

	other := mustUser(t, users, "bob")
	_, err = movies.Create(ctx, other.ID, inception())
	assert.NoError(t, err, "another owner may store the same title and year")
}

func testMovieUnknownOwner(t *testing.T, _ ports.UserRepository, movies ports.MovieRepository) {
	_, err := movies.Create(context.Background(), 987654321, inception())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func testMovieListScoped(t *testing.T, users ports.UserRepository, movies ports.MovieRepository) {
	ctx := context.Background()
	alice := mustUser(t, users, "alice")
	bob := mustUser(t, users, "bob")

	first, err := movies.Create(ctx, alice.ID, inception())
	require.NoError(t, err)
	second, err := movies.Create(ctx, alice.ID, domain.MovieFields{Title: "Memento", Year: 2000})
	require.NoError(t, err)
	_, err = movies.Create(ctx, bob.ID, domain.MovieFields{Title: "Heat", Year: 1995})
	require.NoError(t, err)

	list, err := movies.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	empty, err := movies.ListByUser(ctx, mustUser(t, users, "carol").ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func testMovieUpdateScoped(t *testing.T, users ports.UserRepository, movies ports.MovieRepository) {
	ctx := context.Background()
	alice := mustUser(t, users, "alice")
	bob := mustUser(t, users, "bob")

	m, err := movies.Create(ctx, alice.ID, inception())
	require.NoError(t, err)

	_, err = movies.Update(ctx, m.ID, bob.ID, domain.MovieFields{Title: "Hijacked"})
	assert.ErrorIs(t, err, domain.ErrMovieNotFound)

	_, err = movies.Update(ctx, m.ID+1000, alice.ID, inception())
	assert.ErrorIs(t, err, domain.ErrMovieNotFound)

	updated, err := movies.Update(ctx, m.ID, alice.ID, domain.MovieFields{
		Title: "Inception", Year: 2010, Runtime: "2h 28m", IsFavorite: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "2h 28m", updated.Runtime)
	assert.Empty(t, updated.Genre, "full replace clears omitted fields")
	assert.True(t, updated.IsFavorite)
}

func testMovieUpdateCollision(t *testing.T, users ports.UserRepository, movies ports.MovieRepository) {
	ctx := context.Background()
	alice := mustUser(t, users, "alice")

	_, err := movies.Create(ctx, alice.ID, inception())
	require.NoError(t, err)
	heat, err := movies.Create(ctx, alice.ID, domain.MovieFields{Title: "Heat", Year: 1995})
	require.NoError(t, err)

	_, err = movies.Update(ctx, heat.ID, alice.ID, inception())
	assert.ErrorIs(t, err, domain.ErrMovieExists)
}

func testMovieDeleteScoped(t *testing.T, users ports.UserRepository, movies ports.MovieRepository) {
	ctx := context.Background()
	alice := mustUser(t, users, "alice")
	bob := mustUser(t, users, "bob")

	m, err := movies.Create(ctx, alice.ID, inception())
	require.NoError(t, err)

	assert.ErrorIs(t, movies.Delete(ctx, m.ID, bob.ID), domain.ErrMovieNotFound)
	list, err := movies.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, movies.Delete(ctx, m.ID, alice.ID))
	assert.ErrorIs(t, movies.Delete(ctx, m.ID, alice.ID), domain.ErrMovieNotFound)
}

func testMovieFindByTitleYear(t *testing.T, users ports.UserRepository, movies ports.MovieRepository) {
	ctx := context.Background()
	alice := mustUser(t, users, "alice")
	bob := mustUser(t, users, "bob")

	m, err := movies.Create(ctx, alice.ID, inception())
	require.NoError(t, err)

	found, err := movies.FindByTitleYear(ctx, alice.ID, "Inception", 2010)
	require.NoError(t, err)
	assert.Equal(t, m.ID, found.ID)

	_, err = movies.FindByTitleYear(ctx, alice.ID, "Inception", 2011)
	assert.ErrorIs(t, err, domain.ErrMovieNotFound)

	_, err = movies.FindByTitleYear(ctx, bob.ID, "Inception", 2010)
	assert.ErrorIs(t, err, domain.ErrMovieNotFound)
}

func testMovieFlipFavorite(t *testing.T, users ports.UserRepository, movies ports.MovieRepository) {
	ctx := context.Background()
	alice := mustUser(t, users, "alice")
	bob := mustUser(t, users, "bob")

	m, err := movies.Create(ctx, alice.ID, inception())
	require.NoError(t, err)

	flipped, err := movies.FlipFavorite(ctx, m.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, flipped.IsFavorite)

	flipped, err = movies.FlipFavorite(ctx, m.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, flipped.IsFavorite)

	_, err = movies.FlipFavorite(ctx, m.ID, bob.ID)
	assert.ErrorIs(t, err, domain.ErrMovieNotFound)
}

func testConcurrentUserCreate(t *testing.T, users ports.UserRepository, _ ports.MovieRepository) {
	name := uniqueName("race")

	const writers = 8
	var (
		wg      sync.WaitGroup
		created atomic.Int32
		exists  atomic.Int32
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := users.Create(context.Background(), name)
			switch {
			case err == nil:
				created.Add(1)
			case assert.ErrorIs(t, err, domain.ErrUserExists):
				exists.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, created.Load(), "exactly one insert may win")
	assert.EqualValues(t, writers-1, exists.Load())
}
