package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	mu     sync.Mutex
	byName map[string]*domain.User
	nextID int64

	findErr   error // if set, FindByUsername returns this error
	createErr error // if set, Create returns this error
	// hideOnce makes the next FindByUsername miss an existing row, simulating a
	// concurrent writer that inserts between our lookup and our insert.
	hideOnce bool
	creates  int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byName: make(map[string]*domain.User)}
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	if r.hideOnce {
		r.hideOnce = false
		return nil, domain.ErrUserNotFound
	}
	u, ok := r.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byName {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	// Mirrors the UNIQUE(username) constraint.
	if _, ok := r.byName[username]; ok {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	r.creates++
	u := &domain.User{ID: r.nextID, Username: username}
	r.byName[username] = u
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) seed(username string) int64 {
	u, _ := r.Create(context.Background(), username)
	r.creates = 0
	return u.ID
}

type stubMovieRepo struct {
	mu     sync.Mutex
	rows   map[int64]*domain.Movie
	nextID int64

	listErr error
	// raceInsert, when set, makes the next FindByTitleYear miss and inserts a
	// competing row first, so the caller's Create collides.
	raceInsert bool
	flips      int
}

func newStubMovieRepo() *stubMovieRepo {
	return &stubMovieRepo{rows: make(map[int64]*domain.Movie)}
}

func (r *stubMovieRepo) ListByUser(_ context.Context, userID int64) ([]domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []domain.Movie
	for _, m := range r.rows {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubMovieRepo) insertLocked(userID int64, f domain.MovieFields) (*domain.Movie, error) {
	for _, m := range r.rows {
		if m.UserID == userID && m.Title == f.Title && m.Year == f.Year {
			return nil, domain.ErrMovieExists
		}
	}
	r.nextID++
	m := &domain.Movie{
		ID: r.nextID, Title: f.Title, Year: f.Year, Runtime: f.Runtime,
		Genre: f.Genre, Director: f.Director, IsFavorite: f.IsFavorite, UserID: userID,
	}
	r.rows[m.ID] = m
	clone := *m
	return &clone, nil
}

func (r *stubMovieRepo) Create(_ context.Context, userID int64, f domain.MovieFields) (*domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(userID, f)
}

func (r *stubMovieRepo) Update(_ context.Context, id, userID int64, f domain.MovieFields) (*domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok || m.UserID != userID {
		return nil, domain.ErrMovieNotFound
	}
	for _, other := range r.rows {
		if other.ID != id && other.UserID == userID && other.Title == f.Title && other.Year == f.Year {
			return nil, domain.ErrMovieExists
		}
	}
	m.Title, m.Year, m.Runtime, m.Genre, m.Director, m.IsFavorite =
		f.Title, f.Year, f.Runtime, f.Genre, f.Director, f.IsFavorite
	clone := *m
	return &clone, nil
}

func (r *stubMovieRepo) Delete(_ context.Context, id, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok || m.UserID != userID {
		return domain.ErrMovieNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *stubMovieRepo) FindByTitleYear(_ context.Context, userID int64, title string, year int) (*domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.raceInsert {
		r.raceInsert = false
		_, _ = r.insertLocked(userID, domain.MovieFields{Title: title, Year: year, IsFavorite: true})
		return nil, domain.ErrMovieNotFound
	}
	for _, m := range r.rows {
		if m.UserID == userID && m.Title == title && m.Year == year {
			clone := *m
			return &clone, nil
		}
	}
	return nil, domain.ErrMovieNotFound
}

func (r *stubMovieRepo) FlipFavorite(_ context.Context, id, userID int64) (*domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok || m.UserID != userID {
		return nil, domain.ErrMovieNotFound
	}
	r.flips++
	m.IsFavorite = !m.IsFavorite
	clone := *m
	return &clone, nil
}

func (r *stubMovieRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

var errStoreDown = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
