package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
)

const movieColumns = `id, title, year, runtime, genre, director, is_favorite, user_id`

// MovieRepository implements ports.MovieRepository on SQLite.
type MovieRepository struct {
	db *sql.DB
}

func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	movies := []domain.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("list movies: scan: %w", err)
		}
		movies = append(movies, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

func (r *MovieRepository) Create(ctx context.Context, userID int64, f domain.MovieFields) (*domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m, err := scanMovie(r.db.QueryRowContext(ctx,
		`INSERT INTO movies (title, year, runtime, genre, director, is_favorite, user_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+movieColumns,
		f.Title, f.Year, f.Runtime, f.Genre, f.Director, f.IsFavorite, userID,
	))
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, domain.ErrMovieExists
		case isForeignKeyViolation(err):
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("insert movie: %w", err)
	}
	return m, nil
}

func (r *MovieRepository) Update(ctx context.Context, id, userID int64, f domain.MovieFields) (*domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m, err := scanMovie(r.db.QueryRowContext(ctx,
		`UPDATE movies
		 SET title = ?, year = ?, runtime = ?, genre = ?, director = ?, is_favorite = ?
		 WHERE id = ? AND user_id = ?
		 RETURNING `+movieColumns,
		f.Title, f.Year, f.Runtime, f.Genre, f.Director, f.IsFavorite, id, userID,
	))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.ErrMovieNotFound
		case isUniqueViolation(err):
			return nil, domain.ErrMovieExists
		}
		return nil, fmt.Errorf("update movie: %w", err)
	}
	return m, nil
}

func (r *MovieRepository) Delete(ctx context.Context, id, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if n == 0 {
		return domain.ErrMovieNotFound
	}
	return nil
}

func (r *MovieRepository) FindByTitleYear(ctx context.Context, userID int64, title string, year int) (*domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m, err := scanMovie(r.db.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE user_id = ? AND title = ? AND year = ?`,
		userID, title, year,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, fmt.Errorf("find movie: %w", err)
	}
	return m, nil
}

func (r *MovieRepository) FlipFavorite(ctx context.Context, id, userID int64) (*domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m, err := scanMovie(r.db.QueryRowContext(ctx,
		`UPDATE movies SET is_favorite = NOT is_favorite
		 WHERE id = ? AND user_id = ?
		 RETURNING `+movieColumns,
		id, userID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, fmt.Errorf("flip favorite: %w", err)
	}
	return m, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMovie(row scanner) (*domain.Movie, error) {
	var m domain.Movie
	if err := row.Scan(&m.ID, &m.Title, &m.Year, &m.Runtime, &m.Genre, &m.Director, &m.IsFavorite, &m.UserID); err != nil {
		return nil, err
	}
	return &m, nil
}
