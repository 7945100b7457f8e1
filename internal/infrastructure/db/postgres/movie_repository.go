package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
)

const movieColumns = `id, title, year, runtime, genre, director, is_favorite, user_id`

// MovieRepository implements ports.MovieRepository on Postgres. Every
// statement filters on user_id so foreign rows are invisible.
type MovieRepository struct {
	pool *pgxpool.Pool
}

func NewMovieRepository(pool *pgxpool.Pool) *MovieRepository {
	return &MovieRepository{pool: pool}
}

func (r *MovieRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	movies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Movie, error) {
		m, err := scanMovie(row)
		if err != nil {
			return domain.Movie{}, err
		}
		return *m, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list movies: scan: %w", err)
	}
	return movies, nil
}

func (r *MovieRepository) Create(ctx context.Context, userID int64, f domain.MovieFields) (*domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m, err := scanMovie(r.pool.QueryRow(ctx,
		`INSERT INTO movies (title, year, runtime, genre, director, is_favorite, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
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

	m, err := scanMovie(r.pool.QueryRow(ctx,
		`UPDATE movies
		 SET title = $1, year = $2, runtime = $3, genre = $4, director = $5, is_favorite = $6
		 WHERE id = $7 AND user_id = $8
		 RETURNING `+movieColumns,
		f.Title, f.Year, f.Runtime, f.Genre, f.Director, f.IsFavorite, id, userID,
	))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
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

	tag, err := r.pool.Exec(ctx, `DELETE FROM movies WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMovieNotFound
	}
	return nil
}

func (r *MovieRepository) FindByTitleYear(ctx context.Context, userID int64, title string, year int) (*domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m, err := scanMovie(r.pool.QueryRow(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE user_id = $1 AND title = $2 AND year = $3`,
		userID, title, year,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, fmt.Errorf("find movie: %w", err)
	}
	return m, nil
}

// FlipFavorite negates the stored flag, so concurrent flips never lose an update.
func (r *MovieRepository) FlipFavorite(ctx context.Context, id, userID int64) (*domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m, err := scanMovie(r.pool.QueryRow(ctx,
		`UPDATE movies SET is_favorite = NOT is_favorite
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+movieColumns,
		id, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, fmt.Errorf("flip favorite: %w", err)
	}
	return m, nil
}

func scanMovie(row pgx.Row) (*domain.Movie, error) {
	var m domain.Movie
	if err := row.Scan(&m.ID, &m.Title, &m.Year, &m.Runtime, &m.Genre, &m.Director, &m.IsFavorite, &m.UserID); err != nil {
		return nil, err
	}
	return &m, nil
}
