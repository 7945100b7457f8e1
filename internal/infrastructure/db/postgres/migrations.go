package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied in order on every start; each statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS movies (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		year INTEGER NOT NULL DEFAULT 0,
		runtime TEXT NOT NULL DEFAULT '',
		genre TEXT NOT NULL DEFAULT '',
		director TEXT NOT NULL DEFAULT '',
		is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		CONSTRAINT movies_user_title_year_key UNIQUE (user_id, title, year)
	)`,
	`CREATE INDEX IF NOT EXISTS movies_user_id_idx ON movies (user_id)`,
}

// RunMigrations creates the users and movies tables when they do not exist.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres migration %d: %w", i+1, err)
		}
	}
	return nil
}
