// @title           Movie Catalog API
// @version         1.0
// @description     Personal movie catalog: owner-scoped movies, favorites and an OMDb search proxy.
// @BasePath        /
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/KirilDora/movie-fullstack-app/internal/api"
	"github.com/KirilDora/movie-fullstack-app/internal/api/handler"
	"github.com/KirilDora/movie-fullstack-app/internal/core/ports"
	"github.com/KirilDora/movie-fullstack-app/internal/core/service"
	"github.com/KirilDora/movie-fullstack-app/internal/infrastructure/config"
	mongostore "github.com/KirilDora/movie-fullstack-app/internal/infrastructure/db/mongo"
	"github.com/KirilDora/movie-fullstack-app/internal/infrastructure/db/postgres"
	rediscache "github.com/KirilDora/movie-fullstack-app/internal/infrastructure/db/redis"
	"github.com/KirilDora/movie-fullstack-app/internal/infrastructure/db/sqlite"
	"github.com/KirilDora/movie-fullstack-app/internal/infrastructure/omdb"
	"github.com/KirilDora/movie-fullstack-app/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// store is the repository pair plus what main needs to probe and release it.
type store struct {
	users  ports.UserRepository
	movies ports.MovieRepository
	check  handler.Check
	close  func()
}

// openStoreFunc is swapped in tests to observe store release.
var openStoreFunc = openStore

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "movies-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Fatal().Err(err).Msg("movies-api stopped")
	}
}

// run serves until ctx is done. Everything it opens is released before it
// returns, on error paths too.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStoreFunc(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer st.close()
	log.Info().Str("driver", cfg.StoreDriver).Msg("store ready")

	checks := map[string]handler.Check{cfg.StoreDriver: st.check}

	var cache ports.SearchCache
	if cfg.Redis.Addr != "" {
		rdb, err := rediscache.Connect(ctx, rediscache.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
		cache = rediscache.NewSearchCache(rdb, cfg.OMDb.CacheTTL)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.OMDb.CacheTTL).Msg("search cache enabled")
	}
	if cfg.OMDb.APIKey == "" {
		log.Warn().Msg("OMDB_API_KEY is not set; search will answer 500")
	}

	users := service.NewUserService(st.users, log)
	movies := service.NewMovieService(st.movies, users, log)
	provider := omdb.NewClient(omdb.Config{
		APIKey:  cfg.OMDb.APIKey,
		BaseURL: cfg.OMDb.BaseURL,
		Timeout: cfg.OMDb.Timeout,
	})
	search := service.NewSearchService(provider, cache, log)

	e := api.NewRouter(api.Deps{
		Users:           users,
		Movies:          movies,
		Search:          search,
		Checks:          checks,
		Logger:          log,
		CORSOrigins:     cfg.HTTP.CORSOrigins,
		SearchRateLimit: cfg.HTTP.SearchRateLimit,
	})

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return &store{
			users:  sqlite.NewUserRepository(db),
			movies: sqlite.NewMovieRepository(db),
			check:  db.PingContext,
			close:  func() { closeQuietly(db) },
		}, nil

	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &store{
			users:  mongostore.NewUserRepository(db),
			movies: mongostore.NewMovieRepository(db),
			check:  func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:  func() { _ = client.Disconnect(context.Background()) },
		}, nil

	default:
		pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns})
		if err != nil {
			return nil, err
		}
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &store{
			users:  postgres.NewUserRepository(pool),
			movies: postgres.NewMovieRepository(pool),
			check:  pool.Ping,
			close:  pool.Close,
		}, nil
	}
}

func closeQuietly(c io.Closer) {
	_ = c.Close()
}
