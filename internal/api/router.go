package api

import (
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/KirilDora/movie-fullstack-app/docs"
	"github.com/KirilDora/movie-fullstack-app/internal/api/handler"
	"github.com/KirilDora/movie-fullstack-app/internal/api/middleware"
	"github.com/KirilDora/movie-fullstack-app/internal/core/ports"
)

const (
	bodyLimit     = "1M"
	searchRateTTL = 3 * time.Minute
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Users  ports.UserService
	Movies ports.MovieService
	Search ports.SearchService

	// Checks are run by GET /health/ready, keyed by dependency name.
	Checks map[string]handler.Check

	Logger zerolog.Logger

	CORSOrigins []string
	// SearchRateLimit is requests per second per client IP on the search route.
	SearchRateLimit float64

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	if len(d.CORSOrigins) == 0 {
		d.CORSOrigins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "movies",
		Subsystem:  "http",
		Registerer: d.Registerer,
	}))

	// --- Handlers ---
	userHandler := handler.NewUserHandler()
	movieHandler := handler.NewMovieHandler(d.Movies, d.Users)
	searchHandler := handler.NewSearchHandler(d.Search)
	resolveUser := middleware.ResolveUser(d.Users)

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Movie catalog API is running.")
	})

	api := e.Group("/api")

	api.POST("/users", userHandler.Resolve, resolveUser)

	// toggle-favorite is a static segment, so echo matches it before /:id.
	api.PUT("/movies/toggle-favorite", movieHandler.ToggleFavorite)
	api.GET("/movies/:username", movieHandler.List)
	api.POST("/movies", movieHandler.Create)
	api.PUT("/movies/:id", movieHandler.Update)
	api.DELETE("/movies/:id", movieHandler.Delete, resolveUser)

	api.GET("/omdb-movies/search", searchHandler.Search, searchRateLimiter(d.SearchRateLimit))

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks, d.Logger)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: pings dependencies

	// --- Ops ---
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= http.StatusInternalServerError {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// searchRateLimiter throttles the external search proxy per client IP.
func searchRateLimiter(perSecond float64) echo.MiddlewareFunc {
	deny := func(c echo.Context, _ string, _ error) error {
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
	}
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(
			echomiddleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(perSecond),
				Burst:     int(math.Max(1, math.Ceil(perSecond))),
				ExpiresIn: searchRateTTL,
			}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "could not identify client")
		},
		DenyHandler: deny,
	})
}
