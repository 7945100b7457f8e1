package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, rate limiting, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnhandled(log, c, err)
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidUsername):
		return http.StatusBadRequest, domain.ErrInvalidUsername.Error()
	case errors.Is(err, domain.ErrTitleRequired):
		return http.StatusBadRequest, domain.ErrTitleRequired.Error()
	case errors.Is(err, domain.ErrSearchQueryRequired):
		return http.StatusBadRequest, domain.ErrSearchQueryRequired.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, domain.ErrUserNotFound.Error()
	case errors.Is(err, domain.ErrMovieNotFound):
		return http.StatusNotFound, domain.ErrMovieNotFound.Error()
	case errors.Is(err, domain.ErrMovieExists):
		return http.StatusConflict, domain.ErrMovieExists.Error()
	case errors.Is(err, domain.ErrSearchNotConfigured):
		logUnhandled(log, c, err)
		return http.StatusInternalServerError, domain.ErrSearchNotConfigured.Error()
	case errors.Is(err, domain.ErrSearchUnavailable):
		return http.StatusInternalServerError, domain.ErrSearchUnavailable.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	logUnhandled(log, c, err)
	return http.StatusInternalServerError, "internal server error"
}

func logUnhandled(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
