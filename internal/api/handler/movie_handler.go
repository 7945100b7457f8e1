package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/KirilDora/movie-fullstack-app/internal/api/middleware"
	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
	"github.com/KirilDora/movie-fullstack-app/internal/core/ports"
)

const deletedMessage = "Movie deleted successfully."

// MovieHandler handles HTTP requests for the owner-scoped movie catalog.
type MovieHandler struct {
	movies ports.MovieService
	users  ports.UserService
}

func NewMovieHandler(movies ports.MovieService, users ports.UserService) *MovieHandler {
	return &MovieHandler{movies: movies, users: users}
}

// List handles GET /api/movies/:username.
//
// @Summary      List a user's movies
// @Tags         movies
// @Produce      json
// @Param        username  path      string  true  "Owner username"
// @Success      200       {array}   domain.Movie
// @Failure      404       {object}  errorResponse
// @Failure      500       {object}  errorResponse
// @Router       /api/movies/{username} [get]
func (h *MovieHandler) List(c echo.Context) error {
	movies, err := h.movies.List(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movies)
}

// Create handles POST /api/movies.
//
// @Summary      Add a movie to a user's catalog
// @Description  The user named in the body is created on first use.
// @Tags         movies
// @Accept       json
// @Produce      json
// @Param        body  body      movieRequest  true  "Movie and owner username"
// @Success      201   {object}  domain.Movie
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/movies [post]
func (h *MovieHandler) Create(c echo.Context) error {
	var req movieRequest
	fields, err := bindMovie(c, &req)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	userID, err := h.users.Ensure(ctx, req.Username)
	if err != nil {
		return err
	}

	movie, err := h.movies.Create(ctx, userID, fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, movie)
}

// Update handles PUT /api/movies/:id. Every field is replaced.
//
// @Summary      Replace a movie owned by the user
// @Tags         movies
// @Accept       json
// @Produce      json
// @Param        id    path      int           true  "Movie id"
// @Param        body  body      movieRequest  true  "Movie and owner username"
// @Success      200   {object}  domain.Movie
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/movies/{id} [put]
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := movieID(c)
	if err != nil {
		return err
	}

	var req movieRequest
	fields, err := bindMovie(c, &req)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	userID, err := h.users.Ensure(ctx, req.Username)
	if err != nil {
		return err
	}

	movie, err := h.movies.Update(ctx, id, userID, fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movie)
}

// Delete handles DELETE /api/movies/:id. The owner is resolved by the
// ResolveUser middleware from the body's username.
//
// @Summary      Delete a movie owned by the user
// @Tags         movies
// @Accept       json
// @Produce      json
// @Param        id    path      int              true  "Movie id"
// @Param        body  body      usernameRequest  true  "Owner username"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/movies/{id} [delete]
func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := movieID(c)
	if err != nil {
		return err
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "user was not resolved")
	}

	if err := h.movies.Delete(c.Request().Context(), id, userID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: deletedMessage})
}

// ToggleFavorite handles PUT /api/movies/toggle-favorite.
//
// @Summary      Toggle a movie in or out of the user's favorites
// @Description  Flips is_favorite on the user's (title, year) entry, or adds the entry as a favorite.
// @Tags         movies
// @Accept       json
// @Produce      json
// @Param        body  body      toggleFavoriteRequest  true  "Movie fields and owner id"
// @Success      200   {object}  domain.Movie  "Existing entry flipped"
// @Success      201   {object}  domain.Movie  "Entry created as favorite"
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/movies/toggle-favorite [put]
func (h *MovieHandler) ToggleFavorite(c echo.Context) error {
	var req toggleFavoriteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	fields := req.fields().Normalize()
	if err := fields.Validate(); err != nil {
		return err
	}

	ctx := c.Request().Context()
	var userID int64
	switch {
	case req.UserID != nil:
		userID = *req.UserID
	case req.Username != "":
		id, err := h.users.Ensure(ctx, req.Username)
		if err != nil {
			return err
		}
		userID = id
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}

	res, err := h.movies.ToggleFavorite(ctx, userID, fields)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	return c.JSON(status, res.Movie)
}

// bindMovie binds and validates req, returning the normalized fields.
func bindMovie(c echo.Context, req *movieRequest) (domain.MovieFields, error) {
	if err := c.Bind(req); err != nil {
		return domain.MovieFields{}, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return domain.MovieFields{}, err
	}
	fields := req.fields().Normalize()
	if err := fields.Validate(); err != nil {
		return domain.MovieFields{}, err
	}
	return fields, nil
}

func movieID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid movie id")
	}
	return id, nil
}
