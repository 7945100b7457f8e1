package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/KirilDora/movie-fullstack-app/internal/api/middleware"
)

// UserHandler handles username resolution.
type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Resolve handles POST /api/users. The user is found or created by the
// ResolveUser middleware.
//
// @Summary      Find or create a user by username
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      usernameRequest  true  "Username"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/users [post]
func (h *UserHandler) Resolve(c echo.Context) error {
	id, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "user was not resolved")
	}
	return c.JSON(http.StatusOK, userResponse{UserID: id})
}
