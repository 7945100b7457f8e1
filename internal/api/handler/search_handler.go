package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/KirilDora/movie-fullstack-app/internal/core/ports"
)

// SearchHandler proxies title lookups to the external movie database.
type SearchHandler struct {
	search ports.SearchService
}

func NewSearchHandler(search ports.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search handles GET /api/omdb-movies/search?t=<title>.
//
// @Summary      Look a title up in OMDb
// @Description  Returns zero or one unsaved records (id and user_id are -1).
// @Tags         search
// @Produce      json
// @Param        t    query     string  true  "Title"
// @Success      200  {array}   domain.Movie
// @Failure      400  {object}  errorResponse
// @Failure      429  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/omdb-movies/search [get]
func (h *SearchHandler) Search(c echo.Context) error {
	movies, err := h.search.Search(c.Request().Context(), c.QueryParam("t"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movies)
}
