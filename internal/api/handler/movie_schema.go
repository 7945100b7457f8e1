package handler

import "github.com/KirilDora/movie-fullstack-app/internal/core/domain"

// movieRequest is the body of POST /api/movies and PUT /api/movies/:id.
type movieRequest struct {
	Title      string `json:"title" validate:"required,max=500" example:"Inception"`
	Year       int    `json:"year" validate:"gte=0,lte=9999" example:"2010"`
	Runtime    string `json:"runtime" validate:"max=100" example:"148 min"`
	Genre      string `json:"genre" validate:"max=200" example:"Sci-Fi"`
	Director   string `json:"director" validate:"max=200" example:"Christopher Nolan"`
	IsFavorite bool   `json:"is_favorite"`
	Username   string `json:"username" example:"alice"`
}

func (r movieRequest) fields() domain.MovieFields {
	return domain.MovieFields{
		Title:      r.Title,
		Year:       r.Year,
		Runtime:    r.Runtime,
		Genre:      r.Genre,
		Director:   r.Director,
		IsFavorite: r.IsFavorite,
	}
}

// toggleFavoriteRequest is the body of PUT /api/movies/toggle-favorite.
// The owner is identified by userId; username is accepted when userId is
// absent.
type toggleFavoriteRequest struct {
	movieRequest
	UserID *int64 `json:"userId" example:"1"`
}

type usernameRequest struct {
	Username string `json:"username" example:"alice"`
}

type userResponse struct {
	UserID int64 `json:"userId" example:"1"`
}

type messageResponse struct {
	Message string `json:"message" example:"Movie deleted successfully."`
}

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Error string `json:"error" example:"movie not found or does not belong to the user"`
}
