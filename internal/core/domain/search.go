package domain

import "errors"

var (
	ErrSearchQueryRequired = errors.New("search query is required")
	ErrSearchNotConfigured = errors.New("search provider is not configured")
	ErrSearchUnavailable   = errors.New("failed to fetch movies from search provider")
)

// NewSearchResult builds the transient record returned by the search proxy.
// It carries sentinel ids so clients can tell it has not been saved.
func NewSearchResult(title string, year int, runtime, genre, director string) Movie {
	return Movie{
		ID:       UnsavedID,
		Title:    title,
		Year:     year,
		Runtime:  runtime,
		Genre:    genre,
		Director: director,
		UserID:   UnsavedID,
	}
}
