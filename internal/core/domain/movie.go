package domain

import (
	"errors"
	"strings"
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrMovieNotFound = errors.New("movie not found or does not belong to the user")
	ErrMovieExists   = errors.New("a movie with the same title and year already exists")
)

// UnsavedID marks records that came from the search provider and have no row yet.
const UnsavedID int64 = -1

// Movie is a catalog entry owned by exactly one user.
// (UserID, Title, Year) is unique.
type Movie struct {
	ID         int64  `json:"id" bson:"_id"`
	Title      string `json:"title" bson:"title"`
	Year       int    `json:"year" bson:"year"`
	Runtime    string `json:"runtime" bson:"runtime"`
	Genre      string `json:"genre" bson:"genre"`
	Director   string `json:"director" bson:"director"`
	IsFavorite bool   `json:"is_favorite" bson:"is_favorite"`
	UserID     int64  `json:"user_id" bson:"user_id"`
}

// MovieFields is the mutable part of a Movie. Update replaces all of them.
type MovieFields struct {
	Title      string
	Year       int
	Runtime    string
	Genre      string
	Director   string
	IsFavorite bool
}

// Normalize trims surrounding whitespace from the text fields.
func (f MovieFields) Normalize() MovieFields {
	f.Title = strings.TrimSpace(f.Title)
	f.Runtime = strings.TrimSpace(f.Runtime)
	f.Genre = strings.TrimSpace(f.Genre)
	f.Director = strings.TrimSpace(f.Director)
	return f
}

// Validate reports ErrTitleRequired when the title is blank.
func (f MovieFields) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}

// Unsaved reports whether m has not been persisted yet.
func (m Movie) Unsaved() bool {
	return m.ID == UnsavedID
}
