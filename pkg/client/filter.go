package client

import "strings"

// Filter narrows a movie list on the client side.
type Filter struct {
	FavoritesOnly bool
	// Query matches title, genre or director, case-insensitively.
	Query string
}

// FilterMovies returns the movies matching f, preserving order.
func FilterMovies(movies []Movie, f Filter) []Movie {
	q := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]Movie, 0, len(movies))
	for _, m := range movies {
		if f.FavoritesOnly && !m.IsFavorite {
			continue
		}
		if q != "" && !matches(m, q) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matches(m Movie, q string) bool {
	for _, field := range []string{m.Title, m.Genre, m.Director} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
