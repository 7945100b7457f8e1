package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
)

type stubSearchService struct {
	searchFn func(title string) ([]domain.Movie, error)
}

func (s *stubSearchService) Search(_ context.Context, title string) ([]domain.Movie, error) {
	return s.searchFn(title)
}

func TestSearchHandler_PassesQuery(t *testing.T) {
	svc := &stubSearchService{searchFn: func(title string) ([]domain.Movie, error) {
		if title != "Inception" {
			t.Fatalf("unexpected query %q", title)
		}
		return []domain.Movie{domain.NewSearchResult("Inception", 2010, "148 min", "Sci-Fi", "Christopher Nolan")}, nil
	}}

	c, rec := newTestContext(http.MethodGet, "/api/omdb-movies/search?t=Inception", "", nil)
	if err := NewSearchHandler(svc).Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 1 || got[0]["id"] != float64(-1) || got[0]["user_id"] != float64(-1) || got[0]["year"] != float64(2010) {
		t.Fatalf("unexpected body: %v", got)
	}
}

func TestSearchHandler_ReturnsServiceError(t *testing.T) {
	svc := &stubSearchService{searchFn: func(string) ([]domain.Movie, error) {
		return nil, domain.ErrSearchQueryRequired
	}}

	c, _ := newTestContext(http.MethodGet, "/api/omdb-movies/search", "", nil)
	if err := NewSearchHandler(svc).Search(c); !errors.Is(err, domain.ErrSearchQueryRequired) {
		t.Fatalf("expected ErrSearchQueryRequired, got %v", err)
	}
}
