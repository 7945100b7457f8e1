package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
	"github.com/KirilDora/movie-fullstack-app/internal/core/service"
	"github.com/KirilDora/movie-fullstack-app/internal/infrastructure/db/sqlite"
)

type stubProvider struct {
	movies map[string]domain.Movie
	err    error
}

func (p *stubProvider) FindByTitle(_ context.Context, title string) (*domain.Movie, error) {
	if p.err != nil {
		return nil, p.err
	}
	m, ok := p.movies[title]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

type testServer struct {
	e *echo.Echo
}

func newTestServer(t *testing.T, provider *stubProvider, rateLimit float64) *testServer {
	t.Helper()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	log := zerolog.Nop()
	users := service.NewUserService(sqlite.NewUserRepository(db), log)
	movies := service.NewMovieService(sqlite.NewMovieRepository(db), users, log)
	if provider == nil {
		provider = &stubProvider{}
	}

	reg := prometheus.NewRegistry()
	e := NewRouter(Deps{
		Users:           users,
		Movies:          movies,
		Search:          service.NewSearchService(provider, nil, log),
		Logger:          log,
		SearchRateLimit: rateLimit,
		Registerer:      reg,
		Gatherer:        reg,
	})
	return &testServer{e: e}
}

func (s *testServer) do(t *testing.T, method, target, body string) (int, []byte) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("invalid json %q: %v", raw, err)
	}
	return v
}

func errorMessage(t *testing.T, raw []byte) string {
	t.Helper()
	return decode[errorResponse](t, raw).Error
}

func TestRouter_FavoriteScenario(t *testing.T) {
	s := newTestServer(t, nil, 100)

	code, body := s.do(t, http.MethodPost, "/api/users", `{"username":"alice"}`)
	if code != http.StatusOK {
		t.Fatalf("create user: expected 200, got %d %s", code, body)
	}
	userID := decode[map[string]int64](t, body)["userId"]
	if userID <= 0 {
		t.Fatalf("expected a positive user id, got %s", body)
	}

	code, body = s.do(t, http.MethodPost, "/api/movies",
		`{"title":"Inception","year":2010,"runtime":"148 min","genre":"Sci-Fi","director":"Christopher Nolan","username":"alice"}`)
	if code != http.StatusCreated {
		t.Fatalf("add movie: expected 201, got %d %s", code, body)
	}
	created := decode[domain.Movie](t, body)
	if created.IsFavorite || created.UserID != userID {
		t.Fatalf("unexpected created movie: %+v", created)
	}

	code, body = s.do(t, http.MethodPut, "/api/movies/toggle-favorite",
		`{"title":"Inception","year":2010,"runtime":"148 min","genre":"Sci-Fi","director":"Christopher Nolan","is_favorite":false,"userId":`+itoa(userID)+`}`)
	if code != http.StatusOK {
		t.Fatalf("toggle: expected 200, got %d %s", code, body)
	}
	if toggled := decode[domain.Movie](t, body); !toggled.IsFavorite || toggled.ID != created.ID {
		t.Fatalf("expected the same row flipped to favorite, got %+v", toggled)
	}

	code, body = s.do(t, http.MethodGet, "/api/movies/alice", "")
	if code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d %s", code, body)
	}
	list := decode[[]domain.Movie](t, body)
	if len(list) != 1 || !list[0].IsFavorite {
		t.Fatalf("expected one favorite movie, got %+v", list)
	}
}

func TestRouter_UserResolutionIsIdempotent(t *testing.T) {
	s := newTestServer(t, nil, 100)

	_, first := s.do(t, http.MethodPost, "/api/users", `{"username":"bob"}`)
	_, second := s.do(t, http.MethodPost, "/api/users", `{"username":"bob"}`)
	if string(first) != string(second) {
		t.Fatalf("expected the same id twice, got %s and %s", first, second)
	}

	for _, body := range []string{`{}`, `{"username":""}`, `{"username":5}`} {
		code, raw := s.do(t, http.MethodPost, "/api/users", body)
		if code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, code)
		}
		if msg := errorMessage(t, raw); msg != domain.ErrInvalidUsername.Error() {
			t.Fatalf("body %s: unexpected message %q", body, msg)
		}
	}
}

func TestRouter_DuplicateMovie(t *testing.T) {
	s := newTestServer(t, nil, 100)
	movie := `{"title":"Heat","year":1995,"username":"carol"}`

	if code, body := s.do(t, http.MethodPost, "/api/movies", movie); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", code, body)
	}
	code, body := s.do(t, http.MethodPost, "/api/movies", movie)
	if code != http.StatusConflict {
		t.Fatalf("expected 409, got %d %s", code, body)
	}
	if msg := errorMessage(t, body); msg != domain.ErrMovieExists.Error() {
		t.Fatalf("unexpected message %q", msg)
	}

	_, body = s.do(t, http.MethodGet, "/api/movies/carol", "")
	if n := len(decode[[]domain.Movie](t, body)); n != 1 {
		t.Fatalf("expected count to stay at 1, got %d", n)
	}
}

func TestRouter_OwnershipIsIndistinguishableFromAbsence(t *testing.T) {
	s := newTestServer(t, nil, 100)

	_, body := s.do(t, http.MethodPost, "/api/movies", `{"title":"Alien","year":1979,"username":"alice"}`)
	id := itoa(decode[domain.Movie](t, body).ID)

	code, body := s.do(t, http.MethodPut, "/api/movies/"+id, `{"title":"Aliens","year":1986,"username":"mallory"}`)
	if code != http.StatusNotFound || errorMessage(t, body) != domain.ErrMovieNotFound.Error() {
		t.Fatalf("foreign update: expected 404, got %d %s", code, body)
	}

	code, body = s.do(t, http.MethodDelete, "/api/movies/"+id, `{"username":"mallory"}`)
	if code != http.StatusNotFound {
		t.Fatalf("foreign delete: expected 404, got %d %s", code, body)
	}

	code, body = s.do(t, http.MethodDelete, "/api/movies/999999", `{"username":"alice"}`)
	if code != http.StatusNotFound {
		t.Fatalf("missing delete: expected 404, got %d %s", code, body)
	}

	code, body = s.do(t, http.MethodDelete, "/api/movies/"+id, `{"username":"alice"}`)
	if code != http.StatusOK {
		t.Fatalf("own delete: expected 200, got %d %s", code, body)
	}
	if msg := decode[map[string]string](t, body)["message"]; msg != "Movie deleted successfully." {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestRouter_ListUnknownUser(t *testing.T) {
	s := newTestServer(t, nil, 100)

	code, body := s.do(t, http.MethodGet, "/api/movies/nobody", "")
	if code != http.StatusNotFound || errorMessage(t, body) != "user not found" {
		t.Fatalf("expected 404 user not found, got %d %s", code, body)
	}

	// listing must not have created the user
	code, _ = s.do(t, http.MethodGet, "/api/movies/nobody", "")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 on second read, got %d", code)
	}
}

func TestRouter_ToggleCreatesThenFlips(t *testing.T) {
	s := newTestServer(t, nil, 100)
	_, body := s.do(t, http.MethodPost, "/api/users", `{"username":"dave"}`)
	userID := itoa(decode[map[string]int64](t, body)["userId"])
	toggle := `{"title":"Tron","year":1982,"userId":` + userID + `}`

	wants := []struct {
		code     int
		favorite bool
	}{
		{http.StatusCreated, true},
		{http.StatusOK, false},
		{http.StatusOK, true},
	}
	for i, want := range wants {
		code, body := s.do(t, http.MethodPut, "/api/movies/toggle-favorite", toggle)
		if code != want.code {
			t.Fatalf("toggle %d: expected %d, got %d %s", i+1, want.code, code, body)
		}
		if got := decode[domain.Movie](t, body).IsFavorite; got != want.favorite {
			t.Fatalf("toggle %d: expected is_favorite=%v", i+1, want.favorite)
		}
	}

	_, body = s.do(t, http.MethodGet, "/api/movies/dave", "")
	if n := len(decode[[]domain.Movie](t, body)); n != 1 {
		t.Fatalf("expected a single row, got %d", n)
	}

	code, body := s.do(t, http.MethodPut, "/api/movies/toggle-favorite", `{"title":"Tron","year":1982,"userId":424242}`)
	if code != http.StatusNotFound {
		t.Fatalf("unknown user: expected 404, got %d %s", code, body)
	}
}

func TestRouter_Validation(t *testing.T) {
	s := newTestServer(t, nil, 100)

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"create without title", http.MethodPost, "/api/movies", `{"username":"erin"}`},
		{"create with blank title", http.MethodPost, "/api/movies", `{"title":"  ","username":"erin"}`},
		{"update bad id", http.MethodPut, "/api/movies/abc", `{"title":"x","username":"erin"}`},
		{"delete bad id", http.MethodDelete, "/api/movies/abc", `{"username":"erin"}`},
		{"toggle without title", http.MethodPut, "/api/movies/toggle-favorite", `{"userId":1}`},
		{"search without query", http.MethodGet, "/api/omdb-movies/search", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := s.do(t, tt.method, tt.target, tt.body)
			if code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d %s", code, body)
			}
			if errorMessage(t, body) == "" {
				t.Fatalf("expected an error message, got %s", body)
			}
		})
	}
}

func TestRouter_Search(t *testing.T) {
	provider := &stubProvider{movies: map[string]domain.Movie{
		"Inception": domain.NewSearchResult("Inception", 2010, "148 min", "Sci-Fi", "Christopher Nolan"),
	}}
	s := newTestServer(t, provider, 100)

	code, body := s.do(t, http.MethodGet, "/api/omdb-movies/search?t=Inception", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", code, body)
	}
	if got := decode[[]domain.Movie](t, body); len(got) != 1 || got[0].ID != -1 || got[0].UserID != -1 {
		t.Fatalf("unexpected results: %+v", got)
	}

	code, body = s.do(t, http.MethodGet, "/api/omdb-movies/search?t=zzqx", "")
	if code != http.StatusOK || strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("no match: expected 200 [], got %d %s", code, body)
	}
}

func TestRouter_SearchFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not configured", domain.ErrSearchNotConfigured, "search provider is not configured"},
		{"provider down", context.DeadlineExceeded, "failed to fetch movies from search provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &stubProvider{err: tt.err}, 100)
			code, body := s.do(t, http.MethodGet, "/api/omdb-movies/search?t=Inception", "")
			if code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d %s", code, body)
			}
			if msg := errorMessage(t, body); msg != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, msg)
			}
		})
	}
}

func TestRouter_SearchRateLimit(t *testing.T) {
	s := newTestServer(t, nil, 0.01)

	if code, body := s.do(t, http.MethodGet, "/api/omdb-movies/search?t=a", ""); code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d %s", code, body)
	}
	code, body := s.do(t, http.MethodGet, "/api/omdb-movies/search?t=a", "")
	if code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d %s", code, body)
	}
	if msg := errorMessage(t, body); msg != "rate limit exceeded" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestRouter_OpsEndpoints(t *testing.T) {
	s := newTestServer(t, nil, 100)

	tests := []struct {
		target   string
		contains string
	}{
		{"/", "running"},
		{"/health", `"status":"ok"`},
		{"/health/ready", `"status":"ok"`},
		{"/metrics", "movies_http_requests_total"},
		{"/swagger/doc.json", "/api/movies/toggle-favorite"},
	}
	// one request so the http metrics have a sample
	s.do(t, http.MethodGet, "/health", "")

	for _, tt := range tests {
		code, body := s.do(t, http.MethodGet, tt.target, "")
		if code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tt.target, code)
		}
		if !strings.Contains(string(body), tt.contains) {
			t.Fatalf("%s: expected body to contain %q, got %.200s", tt.target, tt.contains, body)
		}
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	s := newTestServer(t, nil, 100)

	code, body := s.do(t, http.MethodGet, "/api/nope", "")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if errorMessage(t, body) == "" {
		t.Fatalf("expected error envelope, got %s", body)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
