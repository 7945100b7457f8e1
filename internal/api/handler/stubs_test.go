package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
	"github.com/KirilDora/movie-fullstack-app/internal/core/ports"
)

type stubUserService struct {
	ids     map[string]int64
	ensured []string
}

func newStubUsers(names ...string) *stubUserService {
	s := &stubUserService{ids: map[string]int64{}}
	for i, n := range names {
		s.ids[n] = int64(i + 1)
	}
	return s
}

func (s *stubUserService) Ensure(_ context.Context, username string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, domain.ErrInvalidUsername
	}
	s.ensured = append(s.ensured, username)
	if id, ok := s.ids[username]; ok {
		return id, nil
	}
	id := int64(len(s.ids) + 1)
	s.ids[username] = id
	return id, nil
}

func (s *stubUserService) Lookup(_ context.Context, username string) (int64, error) {
	if id, ok := s.ids[username]; ok {
		return id, nil
	}
	return 0, domain.ErrUserNotFound
}

func (s *stubUserService) Get(_ context.Context, id int64) (*domain.User, error) {
	for name, uid := range s.ids {
		if uid == id {
			return &domain.User{ID: id, Username: name}, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type stubMovieService struct {
	listFn   func(username string) ([]domain.Movie, error)
	createFn func(userID int64, f domain.MovieFields) (*domain.Movie, error)
	updateFn func(id, userID int64, f domain.MovieFields) (*domain.Movie, error)
	deleteFn func(id, userID int64) error
	toggleFn func(userID int64, f domain.MovieFields) (*ports.ToggleResult, error)
}

func (s *stubMovieService) List(_ context.Context, username string) ([]domain.Movie, error) {
	return s.listFn(username)
}

func (s *stubMovieService) Create(_ context.Context, userID int64, f domain.MovieFields) (*domain.Movie, error) {
	return s.createFn(userID, f)
}

func (s *stubMovieService) Update(_ context.Context, id, userID int64, f domain.MovieFields) (*domain.Movie, error) {
	return s.updateFn(id, userID, f)
}

func (s *stubMovieService) Delete(_ context.Context, id, userID int64) error {
	return s.deleteFn(id, userID)
}

func (s *stubMovieService) ToggleFavorite(_ context.Context, userID int64, f domain.MovieFields) (*ports.ToggleResult, error) {
	return s.toggleFn(userID, f)
}

// newTestContext builds a request context with the JSON body and path params set.
func newTestContext(method, target, body string, params map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if len(params) > 0 {
		names := make([]string, 0, len(params))
		values := make([]string, 0, len(params))
		for name, value := range params {
			names = append(names, name)
			values = append(values, value)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return c, rec
}

func httpStatus(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}
