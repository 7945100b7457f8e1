package middleware

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
	"github.com/KirilDora/movie-fullstack-app/internal/core/ports"
)

const userIDKey = "user_id"

// maxPeekBytes caps how much of the body is buffered to find the username.
const maxPeekBytes = 1 << 20

// ResolveUser reads "username" from the JSON body, finds or creates the user
// and injects its id into the context. The body is restored so the handler
// can bind it again.
func ResolveUser(users ports.UserService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			username, err := peekUsername(c)
			if err != nil {
				return domain.ErrInvalidUsername
			}

			id, err := users.Ensure(c.Request().Context(), username)
			if err != nil {
				return err
			}

			c.Set(userIDKey, id)
			return next(c)
		}
	}
}

// UserID returns the id injected by ResolveUser.
func UserID(c echo.Context) (int64, bool) {
	id, ok := c.Get(userIDKey).(int64)
	return id, ok
}

func peekUsername(c echo.Context) (string, error) {
	req := c.Request()
	if req.Body == nil {
		return "", io.EOF
	}

	raw, err := io.ReadAll(io.LimitReader(req.Body, maxPeekBytes))
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return "", err
	}

	var body struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", err
	}
	return body.Username, nil
}
