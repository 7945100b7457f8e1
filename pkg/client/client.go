// Package client is a Go client for the movie catalog API. Reads are cached
// in a shared Cache; every mutation invalidates the cached movie lists.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Operation names used in cache keys.
const (
	OpSearchMovies = "searchOmdbMovies"
	OpListMovies   = "getMovies"
)

const maxErrorBody = 64 << 10

// Movie mirrors the server's movie JSON. Search results carry ID and UserID -1.
type Movie struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Year       int    `json:"year"`
	Runtime    string `json:"runtime"`
	Genre      string `json:"genre"`
	Director   string `json:"director"`
	IsFavorite bool   `json:"is_favorite"`
	UserID     int64  `json:"user_id"`
}

// Saved reports whether m exists in a catalog.
func (m Movie) Saved() bool {
	return m.ID > 0
}

// MovieInput is the body of add and edit.
type MovieInput struct {
	Title      string `json:"title"`
	Year       int    `json:"year"`
	Runtime    string `json:"runtime"`
	Genre      string `json:"genre"`
	Director   string `json:"director"`
	IsFavorite bool   `json:"is_favorite"`
	Username   string `json:"username"`
}

// ToggleInput identifies the movie to toggle and its owner. Set UserID when
// known; the server falls back to Username otherwise.
type ToggleInput struct {
	Title    string `json:"title"`
	Year     int    `json:"year"`
	Runtime  string `json:"runtime"`
	Genre    string `json:"genre"`
	Director string `json:"director"`
	UserID   int64  `json:"userId,omitempty"`
	Username string `json:"username,omitempty"`
}

// ToggleInputFrom copies the descriptive fields of m.
func ToggleInputFrom(m Movie) ToggleInput {
	return ToggleInput{
		Title:    m.Title,
		Year:     m.Year,
		Runtime:  m.Runtime,
		Genre:    m.Genre,
		Director: m.Director,
	}
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

type Client struct {
	baseURL string
	http    *http.Client
	cache   *Cache
}

// New returns a Client for the server at baseURL (for example
// "http://localhost:8080"). cache is shared, never created here.
func New(baseURL string, cache *Cache, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		cache:   cache,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cache returns the cache the client reads through.
func (c *Client) Cache() *Cache {
	return c.cache
}

// EnsureUser finds or creates username and returns its id.
func (c *Client) EnsureUser(ctx context.Context, username string) (int64, error) {
	var out struct {
		UserID int64 `json:"userId"`
	}
	if err := c.send(ctx, http.MethodPost, "/api/users", map[string]string{"username": username}, &out); err != nil {
		return 0, err
	}
	return out.UserID, nil
}

// SearchMovies looks title up through the server's OMDb proxy. A blank title
// returns no results without a request.
func (c *Client) SearchMovies(ctx context.Context, title string) ([]Movie, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return []Movie{}, nil
	}

	args := map[string]string{"searchQuery": title}
	movies, err := query(ctx, c.cache, OpSearchMovies, args, nil, func(ctx context.Context) ([]Movie, error) {
		var out []Movie
		err := c.send(ctx, http.MethodGet, "/api/omdb-movies/search?t="+url.QueryEscape(title), nil, &out)
		return out, err
	})
	return clone(movies), err
}

// ListMovies returns username's catalog.
func (c *Client) ListMovies(ctx context.Context, username string) ([]Movie, error) {
	movies, err := query(ctx, c.cache, OpListMovies, ListArgs(username), []Tag{TagMovies}, func(ctx context.Context) ([]Movie, error) {
		var out []Movie
		err := c.send(ctx, http.MethodGet, "/api/movies/"+url.PathEscape(username), nil, &out)
		return out, err
	})
	return clone(movies), err
}

// ListArgs are the cache arguments of ListMovies, for use with Key.
func ListArgs(username string) map[string]string {
	return map[string]string{"username": username}
}

func (c *Client) AddMovie(ctx context.Context, in MovieInput) (*Movie, error) {
	var out Movie
	if err := c.mutate(ctx, http.MethodPost, "/api/movies", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EditMovie replaces every field of movie id.
func (c *Client) EditMovie(ctx context.Context, id int64, in MovieInput) (*Movie, error) {
	var out Movie
	if err := c.mutate(ctx, http.MethodPut, "/api/movies/"+strconv.FormatInt(id, 10), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMovie(ctx context.Context, id int64, username string) error {
	return c.mutate(ctx, http.MethodDelete, "/api/movies/"+strconv.FormatInt(id, 10),
		map[string]string{"username": username}, nil)
}

// ToggleFavorite flips the favorite flag of the (title, year) entry, adding
// it as a favorite when the user does not have it yet.
func (c *Client) ToggleFavorite(ctx context.Context, in ToggleInput) (*Movie, error) {
	var out Movie
	if err := c.mutate(ctx, http.MethodPut, "/api/movies/toggle-favorite", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) mutate(ctx context.Context, method, path string, body, out any) error {
	if err := c.send(ctx, method, path, body, out); err != nil {
		return err
	}
	c.cache.Invalidate(TagMovies)
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var envelope struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &envelope) == nil {
		msg = envelope.Error
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

func clone(movies []Movie) []Movie {
	if movies == nil {
		return nil
	}
	out := make([]Movie, len(movies))
	copy(out, movies)
	return out
}
