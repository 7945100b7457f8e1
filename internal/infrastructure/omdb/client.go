// Package omdb is the MovieProvider backed by the OMDb title lookup API.
package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/KirilDora/movie-fullstack-app/internal/api/metrics"
	"github.com/KirilDora/movie-fullstack-app/internal/core/domain"
)

const (
	DefaultBaseURL = "http://www.omdbapi.com/"
	defaultTimeout = 10 * time.Second

	notAvailable = "N/A"
)

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client looks titles up with GET {base}?t=<title>&apikey=<key>.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// titleResponse is the subset of the OMDb payload the catalog keeps.
type titleResponse struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	Runtime  string `json:"Runtime"`
	Genre    string `json:"Genre"`
	Director string `json:"Director"`
}

// FindByTitle returns (nil, nil) when OMDb has no match.
func (c *Client) FindByTitle(ctx context.Context, title string) (*domain.Movie, error) {
	if c.apiKey == "" {
		return nil, domain.ErrSearchNotConfigured
	}

	start := time.Now()
	movie, err := c.lookup(ctx, title)

	outcome := "match"
	switch {
	case err != nil:
		outcome = "error"
	case movie == nil:
		outcome = "no_match"
	}
	metrics.SearchProviderDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	return movie, err
}

func (c *Client) lookup(ctx context.Context, title string) (*domain.Movie, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("omdb base url: %w", err)
	}
	q := u.Query()
	q.Set("t", title)
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("omdb request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error carries the full URL, api key included.
		return nil, fmt.Errorf("omdb fetch: %w", redact(err, c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("omdb returned status %d", resp.StatusCode)
	}

	var body titleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("omdb decode: %w", err)
	}
	if body.Response != "True" {
		return nil, nil
	}

	m := domain.NewSearchResult(
		text(body.Title),
		parseYear(body.Year),
		text(body.Runtime),
		text(body.Genre),
		text(body.Director),
	)
	return &m, nil
}

// parseYear reads the leading four digits; series ranges like "2010–2012"
// yield their first year and anything unparseable yields 0.
func parseYear(s string) int {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return 0
	}
	y, err := strconv.Atoi(s[:4])
	if err != nil {
		return 0
	}
	return y
}

func text(s string) string {
	s = strings.TrimSpace(s)
	if s == notAvailable {
		return ""
	}
	return s
}

func redact(err error, secret string) error {
	if secret == "" {
		return err
	}
	return redactedError{msg: strings.ReplaceAll(err.Error(), secret, "REDACTED"), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e redactedError) Error() string { return e.msg }
func (e redactedError) Unwrap() error { return e.err }
