package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLiveness(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/health", "", nil)
	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     map[string]Check
		wantCode   int
		wantStatus string
	}{
		{"no dependencies", nil, http.StatusOK, "ok"},
		{"all healthy", map[string]Check{"postgres": ok, "redis": ok}, http.StatusOK, "ok"},
		{"one down", map[string]Check{"postgres": ok, "redis": down}, http.StatusServiceUnavailable, "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(http.MethodGet, "/health/ready", "", nil)
			if err := NewHealthDependenciesHandler(tt.checks, zerolog.Nop()).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}

			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Fatalf("expected status %q, got %q", tt.wantStatus, resp.Status)
			}
			if len(resp.Dependencies) != len(tt.checks) {
				t.Fatalf("expected %d dependencies, got %v", len(tt.checks), resp.Dependencies)
			}
			if tt.name == "one down" && resp.Dependencies["redis"].Status != "unhealthy" {
				t.Fatalf("expected redis to be unhealthy, got %+v", resp.Dependencies["redis"])
			}
		})
	}
}

func TestReadiness_DoesNotExposeCheckErrors(t *testing.T) {
	var logs bytes.Buffer
	checks := map[string]Check{
		"postgres": func(context.Context) error {
			return errors.New(`dial tcp 10.0.0.5:5432: password authentication failed for user "movies"`)
		},
	}

	c, rec := newTestContext(http.MethodGet, "/health/ready", "", nil)
	if err := NewHealthDependenciesHandler(checks, zerolog.New(&logs)).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if body := rec.Body.String(); strings.Contains(body, "password") || strings.Contains(body, "10.0.0.5") {
		t.Fatalf("check error leaked into response: %s", body)
	}
	if !strings.Contains(logs.String(), "password authentication failed") {
		t.Fatalf("expected check error to be logged, got %q", logs.String())
	}
}
