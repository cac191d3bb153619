package core

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// stubProbe implements HealthProbe with a canned result.
type stubProbe struct {
	name  string
	err   error
	panic bool
}

func (p stubProbe) Name() string { return p.name }

func (p stubProbe) Check(ctx context.Context) error {
	if p.panic {
		panic("probe exploded")
	}
	return p.err
}

func TestHandleHealth_NoProbes(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	srv.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp healthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("expected healthy, got %q", resp.Status)
	}
}

func TestHandleHealth_AllHealthy(t *testing.T) {
	srv := testServer(t)
	srv.HealthProbes = []HealthProbe{
		stubProbe{name: "database"},
		stubProbe{name: "cache"},
	}

	w := httptest.NewRecorder()
	srv.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp healthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Components["database"].Status != "healthy" {
		t.Errorf("expected database healthy, got %+v", resp.Components["database"])
	}
}

func TestHandleHealth_UnhealthyComponent(t *testing.T) {
	srv := testServer(t)
	srv.HealthProbes = []HealthProbe{
		stubProbe{name: "database", err: errors.New("connection refused")},
		stubProbe{name: "cache"},
	}

	w := httptest.NewRecorder()
	srv.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}

	var resp healthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "unhealthy" {
		t.Errorf("expected unhealthy, got %q", resp.Status)
	}
	if resp.Components["database"].Status != "unhealthy" {
		t.Errorf("expected database unhealthy, got %+v", resp.Components["database"])
	}
	if resp.Components["cache"].Status != "healthy" {
		t.Errorf("expected cache healthy, got %+v", resp.Components["cache"])
	}
}

func TestHandleHealth_PanickingProbe(t *testing.T) {
	srv := testServer(t)
	srv.HealthProbes = []HealthProbe{
		stubProbe{name: "flaky", panic: true},
	}

	w := httptest.NewRecorder()
	srv.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when a probe panics, got %d", w.Code)
	}
}
