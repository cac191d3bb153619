package external

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"driftboard/internal/types"
)

// roundTripperFunc adapts a function into an http.RoundTripper so
// tests can serve canned responses without a network listener.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func noSleep(time.Duration) {}

func TestBaseClient_Success(t *testing.T) {
	client := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if ua := r.Header.Get("User-Agent"); ua != "driftboard" {
			t.Errorf("expected user agent driftboard, got %q", ua)
		}
		return jsonResponse(http.StatusOK, `{"ok":true}`), nil
	})}
	bc := NewBaseClient(client, "test", DefaultRetryPolicy(), "driftboard", WithSleepFunc(noSleep))

	req, _ := http.NewRequest(http.MethodGet, "https://upstream.example/x", nil)
	resp, err := bc.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestBaseClient_RetriesOn5xx(t *testing.T) {
	attempts := 0
	client := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		attempts++
		if attempts < 3 {
			return jsonResponse(http.StatusInternalServerError, `{}`), nil
		}
		return jsonResponse(http.StatusOK, `{"ok":true}`), nil
	})}
	bc := NewBaseClient(client, "test", DefaultRetryPolicy(), "driftboard", WithSleepFunc(noSleep))

	req, _ := http.NewRequest(http.MethodGet, "https://upstream.example/x", nil)
	resp, err := bc.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestBaseClient_ExhaustedRetriesMapTo502(t *testing.T) {
	client := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, `{}`), nil
	})}
	bc := NewBaseClient(client, "test", DefaultRetryPolicy(), "driftboard", WithSleepFunc(noSleep))

	req, _ := http.NewRequest(http.MethodGet, "https://upstream.example/x", nil)
	_, err := bc.Do(req)
	if err == nil {
		t.Fatal("expected an error after exhausted retries")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *types.AppError, got %T", err)
	}
	if appErr.Code != types.ErrCodeUpstreamUnavailable {
		t.Errorf("expected %s, got %s", types.ErrCodeUpstreamUnavailable, appErr.Code)
	}
}

func TestBaseClient_429MapsToUpstreamRateLimited(t *testing.T) {
	client := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusTooManyRequests, `{}`), nil
	})}
	bc := NewBaseClient(client, "test", DefaultRetryPolicy(), "driftboard", WithSleepFunc(noSleep))

	req, _ := http.NewRequest(http.MethodGet, "https://upstream.example/x", nil)
	_, err := bc.Do(req)

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *types.AppError, got %T", err)
	}
	if appErr.Code != types.ErrCodeUpstreamRateLimited {
		t.Errorf("expected %s, got %s", types.ErrCodeUpstreamRateLimited, appErr.Code)
	}
}

func TestBaseClient_NoRetryOn4xx(t *testing.T) {
	attempts := 0
	client := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		attempts++
		return jsonResponse(http.StatusNotFound, `{}`), nil
	})}
	bc := NewBaseClient(client, "test", DefaultRetryPolicy(), "driftboard", WithSleepFunc(noSleep))

	req, _ := http.NewRequest(http.MethodGet, "https://upstream.example/x", nil)
	resp, err := bc.Do(req)
	if err != nil {
		t.Fatalf("4xx responses are returned to the caller, got error %v", err)
	}
	defer resp.Body.Close()
	if attempts != 1 {
		t.Errorf("expected 1 attempt for a 404, got %d", attempts)
	}
}

func TestBaseClient_ReplaysBodyAcrossRetries(t *testing.T) {
	var bodies []string
	attempts := 0
	client := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		attempts++
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if attempts < 2 {
			return jsonResponse(http.StatusServiceUnavailable, `{}`), nil
		}
		return jsonResponse(http.StatusOK, `{}`), nil
	})}
	bc := NewBaseClient(client, "test", DefaultRetryPolicy(), "driftboard", WithSleepFunc(noSleep))

	req, _ := http.NewRequest(http.MethodPost, "https://upstream.example/x", bytes.NewReader([]byte(`{"q":"tokyo"}`)))
	resp, err := bc.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if len(bodies) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(bodies))
	}
	for i, b := range bodies {
		if b != `{"q":"tokyo"}` {
			t.Errorf("attempt %d saw body %q", i+1, b)
		}
	}
}

func TestBaseClient_RespectsRetryAfterSeconds(t *testing.T) {
	var slept []time.Duration
	attempts := 0
	client := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		attempts++
		if attempts == 1 {
			resp := jsonResponse(http.StatusTooManyRequests, `{}`)
			resp.Header.Set("Retry-After", "3")
			return resp, nil
		}
		return jsonResponse(http.StatusOK, `{}`), nil
	})}
	bc := NewBaseClient(client, "test", DefaultRetryPolicy(), "driftboard",
		WithSleepFunc(func(d time.Duration) { slept = append(slept, d) }))

	req, _ := http.NewRequest(http.MethodGet, "https://upstream.example/x", nil)
	resp, err := bc.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if len(slept) != 1 {
		t.Fatalf("expected 1 sleep, got %d", len(slept))
	}
	if slept[0] != 3*time.Second {
		t.Errorf("expected Retry-After of 3s to be honored, slept %v", slept[0])
	}
}

func TestBaseClient_TracePropagation(t *testing.T) {
	var traceID string
	client := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		traceID = r.Header.Get("X-Request-Id")
		return jsonResponse(http.StatusOK, `{}`), nil
	})}
	bc := NewBaseClient(client, "test", DefaultRetryPolicy(), "driftboard", WithSleepFunc(noSleep))

	req, _ := http.NewRequest(http.MethodGet, "https://upstream.example/x", nil)
	req = req.WithContext(types.WithRequestID(req.Context(), "trace-9"))
	resp, err := bc.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if traceID != "trace-9" {
		t.Errorf("expected trace id propagated, got %q", traceID)
	}
}
