package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	key := "client"
	if !limiter.Allow(key) {
		t.Fatalf("expected allow on first")
	}
	if !limiter.Allow(key) {
		t.Fatalf("expected allow on second")
	}
	if limiter.Allow(key) {
		t.Fatalf("expected block on third")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	limiter := NewRateLimiter(1, time.Millisecond)
	key := "client"
	if !limiter.Allow(key) {
		t.Fatalf("expected allow on first")
	}
	if limiter.Allow(key) {
		t.Fatalf("expected block inside window")
	}
	time.Sleep(5 * time.Millisecond)
	if !limiter.Allow(key) {
		t.Fatalf("expected allow after window reset")
	}
}

func TestHandleCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/entries", nil)
	rec := httptest.NewRecorder()
	if !HandleCORS(rec, req, "http://localhost:5173") {
		t.Fatalf("expected preflight to be handled")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allow-origin: %q", got)
	}
}

func TestHandleCORSPassThrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
	rec := httptest.NewRecorder()
	if HandleCORS(rec, req, "http://localhost:5173") {
		t.Fatalf("expected request to pass through")
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got == "" {
		t.Fatalf("expected cors headers to be set")
	}
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:4312"
	if got := ClientKey(req); got != "10.0.0.9" {
		t.Fatalf("expected remote host, got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ClientKey(req); got != "203.0.113.7" {
		t.Fatalf("expected first forwarded address, got %q", got)
	}
}
