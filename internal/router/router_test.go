package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/delir1um/Bizzin-sub001/internal/analysis"
	"github.com/delir1um/Bizzin-sub001/internal/handlers"
	"github.com/delir1um/Bizzin-sub001/internal/middleware"
)

const testOrigin = "http://localhost:5173"

func newTestRouter(limiter *middleware.RateLimiter) *Router {
	api := &handlers.API{
		Analysis:       analysis.NewService(nil, nil, nil, nil),
		FrontendOrigin: testOrigin,
	}
	return New(api, limiter, testOrigin, nil, nil)
}

func TestHealthz(t *testing.T) {
	rt := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != `{"status":"ok"}` {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("security headers missing")
	}
}

func TestTrailingSlashIsTrimmed(t *testing.T) {
	rt := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz/", nil)
	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	rt := newTestRouter(nil)
	for _, request := range []struct {
		method string
		target string
	}{
		{http.MethodGet, "/nope"},
		{http.MethodDelete, "/healthz"},
		{http.MethodGet, "/api/v1/entries/not-a-uuid"},
		{http.MethodGet, "/api/v1/ws"},
	} {
		req := httptest.NewRequest(request.method, request.target, nil)
		rec := httptest.NewRecorder()
		rt.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404, got %d", request.method, request.target, rec.Code)
		}
		if rec.Body.String() != `{"error":"not found"}` {
			t.Fatalf("%s %s: unexpected body %s", request.method, request.target, rec.Body.String())
		}
	}
}

func TestAnalyzeSentimentRoute(t *testing.T) {
	rt := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze-sentiment", strings.NewReader(`{"text":"I am sad"}`))
	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestPreflightShortCircuits(t *testing.T) {
	rt := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/entries", nil)
	req.Header.Set("Origin", testOrigin)
	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != testOrigin {
		t.Fatalf("missing allow-origin header")
	}
}

func TestRateLimitAppliesToAPIOnly(t *testing.T) {
	rt := newTestRouter(middleware.NewRateLimiter(1, time.Minute))

	req := httptest.NewRequest(http.MethodPost, "/api/analyze-sentiment", strings.NewReader(`{"text":"I am sad"}`))
	req.RemoteAddr = "10.1.2.3:9999"
	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/analyze-sentiment", strings.NewReader(`{"text":"I am sad"}`))
	req.RemoteAddr = "10.1.2.3:9999"
	rec = httptest.NewRecorder()
	rt.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "10.1.2.3:9999"
	rec = httptest.NewRecorder()
	rt.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("health checks should bypass the limiter, got %d", rec.Code)
	}
}
