package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// HandleCORS writes the CORS headers for the configured frontend origin and
// answers preflight requests in place. It reports true when the request was
// fully handled.
func HandleCORS(w http.ResponseWriter, r *http.Request, allowedOrigin string) bool {
	headers := w.Header()
	if allowedOrigin != "" {
		headers.Set("Access-Control-Allow-Origin", allowedOrigin)
	}
	headers.Set("Vary", "Origin")
	headers.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
	headers.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Tenant-ID, X-Cron-Signature")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

func SecurityHeaders(w http.ResponseWriter) {
	headers := w.Header()
	headers.Set("X-Content-Type-Options", "nosniff")
	headers.Set("X-Frame-Options", "DENY")
	headers.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	headers.Set("Content-Security-Policy", "default-src 'self'; connect-src 'self' http://localhost:8080 ws://localhost:8080 http://localhost:5173; img-src 'self' data:; style-src 'self' 'unsafe-inline'")
}

// RateLimiter is a fixed-window per-client counter. Windows are tracked per
// key and pruned opportunistically, so the map stays proportional to the
// number of clients seen within one window.
type RateLimiter struct {
	limit  int
	window time.Duration

	mu        sync.Mutex
	items     map[string]*rateEntry
	lastPrune time.Time
}

type rateEntry struct {
	count int
	reset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		window:    window,
		items:     map[string]*rateEntry{},
		lastPrune: time.Now(),
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastPrune) > rl.window {
		for k, entry := range rl.items {
			if now.After(entry.reset) {
				delete(rl.items, k)
			}
		}
		rl.lastPrune = now
	}

	entry, ok := rl.items[key]
	if !ok || now.After(entry.reset) {
		rl.items[key] = &rateEntry{count: 1, reset: now.Add(rl.window)}
		return true
	}
	if entry.count >= rl.limit {
		return false
	}
	entry.count++
	return true
}

// ClientKey identifies the caller for rate limiting: the first forwarded
// address when the gateway sets one, otherwise the peer address.
func ClientKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
