package router

import (
	"net/http"
	"strings"

	"github.com/delir1um/Bizzin-sub001/internal/handlers"
	"github.com/delir1um/Bizzin-sub001/internal/middleware"
	"github.com/delir1um/Bizzin-sub001/internal/realtime"
)

type Router struct {
	api     *handlers.API
	limiter *middleware.RateLimiter
	origin  string
	hub     *realtime.Hub
	metrics http.Handler
}

func New(api *handlers.API, limiter *middleware.RateLimiter, origin string, hub *realtime.Hub, metrics http.Handler) *Router {
	return &Router{api: api, limiter: limiter, origin: origin, hub: hub, metrics: metrics}
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if middleware.HandleCORS(w, r, rt.origin) {
		return
	}
	middleware.SecurityHeaders(w)

	path := strings.TrimSuffix(r.URL.Path, "/")
	if path == "" {
		path = "/"
	}

	if rt.limiter != nil && strings.HasPrefix(path, "/api/") {
		key := middleware.ClientKey(r)
		if !rt.limiter.Allow(key) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("{\"error\":\"rate limit exceeded\"}"))
			return
		}
	}

	switch {
	case path == "/healthz":
		if r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{\"status\":\"ok\"}"))
			return
		}
	case path == "/metrics":
		if r.Method == http.MethodGet && rt.metrics != nil {
			rt.metrics.ServeHTTP(w, r)
			return
		}
	case path == "/api/analyze-sentiment":
		if r.Method == http.MethodPost {
			rt.api.AnalyzeSentiment(w, r)
			return
		}
	case path == "/api/v1/entries":
		switch r.Method {
		case http.MethodGet:
			rt.api.ListEntries(w, r)
			return
		case http.MethodPost:
			rt.api.CreateEntry(w, r)
			return
		}
	case strings.HasPrefix(path, "/api/v1/entries/"):
		if id, ok := handlers.ParseUUID(strings.TrimPrefix(path, "/api/v1/entries/")); ok {
			switch r.Method {
			case http.MethodGet:
				rt.api.GetEntry(w, r, id)
				return
			case http.MethodPatch:
				rt.api.UpdateEntry(w, r, id)
				return
			case http.MethodDelete:
				rt.api.DeleteEntry(w, r, id)
				return
			}
		}
	case path == "/api/v1/goals":
		switch r.Method {
		case http.MethodGet:
			rt.api.ListGoals(w, r)
			return
		case http.MethodPost:
			rt.api.CreateGoal(w, r)
			return
		}
	case strings.HasPrefix(path, "/api/v1/goals/"):
		if id, ok := handlers.ParseUUID(strings.TrimPrefix(path, "/api/v1/goals/")); ok {
			switch r.Method {
			case http.MethodGet:
				rt.api.GetGoal(w, r, id)
				return
			case http.MethodPatch:
				rt.api.UpdateGoal(w, r, id)
				return
			case http.MethodDelete:
				rt.api.DeleteGoal(w, r, id)
				return
			}
		}
	case path == "/api/v1/analysis":
		if r.Method == http.MethodPost {
			rt.api.AnalyzeText(w, r)
			return
		}
	case path == "/api/v1/analysis/providers":
		switch r.Method {
		case http.MethodGet:
			rt.api.ListProviders(w, r)
			return
		case http.MethodPost:
			rt.api.CreateProvider(w, r)
			return
		}
	case strings.HasPrefix(path, "/api/v1/analysis/providers/"):
		segments := strings.Split(strings.TrimPrefix(path, "/api/v1/analysis/providers/"), "/")
		if id, ok := handlers.ParseID(segments[0]); ok {
			switch {
			case len(segments) == 1:
				switch r.Method {
				case http.MethodGet:
					rt.api.GetProvider(w, r, id)
					return
				case http.MethodPatch:
					rt.api.UpdateProvider(w, r, id)
					return
				case http.MethodDelete:
					rt.api.DeleteProvider(w, r, id)
					return
				}
			case len(segments) == 2 && segments[1] == "test":
				if r.Method == http.MethodPost {
					rt.api.TestProvider(w, r, id)
					return
				}
			}
		}
	case path == "/api/v1/analysis/usage":
		if r.Method == http.MethodGet {
			rt.api.GetUsageStats(w, r)
			return
		}
	case path == "/api/v1/analysis/usage/breakdown":
		if r.Method == http.MethodGet {
			rt.api.GetUsageBreakdown(w, r)
			return
		}
	case path == "/api/v1/migration/run":
		if r.Method == http.MethodPost {
			rt.api.StartMigration(w, r)
			return
		}
	case path == "/api/v1/migration/runs":
		if r.Method == http.MethodGet {
			rt.api.ListMigrationRuns(w, r)
			return
		}
	case strings.HasPrefix(path, "/api/v1/migration/runs/"):
		if id, ok := handlers.ParseUUID(strings.TrimPrefix(path, "/api/v1/migration/runs/")); ok {
			if r.Method == http.MethodGet {
				rt.api.GetMigrationRun(w, r, id)
				return
			}
		}
	case path == "/api/v1/dashboard":
		if r.Method == http.MethodGet {
			rt.api.GetDashboard(w, r)
			return
		}
	case path == "/api/v1/dashboard/stream":
		if r.Method == http.MethodGet {
			rt.api.StreamDashboard(w, r)
			return
		}
	case path == "/api/v1/daily-digest":
		if r.Method == http.MethodGet {
			rt.api.GetLatestDigest(w, r)
			return
		}
	case path == "/api/v1/jobs/daily-digest":
		if r.Method == http.MethodPost {
			rt.api.RunDailyDigest(w, r)
			return
		}
	case path == "/api/v1/referral":
		if r.Method == http.MethodGet {
			rt.api.GetReferral(w, r)
			return
		}
	case path == "/api/v1/referral/qr.png":
		if r.Method == http.MethodGet {
			rt.api.GetReferralQR(w, r)
			return
		}
	case path == "/api/v1/export/entries":
		if r.Method == http.MethodGet {
			rt.api.ExportEntries(w, r)
			return
		}
	case path == "/api/v1/ws":
		if r.Method == http.MethodGet && rt.hub != nil {
			realtime.ServeWS(w, r, rt.hub, handlers.TenantID(r))
			return
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("{\"error\":\"not found\"}"))
}
