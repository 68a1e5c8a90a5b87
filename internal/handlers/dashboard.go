package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/delir1um/Bizzin-sub001/internal/models"
)

func (a *API) GetDashboard(w http.ResponseWriter, r *http.Request) {
	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	summary := models.DashboardSummary{
		MoodCounts:     map[string]int64{},
		CategoryCounts: map[string]int64{},
	}

	counts := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM journal_entries WHERE tenant_id=$1", &summary.TotalEntries},
		{"SELECT COUNT(*) FROM journal_entries WHERE tenant_id=$1 AND analysis_json IS NOT NULL", &summary.AnalyzedEntries},
		{"SELECT COUNT(*) FROM goals WHERE tenant_id=$1 AND status <> 'achieved'", &summary.OpenGoals},
		{"SELECT COUNT(*) FROM journal_entries WHERE tenant_id=$1 AND entry_date >= DATE_TRUNC('week', NOW())", &summary.EntriesThisWeek},
	}

	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		for _, q := range counts {
			if err := conn.QueryRow(ctx, q.query, tenantID).Scan(q.dest); err != nil {
				return err
			}
		}

		rows, err := conn.Query(ctx, `
			SELECT analysis_json::jsonb->>'primary_mood', COUNT(*)
			FROM journal_entries
			WHERE tenant_id=$1 AND analysis_json IS NOT NULL
			GROUP BY 1`, tenantID)
		if err != nil {
			return err
		}
		for rows.Next() {
			var mood *string
			var count int64
			if err := rows.Scan(&mood, &count); err != nil {
				rows.Close()
				return err
			}
			if mood != nil {
				summary.MoodCounts[*mood] = count
			}
		}
		rows.Close()

		rows, err = conn.Query(ctx, `
			SELECT analysis_json::jsonb->>'business_category', COUNT(*)
			FROM journal_entries
			WHERE tenant_id=$1 AND analysis_json IS NOT NULL
			GROUP BY 1`, tenantID)
		if err != nil {
			return err
		}
		for rows.Next() {
			var category *string
			var count int64
			if err := rows.Scan(&category, &count); err != nil {
				rows.Close()
				return err
			}
			if category != nil {
				summary.CategoryCounts[*category] = count
			}
		}
		rows.Close()

		return nil
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (a *API) StreamDashboard(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			writer := &responseBuffer{w: w}
			a.GetDashboard(writer, r)
			if writer.status == http.StatusOK {
				_, _ = w.Write([]byte("data: " + writer.body + "\n\n"))
				flusher.Flush()
			}
		}
	}
}

type responseBuffer struct {
	w       http.ResponseWriter
	body    string
	status  int
	headers http.Header
}

func (rb *responseBuffer) Header() http.Header {
	if rb.headers == nil {
		rb.headers = http.Header{}
	}
	return rb.headers
}

func (rb *responseBuffer) WriteHeader(status int) {
	rb.status = status
}

func (rb *responseBuffer) Write(b []byte) (int, error) {
	rb.body = string(b)
	return len(b), nil
}
