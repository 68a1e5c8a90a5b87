package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/delir1um/Bizzin-sub001/internal/analysis/contract"
)

func (a *API) ExportEntries(w http.ResponseWriter, r *http.Request) {
	tenantID := a.tenantID(r)
	userID := r.URL.Query().Get("user_id")
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, user_id, title, content, entry_date, analysis_json, created_at
			FROM journal_entries
			WHERE tenant_id=$1 AND ($2='' OR user_id::text=$2)
			ORDER BY entry_date ASC, created_at ASC`, tenantID, userID)
		if err != nil {
			return err
		}
		defer rows.Close()

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="entries.csv"`)

		writer := csv.NewWriter(w)
		if err := writer.Write([]string{
			"id", "user_id", "entry_date", "title", "content",
			"mood", "confidence", "energy", "category", "source", "created_at",
		}); err != nil {
			return err
		}

		for rows.Next() {
			var (
				id, entryUserID, title, content string
				entryDate, createdAt            time.Time
				analysisJSON                    *string
			)
			if err := rows.Scan(&id, &entryUserID, &title, &content, &entryDate, &analysisJSON, &createdAt); err != nil {
				return err
			}

			var mood, confidence, energy, category, source string
			if analysisJSON != nil {
				var result contract.Result
				if err := json.Unmarshal([]byte(*analysisJSON), &result); err == nil {
					mood = result.PrimaryMood
					confidence = strconv.Itoa(result.Confidence)
					energy = result.Energy
					category = result.BusinessCategory
					source = result.AnalysisSource
				}
			}

			if err := writer.Write([]string{
				id, entryUserID, entryDate.UTC().Format("2006-01-02"), title, content,
				mood, confidence, energy, category, source,
				createdAt.UTC().Format(time.RFC3339),
			}); err != nil {
				return err
			}
		}
		if err := rows.Err(); err != nil {
			return err
		}

		writer.Flush()
		return writer.Error()
	}); err != nil {
		// Headers may already be written; this only helps when the query
		// itself failed before any CSV went out.
		writeError(w, http.StatusInternalServerError, "failed to export entries")
		return
	}
}
