package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/delir1um/Bizzin-sub001/internal/analysis"
	"github.com/delir1um/Bizzin-sub001/internal/models"
)

var errNotFound = errors.New("not found")

const entryDateFormat = "2006-01-02"

const entryColumns = `id, tenant_id, user_id, title, content, entry_date, analysis_json, created_at, updated_at`

type entryRequest struct {
	UserID    string  `json:"user_id"`
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	EntryDate *string `json:"entry_date"`
}

func scanEntry(row interface{ Scan(dest ...any) error }, entry *models.JournalEntry) error {
	return row.Scan(&entry.ID, &entry.TenantID, &entry.UserID, &entry.Title, &entry.Content, &entry.EntryDate, &entry.AnalysisJSON, &entry.CreatedAt, &entry.UpdatedAt)
}

func (a *API) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Content == nil || *req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	if _, err := uuid.Parse(req.UserID); err != nil {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	entryDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.EntryDate != nil {
		parsed, err := time.Parse(entryDateFormat, *req.EntryDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "entry_date must be YYYY-MM-DD")
			return
		}
		entryDate = parsed
	}
	title := ""
	if req.Title != nil {
		title = *req.Title
	}

	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	entryID := uuid.NewString()
	input := analysis.Input{Content: *req.Content, Title: title, UserID: req.UserID}
	// The entry row does not exist yet, so the usage log for this inline
	// analysis carries no entry id rather than a dangling one.
	result, err := a.Analysis.Analyze(ctx, tenantID, input, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "analysis unavailable")
		return
	}
	if title == "" {
		title = result.SuggestedTitle
		if title == "" {
			title = "Journal Entry"
		}
	}
	encoded, err := json.Marshal(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode analysis")
		return
	}
	analysisJSON := string(encoded)

	var entry models.JournalEntry
	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		query := `
			INSERT INTO journal_entries (id, tenant_id, user_id, title, content, entry_date, analysis_json, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)
			RETURNING ` + entryColumns
		return scanEntry(conn.QueryRow(ctx, query, entryID, tenantID, req.UserID, title, *req.Content, entryDate, analysisJSON, time.Now().UTC()), &entry)
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create entry")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
	if a.Hub != nil {
		a.Hub.Broadcast(tenantID, map[string]any{
			"type":     "entry.created",
			"entry_id": entry.ID,
			"mood":     result.PrimaryMood,
			"category": result.BusinessCategory,
		})
	}
}

func (a *API) ListEntries(w http.ResponseWriter, r *http.Request) {
	tenantID := a.tenantID(r)
	page, limit := parsePagination(r)
	userID := r.URL.Query().Get("user_id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	entries := []models.JournalEntry{}
	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		query := `
			SELECT ` + entryColumns + `
			FROM journal_entries
			WHERE tenant_id=$1 AND ($2='' OR user_id::text=$2)
			ORDER BY entry_date DESC, created_at DESC
			LIMIT $3 OFFSET $4`
		rows, err := conn.Query(ctx, query, tenantID, userID, limit, (page-1)*limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var entry models.JournalEntry
			if err := scanEntry(rows, &entry); err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return rows.Err()
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list entries")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": entries, "page": page, "limit": limit})
}

func (a *API) GetEntry(w http.ResponseWriter, r *http.Request, entryID string) {
	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var entry models.JournalEntry
	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id=$1 AND id=$2`
		return scanEntry(conn.QueryRow(ctx, query, tenantID, entryID), &entry)
	}); err != nil {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (a *API) UpdateEntry(w http.ResponseWriter, r *http.Request, entryID string) {
	var req entryRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	var entryDate *time.Time
	if req.EntryDate != nil {
		parsed, err := time.Parse(entryDateFormat, *req.EntryDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "entry_date must be YYYY-MM-DD")
			return
		}
		entryDate = &parsed
	}

	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	var entry models.JournalEntry
	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		query := `
			UPDATE journal_entries
			SET title=COALESCE($1, title),
			    content=COALESCE($2, content),
			    entry_date=COALESCE($3, entry_date),
			    updated_at=$4
			WHERE tenant_id=$5 AND id=$6
			RETURNING ` + entryColumns
		return scanEntry(conn.QueryRow(ctx, query, req.Title, req.Content, entryDate, time.Now().UTC(), tenantID, entryID), &entry)
	}); err != nil {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}

	// Edited content invalidates the stored analysis, so it runs again here.
	if req.Content != nil {
		input := analysis.Input{Content: entry.Content, Title: entry.Title, UserID: entry.UserID}
		result, err := a.Analysis.Analyze(ctx, tenantID, input, &entry.ID)
		if err == nil {
			if err := analysis.StoreAnalysis(ctx, a.Store, tenantID, entry.ID, &result); err == nil {
				encoded, _ := json.Marshal(result)
				analysisJSON := string(encoded)
				entry.AnalysisJSON = &analysisJSON
				if a.Hub != nil {
					a.Hub.Broadcast(tenantID, map[string]any{
						"type":     "entry.analysis",
						"entry_id": entry.ID,
					})
				}
			}
		}
	}

	writeJSON(w, http.StatusOK, entry)
}

func (a *API) DeleteEntry(w http.ResponseWriter, r *http.Request, entryID string) {
	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		command, err := conn.Exec(ctx, `DELETE FROM journal_entries WHERE tenant_id=$1 AND id=$2`, tenantID, entryID)
		if err != nil {
			return err
		}
		if command.RowsAffected() == 0 {
			return errNotFound
		}
		return nil
	}); err != nil {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
