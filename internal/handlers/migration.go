package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/delir1um/Bizzin-sub001/internal/analysis"
	"github.com/delir1um/Bizzin-sub001/internal/models"
)

type migrationRequest struct {
	UserID string `json:"user_id"`
}

// StartMigration queues a re-analysis pass over entries that have no stored
// analysis. Progress lands on the websocket as migration.progress events.
func (a *API) StartMigration(w http.ResponseWriter, r *http.Request) {
	var req migrationRequest
	if err := readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	entryIDs := []string{}
	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id FROM journal_entries
			WHERE tenant_id=$1 AND analysis_json IS NULL AND ($2='' OR user_id::text=$2)
			ORDER BY created_at ASC`, tenantID, req.UserID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return err
			}
			entryIDs = append(entryIDs, id)
		}
		return rows.Err()
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to find entries")
		return
	}

	status := "running"
	if len(entryIDs) == 0 {
		status = "complete"
	}
	run := models.MigrationRun{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Total:     len(entryIDs),
		Status:    status,
		StartedAt: time.Now().UTC(),
	}
	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO migration_runs (id, tenant_id, total, processed, failed, status, started_at)
			VALUES ($1,$2,$3,0,0,$4,$5)`,
			run.ID, tenantID, run.Total, run.Status, run.StartedAt)
		return err
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create run")
		return
	}
	if len(entryIDs) == 0 {
		writeJSON(w, http.StatusOK, run)
		return
	}

	if a.Queue != nil {
		if a.WorkerScheduler != nil {
			a.WorkerScheduler.EnsureTenant(context.Background(), tenantID)
		}
		for _, entryID := range entryIDs {
			_ = a.Queue.Enqueue(ctx, analysis.QueueJob{TenantID: tenantID, EntryID: entryID, RunID: run.ID, CreatedAt: time.Now().UTC()})
		}
		writeJSON(w, http.StatusAccepted, run)
		return
	}

	// No queue configured: run the pass inline before answering.
	for _, entryID := range entryIDs {
		processed, failed := 1, 0
		input, err := analysis.FetchEntryInput(r.Context(), a.Store, tenantID, entryID)
		if err != nil {
			processed, failed = 0, 1
		} else {
			result, err := a.Analysis.Analyze(r.Context(), tenantID, input, &entryID)
			if err != nil || analysis.StoreAnalysis(r.Context(), a.Store, tenantID, entryID, &result) != nil {
				processed, failed = 0, 1
			}
		}
		if updated, err := a.AnalysisStore.RecordMigrationProgress(r.Context(), tenantID, run.ID, processed, failed); err == nil && updated != nil {
			run = *updated
		}
	}
	writeJSON(w, http.StatusOK, run)
}

func (a *API) GetMigrationRun(w http.ResponseWriter, r *http.Request, runID string) {
	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var run models.MigrationRun
	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT id, tenant_id, total, processed, failed, status, started_at, updated_at
			FROM migration_runs WHERE tenant_id=$1 AND id=$2`, tenantID, runID).Scan(
			&run.ID, &run.TenantID, &run.Total, &run.Processed, &run.Failed, &run.Status, &run.StartedAt, &run.UpdatedAt,
		)
	}); err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (a *API) ListMigrationRuns(w http.ResponseWriter, r *http.Request) {
	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	runs := []models.MigrationRun{}
	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, tenant_id, total, processed, failed, status, started_at, updated_at
			FROM migration_runs
			WHERE tenant_id=$1
			ORDER BY started_at DESC
			LIMIT 20`, tenantID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var run models.MigrationRun
			if err := rows.Scan(&run.ID, &run.TenantID, &run.Total, &run.Processed, &run.Failed, &run.Status, &run.StartedAt, &run.UpdatedAt); err != nil {
				return err
			}
			runs = append(runs, run)
		}
		return rows.Err()
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": runs})
}
