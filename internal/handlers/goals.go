package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/delir1um/Bizzin-sub001/internal/models"
)

const goalColumns = `id, tenant_id, user_id, title, description, status, progress, target_date, created_at, updated_at`

type goalRequest struct {
	UserID      string  `json:"user_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Progress    *int    `json:"progress"`
	TargetDate  *string `json:"target_date"`
}

func validGoalStatus(status string) bool {
	switch status {
	case "active", "achieved", "paused":
		return true
	}
	return false
}

func scanGoal(row interface{ Scan(dest ...any) error }, goal *models.Goal) error {
	return row.Scan(&goal.ID, &goal.TenantID, &goal.UserID, &goal.Title, &goal.Description, &goal.Status, &goal.Progress, &goal.TargetDate, &goal.CreatedAt, &goal.UpdatedAt)
}

func (a *API) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Title == nil || *req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if _, err := uuid.Parse(req.UserID); err != nil {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	status := "active"
	if req.Status != nil {
		if !validGoalStatus(*req.Status) {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		status = *req.Status
	}
	progress := 0
	if req.Progress != nil {
		progress = clampProgress(*req.Progress)
	}
	var targetDate *time.Time
	if req.TargetDate != nil {
		parsed, err := time.Parse(entryDateFormat, *req.TargetDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "target_date must be YYYY-MM-DD")
			return
		}
		targetDate = &parsed
	}

	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var goal models.Goal
	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		query := `
			INSERT INTO goals (id, tenant_id, user_id, title, description, status, progress, target_date, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
			RETURNING ` + goalColumns
		return scanGoal(conn.QueryRow(ctx, query, uuid.NewString(), tenantID, req.UserID, *req.Title, req.Description, status, progress, targetDate, time.Now().UTC()), &goal)
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create goal")
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (a *API) ListGoals(w http.ResponseWriter, r *http.Request) {
	tenantID := a.tenantID(r)
	page, limit := parsePagination(r)
	userID := r.URL.Query().Get("user_id")
	status := r.URL.Query().Get("status")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	goals := []models.Goal{}
	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		query := `
			SELECT ` + goalColumns + `
			FROM goals
			WHERE tenant_id=$1 AND ($2='' OR user_id::text=$2) AND ($3='' OR status=$3)
			ORDER BY created_at DESC
			LIMIT $4 OFFSET $5`
		rows, err := conn.Query(ctx, query, tenantID, userID, status, limit, (page-1)*limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var goal models.Goal
			if err := scanGoal(rows, &goal); err != nil {
				return err
			}
			goals = append(goals, goal)
		}
		return rows.Err()
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list goals")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": goals, "page": page, "limit": limit})
}

func (a *API) GetGoal(w http.ResponseWriter, r *http.Request, goalID string) {
	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var goal models.Goal
	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		query := `SELECT ` + goalColumns + ` FROM goals WHERE tenant_id=$1 AND id=$2`
		return scanGoal(conn.QueryRow(ctx, query, tenantID, goalID), &goal)
	}); err != nil {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (a *API) UpdateGoal(w http.ResponseWriter, r *http.Request, goalID string) {
	var req goalRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Status != nil && !validGoalStatus(*req.Status) {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	var progress *int
	if req.Progress != nil {
		clamped := clampProgress(*req.Progress)
		progress = &clamped
	}
	var targetDate *time.Time
	if req.TargetDate != nil {
		parsed, err := time.Parse(entryDateFormat, *req.TargetDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "target_date must be YYYY-MM-DD")
			return
		}
		targetDate = &parsed
	}

	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var goal models.Goal
	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		query := `
			UPDATE goals
			SET title=COALESCE($1, title),
			    description=COALESCE($2, description),
			    status=COALESCE($3, status),
			    progress=COALESCE($4, progress),
			    target_date=COALESCE($5, target_date),
			    updated_at=$6
			WHERE tenant_id=$7 AND id=$8
			RETURNING ` + goalColumns
		return scanGoal(conn.QueryRow(ctx, query, req.Title, req.Description, req.Status, progress, targetDate, time.Now().UTC(), tenantID, goalID), &goal)
	}); err != nil {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (a *API) DeleteGoal(w http.ResponseWriter, r *http.Request, goalID string) {
	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		command, err := conn.Exec(ctx, `DELETE FROM goals WHERE tenant_id=$1 AND id=$2`, tenantID, goalID)
		if err != nil {
			return err
		}
		if command.RowsAffected() == 0 {
			return errNotFound
		}
		return nil
	}); err != nil {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func clampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
