package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/delir1um/Bizzin-sub001/internal/models"
)

func (a *API) GetLatestDigest(w http.ResponseWriter, r *http.Request) {
	tenantID := a.tenantID(r)
	userID := r.URL.Query().Get("user_id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var digest models.DailyDigest
	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		query := `
			SELECT id, tenant_id, user_id, digest_date, subject, body_text, entry_count, sent_at, created_at
			FROM daily_digests
			WHERE tenant_id=$1 AND ($2='' OR user_id::text=$2)
			ORDER BY digest_date DESC, created_at DESC
			LIMIT 1`
		return conn.QueryRow(ctx, query, tenantID, userID).Scan(
			&digest.ID, &digest.TenantID, &digest.UserID, &digest.DigestDate, &digest.Subject, &digest.BodyText, &digest.EntryCount, &digest.SentAt, &digest.CreatedAt,
		)
	}); err != nil {
		writeError(w, http.StatusNotFound, "no digest available")
		return
	}

	writeJSON(w, http.StatusOK, digest)
}
