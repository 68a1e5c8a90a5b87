package analysis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/delir1um/Bizzin-sub001/internal/db"
)

// FetchEntryInput loads the text the pipeline needs from a journal entry.
func FetchEntryInput(ctx context.Context, store *db.Store, tenantID int64, entryID string) (Input, error) {
	var input Input
	err := store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT title, content, user_id FROM journal_entries WHERE id=$1 AND tenant_id=$2`,
			entryID, tenantID).Scan(&input.Title, &input.Content, &input.UserID)
	})
	return input, err
}

// StoreAnalysis writes a finished result onto its journal entry.
func StoreAnalysis(ctx context.Context, store *db.Store, tenantID int64, entryID string, result *Result) error {
	return store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		encoded, err := json.Marshal(result)
		if err != nil {
			return err
		}
		_, err = conn.Exec(ctx, `
			UPDATE journal_entries SET analysis_json=$1, updated_at=$2 WHERE id=$3 AND tenant_id=$4`,
			string(encoded), time.Now().UTC(), entryID, tenantID)
		return err
	})
}
