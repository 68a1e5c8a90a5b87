package analysis

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/delir1um/Bizzin-sub001/internal/crypto"
	"github.com/delir1um/Bizzin-sub001/internal/db"
	"github.com/delir1um/Bizzin-sub001/internal/models"
)

type Store struct {
	DB        *db.Store
	MasterKey string
}

func NewStore(store *db.Store, masterKey string) *Store {
	return &Store{DB: store, MasterKey: masterKey}
}

func (s *Store) ListProviders(ctx context.Context, tenantID int64) ([]ProviderConfig, error) {
	var configs []ProviderConfig
	err := s.DB.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, provider_name, api_token, base_url, sentiment_model, emotion_model, max_requests_per_minute
			FROM analysis_providers
			WHERE tenant_id=$1 AND is_active=TRUE
			ORDER BY is_default DESC, id ASC`, tenantID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var cfg ProviderConfig
			if err := rows.Scan(&cfg.ID, &cfg.ProviderName, &cfg.APIToken, &cfg.BaseURL, &cfg.SentimentModel, &cfg.EmotionModel, &cfg.MaxRequestsPerMinute); err != nil {
				return err
			}
			if decrypted, err := crypto.Decrypt(s.MasterKey, cfg.APIToken); err == nil {
				cfg.APIToken = decrypted
			}
			configs = append(configs, cfg)
		}
		return rows.Err()
	})
	return configs, err
}

func (s *Store) GetDefaultProvider(ctx context.Context, tenantID int64) (*ProviderConfig, error) {
	var cfg ProviderConfig
	err := s.DB.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		row := conn.QueryRow(ctx, `
			SELECT id, provider_name, api_token, base_url, sentiment_model, emotion_model, max_requests_per_minute
			FROM analysis_providers
			WHERE tenant_id=$1 AND is_default=TRUE AND is_active=TRUE
			LIMIT 1`, tenantID)
		if err := row.Scan(&cfg.ID, &cfg.ProviderName, &cfg.APIToken, &cfg.BaseURL, &cfg.SentimentModel, &cfg.EmotionModel, &cfg.MaxRequestsPerMinute); err != nil {
			return err
		}
		if decrypted, err := crypto.Decrypt(s.MasterKey, cfg.APIToken); err == nil {
			cfg.APIToken = decrypted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *Store) GetProviderByID(ctx context.Context, tenantID int64, providerID int64) (*ProviderConfig, error) {
	var cfg ProviderConfig
	err := s.DB.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		row := conn.QueryRow(ctx, `
			SELECT id, provider_name, api_token, base_url, sentiment_model, emotion_model, max_requests_per_minute
			FROM analysis_providers
			WHERE tenant_id=$1 AND id=$2`, tenantID, providerID)
		if err := row.Scan(&cfg.ID, &cfg.ProviderName, &cfg.APIToken, &cfg.BaseURL, &cfg.SentimentModel, &cfg.EmotionModel, &cfg.MaxRequestsPerMinute); err != nil {
			return err
		}
		if decrypted, err := crypto.Decrypt(s.MasterKey, cfg.APIToken); err == nil {
			cfg.APIToken = decrypted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *Store) InsertUsage(ctx context.Context, tenantID, providerID int64, entryID *string, record UsageRecord) error {
	return s.DB.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO analysis_usage_logs (tenant_id, provider_id, entry_id, response_time_ms, success, error_message, feature_used, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			tenantID, providerID, entryID, record.Latency.Milliseconds(), record.Success, record.ErrorMessage, record.Feature, time.Now().UTC())
		return err
	})
}

func (s *Store) InsertHealth(ctx context.Context, tenantID, providerID int64, status string, latency time.Duration, errorMessage *string, httpStatus *int) error {
	return s.DB.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO provider_health_checks (provider_id, tenant_id, check_time, status, latency_ms, error_message, http_status_code, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			providerID, tenantID, time.Now().UTC(), status, latency.Milliseconds(), errorMessage, httpStatus, time.Now().UTC())
		if err != nil {
			return err
		}
		_, err = conn.Exec(ctx, `
			UPDATE analysis_providers
			SET health_status=$1, last_health_check=$2
			WHERE id=$3 AND tenant_id=$4`, status, time.Now().UTC(), providerID, tenantID)
		return err
	})
}

func (s *Store) RecentHealthFailures(ctx context.Context, tenantID, providerID int64) (int, error) {
	failures := 0
	err := s.DB.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT status FROM provider_health_checks
			WHERE provider_id=$1 AND tenant_id=$2
			ORDER BY check_time DESC
			LIMIT 3`, providerID, tenantID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var status string
			if err := rows.Scan(&status); err != nil {
				return err
			}
			if status != "ok" {
				failures++
			}
		}
		return rows.Err()
	})
	return failures, err
}

func (s *Store) ListProviderIDs(ctx context.Context, tenantID int64) ([]int64, error) {
	var ids []int64
	err := s.DB.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `SELECT id FROM analysis_providers WHERE tenant_id=$1 AND is_active=TRUE`, tenantID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return rows.Err()
	})
	return ids, err
}

func (s *Store) SetProviderHealth(ctx context.Context, tenantID, providerID int64, status string) error {
	return s.DB.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx, `
			UPDATE analysis_providers
			SET health_status=$1, last_health_check=$2
			WHERE id=$3 AND tenant_id=$4`, status, time.Now().UTC(), providerID, tenantID)
		return err
	})
}

// RecordMigrationProgress bumps the counters on a re-analysis run and marks
// the run complete once every queued entry is accounted for.
func (s *Store) RecordMigrationProgress(ctx context.Context, tenantID int64, runID string, processedDelta, failedDelta int) (*models.MigrationRun, error) {
	var run models.MigrationRun
	err := s.DB.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		row := conn.QueryRow(ctx, `
			UPDATE migration_runs
			SET processed=processed+$1, failed=failed+$2, updated_at=$3
			WHERE id=$4 AND tenant_id=$5
			RETURNING id, tenant_id, total, processed, failed, status, started_at, updated_at`,
			processedDelta, failedDelta, time.Now().UTC(), runID, tenantID)
		if err := row.Scan(&run.ID, &run.TenantID, &run.Total, &run.Processed, &run.Failed, &run.Status, &run.StartedAt, &run.UpdatedAt); err != nil {
			return err
		}
		if run.Status == "running" && run.Processed+run.Failed >= run.Total {
			run.Status = "complete"
			_, err := conn.Exec(ctx, `
				UPDATE migration_runs SET status='complete', updated_at=$1 WHERE id=$2 AND tenant_id=$3`,
				time.Now().UTC(), runID, tenantID)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}
