package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/delir1um/Bizzin-sub001/internal/analysis"
	"github.com/delir1um/Bizzin-sub001/internal/crypto"
	"github.com/delir1um/Bizzin-sub001/internal/models"
)

type providerRequest struct {
	ProviderName         string  `json:"provider_name"`
	APIToken             string  `json:"api_token"`
	BaseURL              *string `json:"base_url"`
	SentimentModel       *string `json:"sentiment_model"`
	EmotionModel         *string `json:"emotion_model"`
	MaxRequestsPerMinute *int    `json:"max_requests_per_minute"`
	IsActive             *bool   `json:"is_active"`
	IsDefault            *bool   `json:"is_default"`
}

type analyzeRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  string `json:"user_id"`
	EntryID string `json:"entry_id"`
}

type sentimentRequest struct {
	Text string `json:"text"`
}

func defaultProviderConfig(name string) *analysis.ProviderConfig {
	switch name {
	case "huggingface", "hf", "inference":
		return &analysis.ProviderConfig{
			ProviderName:         "huggingface",
			BaseURL:              "https://api-inference.huggingface.co",
			SentimentModel:       "distilbert-base-uncased-finetuned-sst-2-english",
			EmotionModel:         "j-hartmann/emotion-english-distilroberta-base",
			MaxRequestsPerMinute: 60,
		}
	}
	return nil
}

func emptyString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// AnalyzeSentiment serves the legacy route older clients still call. The
// response envelope is fixed: success, sentiment on 200, error on 400 and
// error plus details on 500.
func (a *API) AnalyzeSentiment(w http.ResponseWriter, r *http.Request) {
	var req sentimentRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "text is required"})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "text is required"})
		return
	}

	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	result, err := a.Analysis.Analyze(ctx, tenantID, analysis.Input{Content: req.Text}, nil)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "analysis failed",
			"details": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "sentiment": result})
}

func (a *API) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	var entryID *string
	if req.EntryID != "" {
		if _, ok := ParseUUID(req.EntryID); !ok {
			writeError(w, http.StatusBadRequest, "invalid entry_id")
			return
		}
		entryID = &req.EntryID
	}

	input := analysis.Input{Content: req.Content, Title: req.Title, UserID: req.UserID}
	result, err := a.Analysis.Analyze(ctx, tenantID, input, entryID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	if entryID != nil {
		_ = analysis.StoreAnalysis(ctx, a.Store, tenantID, *entryID, &result)
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) CreateProvider(w http.ResponseWriter, r *http.Request) {
	var req providerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.ProviderName == "" || req.APIToken == "" {
		writeError(w, http.StatusBadRequest, "provider_name and api_token are required")
		return
	}
	if a.AnalysisStore == nil || a.AnalysisStore.MasterKey == "" {
		writeError(w, http.StatusInternalServerError, "master key not configured")
		return
	}
	config := defaultProviderConfig(req.ProviderName)
	if config == nil {
		writeError(w, http.StatusBadRequest, "unsupported provider")
		return
	}
	if req.BaseURL != nil && *req.BaseURL != "" {
		config.BaseURL = *req.BaseURL
	}
	if req.SentimentModel != nil && *req.SentimentModel != "" {
		config.SentimentModel = *req.SentimentModel
	}
	if req.EmotionModel != nil && *req.EmotionModel != "" {
		config.EmotionModel = *req.EmotionModel
	}
	if req.MaxRequestsPerMinute != nil {
		config.MaxRequestsPerMinute = *req.MaxRequestsPerMinute
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	isDefault := false
	if req.IsDefault != nil {
		isDefault = *req.IsDefault
	}

	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	encrypted, err := crypto.Encrypt(a.AnalysisStore.MasterKey, req.APIToken)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encrypt api token")
		return
	}

	var provider models.AnalysisProvider
	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		if isDefault {
			_, _ = conn.Exec(ctx, `UPDATE analysis_providers SET is_default=FALSE WHERE tenant_id=$1`, tenantID)
		}
		query := `
			INSERT INTO analysis_providers (tenant_id, provider_name, api_token, base_url, sentiment_model, emotion_model, max_requests_per_minute, is_active, is_default, health_status, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,'unknown',$10)
			RETURNING id, tenant_id, provider_name, base_url, sentiment_model, emotion_model, max_requests_per_minute, is_active, is_default, health_status, last_health_check, created_at`
		return conn.QueryRow(ctx, query, tenantID, config.ProviderName, encrypted, config.BaseURL, config.SentimentModel, config.EmotionModel, config.MaxRequestsPerMinute, isActive, isDefault, time.Now().UTC()).Scan(
			&provider.ID, &provider.TenantID, &provider.ProviderName, &provider.BaseURL, &provider.SentimentModel, &provider.EmotionModel, &provider.MaxRequestsPerMinute, &provider.IsActive, &provider.IsDefault, &provider.HealthStatus, &provider.LastHealthCheck, &provider.CreatedAt,
		)
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create provider")
		return
	}

	provider.APIToken = "****"
	writeJSON(w, http.StatusCreated, provider)
	if a.HealthScheduler != nil {
		a.HealthScheduler.EnsureTenant(context.Background(), tenantID)
	}
}

func (a *API) ListProviders(w http.ResponseWriter, r *http.Request) {
	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	providers := []models.AnalysisProvider{}
	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, tenant_id, provider_name, base_url, sentiment_model, emotion_model, max_requests_per_minute, is_active, is_default, health_status, last_health_check, created_at
			FROM analysis_providers
			WHERE tenant_id=$1
			ORDER BY id DESC`, tenantID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var item models.AnalysisProvider
			if err := rows.Scan(&item.ID, &item.TenantID, &item.ProviderName, &item.BaseURL, &item.SentimentModel, &item.EmotionModel, &item.MaxRequestsPerMinute, &item.IsActive, &item.IsDefault, &item.HealthStatus, &item.LastHealthCheck, &item.CreatedAt); err != nil {
				return err
			}
			item.APIToken = "****"
			providers = append(providers, item)
		}
		return rows.Err()
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list providers")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": providers})
}

func (a *API) GetProvider(w http.ResponseWriter, r *http.Request, providerID int64) {
	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var provider models.AnalysisProvider
	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		query := `
			SELECT id, tenant_id, provider_name, base_url, sentiment_model, emotion_model, max_requests_per_minute, is_active, is_default, health_status, last_health_check, created_at
			FROM analysis_providers WHERE tenant_id=$1 AND id=$2`
		return conn.QueryRow(ctx, query, tenantID, providerID).Scan(
			&provider.ID, &provider.TenantID, &provider.ProviderName, &provider.BaseURL, &provider.SentimentModel, &provider.EmotionModel, &provider.MaxRequestsPerMinute, &provider.IsActive, &provider.IsDefault, &provider.HealthStatus, &provider.LastHealthCheck, &provider.CreatedAt,
		)
	}); err != nil {
		writeError(w, http.StatusNotFound, "provider not found")
		return
	}
	provider.APIToken = "****"
	writeJSON(w, http.StatusOK, provider)
}

func (a *API) UpdateProvider(w http.ResponseWriter, r *http.Request, providerID int64) {
	var req providerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.ProviderName != "" {
		if defaultProviderConfig(req.ProviderName) == nil {
			writeError(w, http.StatusBadRequest, "unsupported provider")
			return
		}
	}

	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var encrypted *string
	if req.APIToken != "" {
		if a.AnalysisStore == nil || a.AnalysisStore.MasterKey == "" {
			writeError(w, http.StatusInternalServerError, "master key not configured")
			return
		}
		value, err := crypto.Encrypt(a.AnalysisStore.MasterKey, req.APIToken)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to encrypt api token")
			return
		}
		encrypted = &value
	}

	var provider models.AnalysisProvider
	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		if req.IsDefault != nil && *req.IsDefault {
			_, _ = conn.Exec(ctx, `UPDATE analysis_providers SET is_default=FALSE WHERE tenant_id=$1`, tenantID)
		}
		query := `
			UPDATE analysis_providers
			SET provider_name=COALESCE($1, provider_name),
			    api_token=COALESCE($2, api_token),
			    base_url=COALESCE($3, base_url),
			    sentiment_model=COALESCE($4, sentiment_model),
			    emotion_model=COALESCE($5, emotion_model),
			    max_requests_per_minute=COALESCE($6, max_requests_per_minute),
			    is_active=COALESCE($7, is_active),
			    is_default=COALESCE($8, is_default)
			WHERE tenant_id=$9 AND id=$10
			RETURNING id, tenant_id, provider_name, base_url, sentiment_model, emotion_model, max_requests_per_minute, is_active, is_default, health_status, last_health_check, created_at`
		return conn.QueryRow(ctx, query, emptyString(req.ProviderName), encrypted, req.BaseURL, req.SentimentModel, req.EmotionModel, req.MaxRequestsPerMinute, req.IsActive, req.IsDefault, tenantID, providerID).Scan(
			&provider.ID, &provider.TenantID, &provider.ProviderName, &provider.BaseURL, &provider.SentimentModel, &provider.EmotionModel, &provider.MaxRequestsPerMinute, &provider.IsActive, &provider.IsDefault, &provider.HealthStatus, &provider.LastHealthCheck, &provider.CreatedAt,
		)
	}); err != nil {
		writeError(w, http.StatusNotFound, "provider not found")
		return
	}
	provider.APIToken = "****"
	writeJSON(w, http.StatusOK, provider)
}

func (a *API) DeleteProvider(w http.ResponseWriter, r *http.Request, providerID int64) {
	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		command, err := conn.Exec(ctx, `DELETE FROM analysis_providers WHERE tenant_id=$1 AND id=$2`, tenantID, providerID)
		if err != nil {
			return err
		}
		if command.RowsAffected() == 0 {
			return errNotFound
		}
		return nil
	}); err != nil {
		writeError(w, http.StatusNotFound, "provider not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (a *API) TestProvider(w http.ResponseWriter, r *http.Request, providerID int64) {
	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	result, err := a.Analysis.HealthCheck(ctx, tenantID, providerID)
	status := "ok"
	if err != nil {
		status = "error"
	}
	var errMsg *string
	if err != nil {
		msg := err.Error()
		errMsg = &msg
	}
	latency := time.Duration(0)
	if result != nil {
		latency = result.Latency
	}
	_ = a.AnalysisStore.InsertHealth(ctx, tenantID, providerID, status, latency, errMsg, nil)
	if result == nil {
		writeError(w, http.StatusInternalServerError, "health check failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) GetUsageStats(w http.ResponseWriter, r *http.Request) {
	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var total, succeeded, failed int64
	var avgLatencyMs float64
	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		query := `
			SELECT COUNT(*) AS total,
			       COALESCE(SUM(CASE WHEN success THEN 1 ELSE 0 END), 0) AS succeeded,
			       COALESCE(SUM(CASE WHEN success THEN 0 ELSE 1 END), 0) AS failed,
			       COALESCE(AVG(response_time_ms), 0)
			FROM analysis_usage_logs
			WHERE tenant_id=$1`
		return conn.QueryRow(ctx, query, tenantID).Scan(&total, &succeeded, &failed, &avgLatencyMs)
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load usage stats")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_requests":      total,
		"successful_requests": succeeded,
		"failed_requests":     failed,
		"average_latency_ms":  avgLatencyMs,
	})
}

func (a *API) GetUsageBreakdown(w http.ResponseWriter, r *http.Request) {
	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	providerUsage := []map[string]any{}
	dailyUsage := []map[string]any{}

	if err := a.Store.WithTenantConn(ctx, tenantID, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT p.provider_name, COUNT(*), COALESCE(SUM(CASE WHEN l.success THEN 0 ELSE 1 END), 0)
			FROM analysis_usage_logs l
			JOIN analysis_providers p ON p.id = l.provider_id
			WHERE l.tenant_id=$1
			GROUP BY p.provider_name
			ORDER BY 2 DESC`, tenantID)
		if err != nil {
			return err
		}
		for rows.Next() {
			var name string
			var requests, failures int64
			if err := rows.Scan(&name, &requests, &failures); err != nil {
				rows.Close()
				return err
			}
			providerUsage = append(providerUsage, map[string]any{"provider": name, "requests": requests, "failures": failures})
		}
		rows.Close()

		rows, err = conn.Query(ctx, `
			SELECT DATE_TRUNC('day', created_at) AS day, COUNT(*)
			FROM analysis_usage_logs
			WHERE tenant_id=$1
			GROUP BY day
			ORDER BY day DESC
			LIMIT 30`, tenantID)
		if err != nil {
			return err
		}
		for rows.Next() {
			var day time.Time
			var requests int64
			if err := rows.Scan(&day, &requests); err != nil {
				rows.Close()
				return err
			}
			dailyUsage = append(dailyUsage, map[string]any{"day": day, "requests": requests})
		}
		rows.Close()

		return nil
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load usage breakdown")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"provider_usage": providerUsage,
		"daily_usage":    dailyUsage,
	})
}
