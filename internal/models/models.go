package models

import "time"

type UserProfile struct {
	ID          string    `json:"id"`
	TenantID    int64     `json:"tenant_id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type JournalEntry struct {
	ID           string    `json:"id"`
	TenantID     int64     `json:"tenant_id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	EntryDate    time.Time `json:"entry_date"`
	AnalysisJSON *string   `json:"analysis_json"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Goal struct {
	ID          string     `json:"id"`
	TenantID    int64      `json:"tenant_id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	TargetDate  *time.Time `json:"target_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type AnalysisProvider struct {
	ID                   int64      `json:"id"`
	TenantID             int64      `json:"tenant_id"`
	ProviderName         string     `json:"provider_name"`
	APIToken             string     `json:"api_token"`
	BaseURL              string     `json:"base_url"`
	SentimentModel       string     `json:"sentiment_model"`
	EmotionModel         string     `json:"emotion_model"`
	MaxRequestsPerMinute int        `json:"max_requests_per_minute"`
	IsActive             bool       `json:"is_active"`
	IsDefault            bool       `json:"is_default"`
	HealthStatus         string     `json:"health_status"`
	LastHealthCheck      *time.Time `json:"last_health_check"`
	CreatedAt            time.Time  `json:"created_at"`
}

type AnalysisUsageLog struct {
	ID             int64     `json:"id"`
	TenantID       int64     `json:"tenant_id"`
	ProviderID     int64     `json:"provider_id"`
	EntryID        *string   `json:"entry_id"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	Success        bool      `json:"success"`
	ErrorMessage   *string   `json:"error_message"`
	FeatureUsed    string    `json:"feature_used"`
	CreatedAt      time.Time `json:"created_at"`
}

type ProviderHealthCheck struct {
	ID             int64     `json:"id"`
	ProviderID     int64     `json:"provider_id"`
	TenantID       int64     `json:"tenant_id"`
	CheckTime      time.Time `json:"check_time"`
	Status         string    `json:"status"`
	LatencyMs      int64     `json:"latency_ms"`
	ErrorMessage   *string   `json:"error_message"`
	HTTPStatusCode *int      `json:"http_status_code"`
	CreatedAt      time.Time `json:"created_at"`
}

type MigrationRun struct {
	ID        string     `json:"id"`
	TenantID  int64      `json:"tenant_id"`
	Total     int        `json:"total"`
	Processed int        `json:"processed"`
	Failed    int        `json:"failed"`
	Status    string     `json:"status"`
	StartedAt time.Time  `json:"started_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type DailyDigest struct {
	ID         string     `json:"id"`
	TenantID   int64      `json:"tenant_id"`
	UserID     string     `json:"user_id"`
	DigestDate time.Time  `json:"digest_date"`
	Subject    string     `json:"subject"`
	BodyText   string     `json:"body_text"`
	EntryCount int        `json:"entry_count"`
	SentAt     *time.Time `json:"sent_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

type DashboardSummary struct {
	TotalEntries    int64            `json:"total_entries"`
	AnalyzedEntries int64            `json:"analyzed_entries"`
	OpenGoals       int64            `json:"open_goals"`
	EntriesThisWeek int64            `json:"entries_this_week"`
	MoodCounts      map[string]int64 `json:"mood_counts"`
	CategoryCounts  map[string]int64 `json:"category_counts"`
}
