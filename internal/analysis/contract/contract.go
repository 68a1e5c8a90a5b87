package contract

import (
	"context"
	"time"
)

// Classifier is the remote-inference side of the pipeline. Implementations
// call a hosted text-classification API and map its label taxonomy onto the
// mood taxonomy in the lexicon.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, text string) (*RemoteClassification, error)
	HealthCheck(ctx context.Context) (*HealthCheckResult, error)
	GetConfig() *ProviderConfig
}

type ProviderConfig struct {
	ID                   int64
	ProviderName         string
	APIToken             string
	BaseURL              string
	SentimentModel       string
	EmotionModel         string
	MaxRequestsPerMinute int
}

// Input is constructed per call and never persisted.
type Input struct {
	Content string
	Title   string
	UserID  string
}

const (
	SourceRemote = "remote-service"
	SourceLocal  = "local-heuristic"
)

// Result is the unit cached and returned to callers. Immutable once
// produced. Confidence is clamped to [0,100] at synthesis time, not
// validated; it is a presentation value, not a probability.
type Result struct {
	PrimaryMood      string   `json:"primary_mood"`
	Confidence       int      `json:"confidence"`
	Energy           string   `json:"energy"`
	Emotions         []string `json:"emotions"`
	BusinessCategory string   `json:"business_category"`
	Insights         []string `json:"insights"`
	SuggestedTitle   string   `json:"suggested_title,omitempty"`
	AnalysisSource   string   `json:"analysis_source"`
}

// RemoteClassification is what a Classifier produces: the top-ranked label
// of each model mapped into the local taxonomy, before category and insight
// synthesis run.
type RemoteClassification struct {
	Mood           string
	Confidence     int
	Energy         string
	SentimentLabel string
	SentimentScore float64
	EmotionLabel   string
	EmotionScore   float64
}

type HealthCheckResult struct {
	Status       string        `json:"status"`
	Latency      time.Duration `json:"latency"`
	ErrorMessage string        `json:"error_message"`
	Timestamp    time.Time     `json:"timestamp"`
}

type UsageRecord struct {
	Latency      time.Duration
	Success      bool
	ErrorMessage string
	Feature      string
}
