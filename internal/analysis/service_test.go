package analysis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/delir1um/Bizzin-sub001/internal/analysis/contract"
)

type stubProviders struct {
	config         *ProviderConfig
	err            error
	panicOnDefault bool
}

func (s *stubProviders) ListProviders(ctx context.Context, tenantID int64) ([]ProviderConfig, error) {
	if s.config == nil {
		return nil, s.err
	}
	return []ProviderConfig{*s.config}, s.err
}

func (s *stubProviders) GetDefaultProvider(ctx context.Context, tenantID int64) (*ProviderConfig, error) {
	if s.panicOnDefault {
		panic("provider store unavailable")
	}
	return s.config, s.err
}

func (s *stubProviders) GetProviderByID(ctx context.Context, tenantID, providerID int64) (*ProviderConfig, error) {
	return s.config, s.err
}

func TestAnalyzeShortEntrySkipsRemote(t *testing.T) {
	// The panicking store proves the provider lookup never runs for short
	// entries; if it did, the recover path would surface the default mood
	// instead of the classified one.
	router := NewRouter(NewFactory(), &stubProviders{panicOnDefault: true}, nil)
	service := NewService(nil, router, nil, nil)

	result, err := service.Analyze(context.Background(), 1, Input{Content: "I am sad"}, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.PrimaryMood != "sad" {
		t.Fatalf("expected sad, got %q", result.PrimaryMood)
	}
	if result.Confidence != 60 {
		t.Fatalf("expected floored confidence 60, got %d", result.Confidence)
	}
	if result.Energy != contract.EnergyLow {
		t.Fatalf("expected low energy, got %q", result.Energy)
	}
	if result.AnalysisSource != contract.SourceLocal {
		t.Fatalf("expected local source, got %q", result.AnalysisSource)
	}
	if result.SuggestedTitle == "" {
		t.Fatalf("expected a suggested title for an untitled entry")
	}
}

func TestAnalyzeRecoversFromPanic(t *testing.T) {
	router := NewRouter(NewFactory(), &stubProviders{panicOnDefault: true}, nil)
	service := NewService(nil, router, nil, nil)

	content := "Everything about this quarter has been a complete blur"
	result, err := service.Analyze(context.Background(), 1, Input{Content: content}, nil)
	if err != nil {
		t.Fatalf("expected nil error after recovery, got %v", err)
	}
	if result.PrimaryMood != contract.DefaultMood || result.Confidence != 70 {
		t.Fatalf("expected default result, got %+v", result)
	}
	if result.BusinessCategory != contract.DefaultCategory {
		t.Fatalf("expected default category, got %q", result.BusinessCategory)
	}
	if result.Insights == nil || len(result.Insights) != 0 {
		t.Fatalf("expected empty insights, got %v", result.Insights)
	}
	if result.AnalysisSource != contract.SourceLocal {
		t.Fatalf("expected local source, got %q", result.AnalysisSource)
	}
}

func TestAnalyzeCachesByPrefix(t *testing.T) {
	cache, err := NewResultCache(16, 0)
	if err != nil {
		t.Fatalf("NewResultCache: %v", err)
	}
	service := NewService(cache, nil, nil, nil)

	prefix := strings.Repeat("a", 100)
	first, err := service.Analyze(context.Background(), 1, Input{Content: prefix + " excited about everything ahead"}, nil)
	if err != nil {
		t.Fatalf("first Analyze: %v", err)
	}
	if first.PrimaryMood != "excited" {
		t.Fatalf("expected excited, got %q", first.PrimaryMood)
	}

	// Same 100-character opening, opposite sentiment in the tail: the cache
	// keys collide, so the first result comes back untouched.
	second, err := service.Analyze(context.Background(), 1, Input{Content: prefix + " sad and disheartened about it"}, nil)
	if err != nil {
		t.Fatalf("second Analyze: %v", err)
	}
	if second.PrimaryMood != "excited" {
		t.Fatalf("expected cached result, got %q", second.PrimaryMood)
	}
	if cache.Len() != 1 {
		t.Fatalf("expected one cache entry, got %d", cache.Len())
	}
}

func TestAnalyzeRemoteClassification(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/models/sentiment-model", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[{"label":"POSITIVE","score":0.97},{"label":"NEGATIVE","score":0.03}]]`))
	})
	mux.HandleFunc("/models/emotion-model", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[{"label":"joy","score":0.9},{"label":"sadness","score":0.1}]]`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := &stubProviders{config: &ProviderConfig{
		ID:             7,
		ProviderName:   "huggingface",
		APIToken:       "secret",
		BaseURL:        server.URL,
		SentimentModel: "sentiment-model",
		EmotionModel:   "emotion-model",
	}}
	service := NewService(nil, NewRouter(NewFactory(), store, nil), nil, nil)

	content := "Revenue is growing and the team feels unstoppable right now"
	result, err := service.Analyze(context.Background(), 1, Input{Content: content}, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.AnalysisSource != contract.SourceRemote {
		t.Fatalf("expected remote source, got %q", result.AnalysisSource)
	}
	if result.PrimaryMood != "excited" || result.Confidence != 90 || result.Energy != contract.EnergyHigh {
		t.Fatalf("unexpected classification: %+v", result)
	}
	if len(result.Emotions) != 1 || result.Emotions[0] != "excited" {
		t.Fatalf("expected the remote mood as the only emotion, got %v", result.Emotions)
	}
	if result.BusinessCategory != "growth" {
		t.Fatalf("expected the keyword categorizer to run, got %q", result.BusinessCategory)
	}
	if len(result.Insights) != 1 || !strings.Contains(result.Insights[0], "Revenue growth") {
		t.Fatalf("unexpected insights: %v", result.Insights)
	}
	if result.SuggestedTitle == "" {
		t.Fatalf("expected a suggested title for an untitled entry")
	}
}

type stubUsageRecorder struct {
	providerIDs []int64
	entryIDs    []*string
	records     []UsageRecord
}

func (s *stubUsageRecorder) InsertUsage(ctx context.Context, tenantID, providerID int64, entryID *string, record UsageRecord) error {
	s.providerIDs = append(s.providerIDs, providerID)
	s.entryIDs = append(s.entryIDs, entryID)
	s.records = append(s.records, record)
	return nil
}

func TestAnalyzeRecordsUsageWithoutEntry(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/models/sentiment-model", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[{"label":"POSITIVE","score":0.97},{"label":"NEGATIVE","score":0.03}]]`))
	})
	mux.HandleFunc("/models/emotion-model", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[{"label":"joy","score":0.9},{"label":"sadness","score":0.1}]]`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := &stubProviders{config: &ProviderConfig{
		ID:             7,
		ProviderName:   "huggingface",
		APIToken:       "secret",
		BaseURL:        server.URL,
		SentimentModel: "sentiment-model",
		EmotionModel:   "emotion-model",
	}}
	usage := &stubUsageRecorder{}
	service := NewService(nil, NewRouter(NewFactory(), store, nil), usage, nil)

	// The inline-create path classifies text before its entry row exists, so
	// it passes no entry id. The usage row must still land, just unattributed.
	content := "Revenue is growing and the team feels unstoppable right now"
	if _, err := service.Analyze(context.Background(), 1, Input{Content: content}, nil); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(usage.records) != 1 {
		t.Fatalf("expected one usage row, got %d", len(usage.records))
	}
	if usage.providerIDs[0] != 7 {
		t.Fatalf("expected provider 7, got %d", usage.providerIDs[0])
	}
	if usage.entryIDs[0] != nil {
		t.Fatalf("expected no entry attribution, got %q", *usage.entryIDs[0])
	}
	if !usage.records[0].Success {
		t.Fatalf("expected a successful usage record, got %+v", usage.records[0])
	}
}

func TestAnalyzeCanceledContext(t *testing.T) {
	service := NewService(nil, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Analyze(ctx, 1, Input{Content: "short note"}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
