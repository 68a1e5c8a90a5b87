package analysis

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/delir1um/Bizzin-sub001/internal/analysis/contract"
)

// Entries shorter than this carry too little signal for the hosted models
// and go straight to the keyword classifier.
const minRemoteLength = 30

// Service orchestrates a full analysis: cache lookup, remote classification
// when available, local fallback, insight and title synthesis. Analyze never
// returns an error to callers that supply a live context; any internal
// failure degrades to the local path or to the default result.
type Service struct {
	Cache   *ResultCache
	Router  *Router
	Store   UsageRecorder
	Metrics *Metrics

	mu  sync.Mutex
	rng *rand.Rand
}

// UsageRecorder receives one row per remote classification attempt. A nil
// entryID means the caller has no persisted entry for the text yet.
type UsageRecorder interface {
	InsertUsage(ctx context.Context, tenantID, providerID int64, entryID *string, record UsageRecord) error
}

type usageAware interface {
	LastUsageRecord() UsageRecord
}

func NewService(cache *ResultCache, router *Router, store UsageRecorder, metrics *Metrics) *Service {
	return &Service{
		Cache:   cache,
		Router:  router,
		Store:   store,
		Metrics: metrics,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithSeed pins the insight selection order. Tests use it.
func (s *Service) WithSeed(seed int64) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng = rand.New(rand.NewSource(seed))
	return s
}

func (s *Service) Analyze(ctx context.Context, tenantID int64, input Input, entryID *string) (result Result, err error) {
	start := time.Now()
	defer func() {
		if recovered := recover(); recovered != nil {
			slog.Error("analysis panicked, serving default result", "panic", recovered)
			result = defaultResult()
			err = nil
		}
		if err == nil {
			s.Metrics.ObserveAnalysis(result.AnalysisSource, time.Since(start))
		}
	}()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, ctxErr
	}

	key := CacheKey(input.Title, input.Content)
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(key); ok {
			s.Metrics.CacheHit()
			return cached, nil
		}
		s.Metrics.CacheMiss()
	}

	if remote := s.tryRemote(ctx, tenantID, input, entryID); remote != nil {
		s.storeResult(key, *remote)
		return *remote, nil
	}

	local := ClassifyLocal(input.Content)
	result = Result{
		PrimaryMood:      local.PrimaryMood,
		Confidence:       local.Confidence,
		Energy:           local.Energy,
		Emotions:         local.Emotions,
		BusinessCategory: local.Category,
		Insights:         s.synthesize(local.PrimaryMood, local.Category, input.Content, local.Confidence),
		AnalysisSource:   contract.SourceLocal,
	}
	if input.Title == "" {
		result.SuggestedTitle = GenerateTitle(input.Content, local.Category, local.PrimaryMood, local.Energy)
	}
	s.storeResult(key, result)
	return result, nil
}

func (s *Service) tryRemote(ctx context.Context, tenantID int64, input Input, entryID *string) *Result {
	if s.Router == nil || utf8.RuneCountInString(input.Content) < minRemoteLength {
		return nil
	}
	classifier, err := s.Router.GetDefaultClassifier(ctx, tenantID)
	if err != nil {
		return nil
	}

	start := time.Now()
	remote, err := classifier.Classify(ctx, input.Content)
	record := usageFromClassifier(classifier, start, err)
	if s.Store != nil {
		providerID := int64(0)
		if config := classifier.GetConfig(); config != nil {
			providerID = config.ID
		}
		_ = s.Store.InsertUsage(ctx, tenantID, providerID, entryID, record)
	}
	if err != nil || remote == nil {
		s.Metrics.RemoteFailure()
		slog.Warn("remote classification failed, using local classifier", "error", err)
		return nil
	}

	category := CategorizeText(input.Content)
	result := Result{
		PrimaryMood:      remote.Mood,
		Confidence:       remote.Confidence,
		Energy:           remote.Energy,
		Emotions:         []string{remote.Mood},
		BusinessCategory: category,
		Insights:         s.synthesize(remote.Mood, category, input.Content, remote.Confidence),
		AnalysisSource:   contract.SourceRemote,
	}
	if input.Title == "" {
		result.SuggestedTitle = GenerateTitle(input.Content, category, remote.Mood, remote.Energy)
	}
	return &result
}

func (s *Service) HealthCheck(ctx context.Context, tenantID, providerID int64) (*HealthCheckResult, error) {
	classifier, err := s.Router.GetClassifier(ctx, tenantID, providerID)
	if err != nil {
		return nil, err
	}
	result, err := classifier.HealthCheck(ctx)
	if err != nil {
		return result, err
	}
	if result == nil {
		return nil, errors.New("no health result")
	}
	return result, nil
}

func (s *Service) synthesize(mood, category, text string, confidence int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SynthesizeInsights(mood, category, text, confidence, s.rng)
}

func (s *Service) storeResult(key string, result Result) {
	if s.Cache != nil {
		s.Cache.Put(key, result)
	}
}

func usageFromClassifier(classifier Classifier, start time.Time, err error) UsageRecord {
	if aware, ok := classifier.(usageAware); ok {
		record := aware.LastUsageRecord()
		if err != nil {
			record.Success = false
			record.ErrorMessage = err.Error()
		}
		if record.Latency == 0 {
			record.Latency = time.Since(start)
		}
		return record
	}
	return UsageRecord{
		Latency:      time.Since(start),
		Success:      err == nil,
		ErrorMessage: errorString(err),
		Feature:      "classify",
	}
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func defaultResult() Result {
	return Result{
		PrimaryMood:      contract.DefaultMood,
		Confidence:       70,
		Energy:           contract.EnergyLow,
		Emotions:         []string{contract.DefaultMood},
		BusinessCategory: contract.DefaultCategory,
		Insights:         []string{},
		AnalysisSource:   contract.SourceLocal,
	}
}
