package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/delir1um/Bizzin-sub001/internal/analysis/contract"
)

const featureClassify = "classify"

// HuggingFace calls two hosted text-classification models, one for polarity
// and one for fine-grained emotion, and folds the top labels into the
// pipeline's mood vocabulary.
type HuggingFace struct {
	client  *http.Client
	config  *contract.ProviderConfig
	retrier Retrier

	mu         sync.Mutex
	lastRecord contract.UsageRecord
}

func NewHuggingFace(config *contract.ProviderConfig) *HuggingFace {
	return &HuggingFace{
		client:  &http.Client{Timeout: 30 * time.Second},
		config:  config,
		retrier: Retrier{Attempts: 3, Delay: time.Second, UnavailableDelay: 2 * time.Second},
	}
}

func (h *HuggingFace) Name() string { return "huggingface" }

func (h *HuggingFace) GetConfig() *contract.ProviderConfig { return h.config }

func (h *HuggingFace) Classify(ctx context.Context, text string) (*contract.RemoteClassification, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	start := time.Now()
	var (
		wg        sync.WaitGroup
		sentiment labelScore
		emotion   labelScore
		sentErr   error
		emoErr    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		sentiment, sentErr = h.rankedCall(ctx, h.config.SentimentModel, text)
	}()
	go func() {
		defer wg.Done()
		emotion, emoErr = h.rankedCall(ctx, h.config.EmotionModel, text)
	}()
	wg.Wait()

	if sentErr != nil {
		err := fmt.Errorf("sentiment model: %w", sentErr)
		h.captureUsage(start, false, err.Error())
		return nil, err
	}
	if emoErr != nil {
		err := fmt.Errorf("emotion model: %w", emoErr)
		h.captureUsage(start, false, err.Error())
		return nil, err
	}
	h.captureUsage(start, true, "")

	mood := mapMood(emotion, sentiment)
	return &contract.RemoteClassification{
		Mood:           mood,
		Confidence:     confidencePercent(emotion.Score),
		Energy:         contract.EnergyForMood(mood),
		SentimentLabel: sentiment.Label,
		SentimentScore: sentiment.Score,
		EmotionLabel:   emotion.Label,
		EmotionScore:   emotion.Score,
	}, nil
}

func (h *HuggingFace) HealthCheck(ctx context.Context) (*contract.HealthCheckResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	start := time.Now()
	_, err := h.post(ctx, h.config.SentimentModel, "health check")
	latency := time.Since(start)
	status := "ok"
	message := ""
	if err != nil {
		status = "error"
		message = err.Error()
	}
	return &contract.HealthCheckResult{
		Status:       status,
		Latency:      latency,
		ErrorMessage: message,
		Timestamp:    time.Now().UTC(),
	}, err
}

func (h *HuggingFace) rankedCall(ctx context.Context, model, text string) (labelScore, error) {
	var top labelScore
	err := h.retrier.Do(ctx, func() error {
		body, err := h.post(ctx, model, text)
		if err != nil {
			return err
		}
		ranked, err := decodeRanked(body)
		if err != nil {
			return err
		}
		top = topLabel(ranked)
		return nil
	})
	return top, err
}

func (h *HuggingFace) post(ctx context.Context, model, text string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return nil, err
	}
	url := strings.TrimSuffix(h.config.BaseURL, "/") + "/models/" + model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.config.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+h.config.APIToken)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncateBody(body)}
	}
	return body, nil
}

func (h *HuggingFace) captureUsage(start time.Time, success bool, message string) {
	record := contract.UsageRecord{
		Latency:      time.Since(start),
		Success:      success,
		ErrorMessage: message,
		Feature:      featureClassify,
	}
	h.mu.Lock()
	h.lastRecord = record
	h.mu.Unlock()
}

// LastUsageRecord exposes the outcome of the most recent call so the
// orchestrator can log usage without threading records through Classify.
func (h *HuggingFace) LastUsageRecord() contract.UsageRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastRecord
}

// mapMood folds the two model labels into the journal mood vocabulary. The
// emotion label dominates; polarity only breaks ties for ambiguous labels.
func mapMood(emotion, sentiment labelScore) string {
	positive := strings.Contains(strings.ToLower(sentiment.Label), "pos")
	negative := strings.Contains(strings.ToLower(sentiment.Label), "neg")
	switch strings.ToLower(emotion.Label) {
	case "joy":
		if positive {
			return "excited"
		}
		return "optimistic"
	case "sadness":
		return "sad"
	case "anger", "disgust":
		return "frustrated"
	case "fear":
		return "stressed"
	case "surprise":
		if negative {
			return "uncertain"
		}
		return "excited"
	case "neutral":
		switch {
		case positive:
			return "confident"
		case negative:
			return "uncertain"
		default:
			return "reflective"
		}
	default:
		switch {
		case positive:
			return "optimistic"
		case negative:
			return "uncertain"
		default:
			return "reflective"
		}
	}
}

func truncateBody(body []byte) string {
	const max = 256
	if len(body) > max {
		body = body[:max]
	}
	return string(body)
}
