package providers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/delir1um/Bizzin-sub001/internal/analysis/contract"
)

func testConfig(baseURL string) *contract.ProviderConfig {
	return &contract.ProviderConfig{
		ID:             1,
		ProviderName:   "huggingface",
		APIToken:       "token",
		BaseURL:        baseURL,
		SentimentModel: "sentiment-model",
		EmotionModel:   "emotion-model",
	}
}

func fastClassifier(config *contract.ProviderConfig) *HuggingFace {
	h := NewHuggingFace(config)
	h.retrier = Retrier{Attempts: 3, Delay: time.Millisecond, UnavailableDelay: time.Millisecond}
	return h
}

func TestClassifyMapsLabels(t *testing.T) {
	var mu sync.Mutex
	var authHeader, requestBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		authHeader = r.Header.Get("Authorization")
		requestBody = string(body)
		mu.Unlock()
		if strings.Contains(r.URL.Path, "emotion-model") {
			_, _ = w.Write([]byte(`[[{"label":"joy","score":0.91},{"label":"sadness","score":0.04}]]`))
			return
		}
		_, _ = w.Write([]byte(`[[{"label":"POSITIVE","score":0.98},{"label":"NEGATIVE","score":0.02}]]`))
	}))
	defer server.Close()

	h := fastClassifier(testConfig(server.URL))
	result, err := h.Classify(context.Background(), "closed a new deal with a big customer today")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Mood != "excited" {
		t.Fatalf("expected excited, got %q", result.Mood)
	}
	if result.Confidence != 91 {
		t.Fatalf("expected confidence 91, got %d", result.Confidence)
	}
	if result.Energy != contract.EnergyHigh {
		t.Fatalf("expected high energy, got %q", result.Energy)
	}
	if result.SentimentLabel != "POSITIVE" || result.EmotionLabel != "joy" {
		t.Fatalf("unexpected labels: %+v", result)
	}

	mu.Lock()
	defer mu.Unlock()
	if authHeader != "Bearer token" {
		t.Fatalf("expected bearer token, got %q", authHeader)
	}
	if !strings.Contains(requestBody, `"inputs"`) {
		t.Fatalf("expected inputs payload, got %q", requestBody)
	}

	record := h.LastUsageRecord()
	if !record.Success || record.Feature != "classify" {
		t.Fatalf("unexpected usage record: %+v", record)
	}
}

func TestClassifyRetriesWhileModelLoads(t *testing.T) {
	var mu sync.Mutex
	attempts := map[string]int{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts[r.URL.Path]++
		first := attempts[r.URL.Path] == 1
		mu.Unlock()
		if first {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"model is loading"}`))
			return
		}
		if strings.Contains(r.URL.Path, "emotion-model") {
			_, _ = w.Write([]byte(`[[{"label":"sadness","score":0.8}]]`))
			return
		}
		_, _ = w.Write([]byte(`[[{"label":"NEGATIVE","score":0.9}]]`))
	}))
	defer server.Close()

	h := fastClassifier(testConfig(server.URL))
	result, err := h.Classify(context.Background(), "rough day at the office")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Mood != "sad" {
		t.Fatalf("expected sad, got %q", result.Mood)
	}

	mu.Lock()
	defer mu.Unlock()
	for path, count := range attempts {
		if count != 2 {
			t.Fatalf("expected 2 attempts for %s, got %d", path, count)
		}
	}
}

func TestClassifySurfacesStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	h := fastClassifier(testConfig(server.URL))
	_, err := h.Classify(context.Background(), "anything at all")
	if err == nil {
		t.Fatalf("expected error")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", statusErr.Code)
	}

	record := h.LastUsageRecord()
	if record.Success {
		t.Fatalf("expected failed usage record, got %+v", record)
	}
	if record.ErrorMessage == "" {
		t.Fatalf("expected error message in usage record")
	}
}

func TestHealthCheck(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[[{"label":"POSITIVE","score":0.9}]]`))
	}))
	defer healthy.Close()

	h := fastClassifier(testConfig(healthy.URL))
	result, err := h.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != "ok" {
		t.Fatalf("expected ok, got %q", result.Status)
	}
	if result.Latency <= 0 {
		t.Fatalf("expected positive latency")
	}

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	h = fastClassifier(testConfig(broken.URL))
	result, err = h.HealthCheck(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if result == nil || result.Status != "error" {
		t.Fatalf("expected error status, got %+v", result)
	}
}
