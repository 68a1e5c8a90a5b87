package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/delir1um/Bizzin-sub001/internal/analysis"
	"github.com/delir1um/Bizzin-sub001/internal/analysis/contract"
)

func newLocalOnlyAPI() *API {
	return &API{Analysis: analysis.NewService(nil, nil, nil, nil)}
}

func TestAnalyzeSentimentRejectsMissingText(t *testing.T) {
	api := newLocalOnlyAPI()
	bodies := []string{"", "not json", "{}", `{"text":""}`, `{"txt":"hello"}`}
	for _, body := range bodies {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze-sentiment", strings.NewReader(body))
		rec := httptest.NewRecorder()
		api.AnalyzeSentiment(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
		var resp struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("body %q: decoding response: %v", body, err)
		}
		if resp.Success || resp.Error != "text is required" {
			t.Fatalf("body %q: unexpected envelope %+v", body, resp)
		}
	}
}

func TestAnalyzeSentimentEnvelope(t *testing.T) {
	api := newLocalOnlyAPI()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze-sentiment", strings.NewReader(`{"text":"I am sad"}`))
	rec := httptest.NewRecorder()
	api.AnalyzeSentiment(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type %q", got)
	}
	var resp struct {
		Success   bool            `json:"success"`
		Sentiment contract.Result `json:"sentiment"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
	if resp.Sentiment.PrimaryMood != "sad" || resp.Sentiment.Confidence != 60 {
		t.Fatalf("unexpected classification %+v", resp.Sentiment)
	}
	if resp.Sentiment.AnalysisSource != contract.SourceLocal {
		t.Fatalf("expected local source, got %q", resp.Sentiment.AnalysisSource)
	}
}

func TestAnalyzeTextValidation(t *testing.T) {
	api := newLocalOnlyAPI()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", strings.NewReader(`{"content":""}`))
	rec := httptest.NewRecorder()
	api.AnalyzeText(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty content: expected 400, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/analysis", strings.NewReader(`{"content":"a note","entry_id":"not-a-uuid"}`))
	rec = httptest.NewRecorder()
	api.AnalyzeText(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad entry_id: expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid entry_id") {
		t.Fatalf("unexpected error body %s", rec.Body.String())
	}
}

func TestAnalyzeTextReturnsResult(t *testing.T) {
	api := newLocalOnlyAPI()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", strings.NewReader(`{"content":"I am sad"}`))
	rec := httptest.NewRecorder()
	api.AnalyzeText(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result contract.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.PrimaryMood != "sad" || result.AnalysisSource != contract.SourceLocal {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.SuggestedTitle == "" {
		t.Fatalf("expected a suggested title for an untitled entry")
	}
}
