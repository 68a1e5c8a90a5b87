package digest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMailerSend(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	mailer := NewMailer(server.URL, "api-key", "digest@bizzin.app")
	err := mailer.Send(context.Background(), "anika@example.com", "Your journal digest for Mar 14", "Hi Anika,")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotAuth != "Bearer api-key" {
		t.Fatalf("unexpected authorization header %q", gotAuth)
	}
	if gotPayload["from"] != "digest@bizzin.app" || gotPayload["to"] != "anika@example.com" {
		t.Fatalf("unexpected addressing: %+v", gotPayload)
	}
	if gotPayload["subject"] != "Your journal digest for Mar 14" || gotPayload["text"] != "Hi Anika," {
		t.Fatalf("unexpected content: %+v", gotPayload)
	}
}

func TestMailerSendSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	mailer := NewMailer(server.URL, "", "digest@bizzin.app")
	err := mailer.Send(context.Background(), "anika@example.com", "subject", "body")
	if err == nil {
		t.Fatalf("expected error from non-2xx response")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestMailerEnabled(t *testing.T) {
	var missing *Mailer
	if missing.Enabled() {
		t.Fatalf("nil mailer should be disabled")
	}
	if NewMailer("", "", "").Enabled() {
		t.Fatalf("mailer without a base URL should be disabled")
	}
	if !NewMailer("https://mail.example.com/send", "", "").Enabled() {
		t.Fatalf("configured mailer should be enabled")
	}
}
