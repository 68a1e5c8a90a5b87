package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

type digestJobRequest struct {
	Date string `json:"date"`
}

// RunDailyDigest is the endpoint an external cron hits once a day. The
// request body is signed with the shared cron secret when one is configured.
func (a *API) RunDailyDigest(w http.ResponseWriter, r *http.Request) {
	if a.Digest == nil {
		writeError(w, http.StatusServiceUnavailable, "digest not configured")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if a.CronSecret != "" {
		signature := r.Header.Get("X-Cron-Signature")
		if signature == "" || !verifyHMAC(body, signature, a.CronSecret) {
			writeError(w, http.StatusUnauthorized, "invalid signature")
			return
		}
	}

	day := time.Now().UTC().AddDate(0, 0, -1)
	if len(body) > 0 {
		var req digestJobRequest
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if req.Date != "" {
			parsed, err := time.Parse("2006-01-02", req.Date)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid date")
				return
			}
			day = parsed
		}
	}

	tenantID := a.tenantID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	composed, err := a.Digest.Run(ctx, tenantID, day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "digest run failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"date":     day.UTC().Format("2006-01-02"),
		"composed": composed,
	})
}

func verifyHMAC(payload []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}
