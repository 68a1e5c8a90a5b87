package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/delir1um/Bizzin-sub001/internal/referral"
)

type referralResponse struct {
	UserID    string `json:"user_id"`
	Code      string `json:"code"`
	Algorithm string `json:"algorithm"`
	Link      string `json:"link"`
	QRCode    string `json:"qr_code,omitempty"`
}

func (a *API) GetReferral(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if _, err := uuid.Parse(userID); err != nil {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	code := referral.Code(userID)
	link := referral.Link(a.FrontendOrigin, code)

	response := referralResponse{
		UserID:    userID,
		Code:      code,
		Algorithm: referral.Algorithm,
		Link:      link,
	}
	if dataURL, err := referral.QRDataURL(link); err == nil {
		response.QRCode = dataURL
	}

	writeJSON(w, http.StatusOK, response)
}

func (a *API) GetReferralQR(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if _, err := uuid.Parse(userID); err != nil {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	link := referral.Link(a.FrontendOrigin, referral.Code(userID))
	png, err := referral.QRPNG(link)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render qr code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
