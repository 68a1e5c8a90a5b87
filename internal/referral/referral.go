package referral

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Algorithm names the current derivation so codes can be regenerated and
// checked after an upgrade changes the scheme.
const Algorithm = "v2"

const codeLength = 8

// alphabet omits 0, O, 1, I and L. Codes get read aloud and retyped from
// screenshots.
const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const qrSize = 280

// Code derives a user's referral code from their ID. The same user always
// maps to the same code, so no issuance table is needed.
func Code(userID string) string {
	digest := sha256.Sum256([]byte(userID))
	code := make([]byte, codeLength)
	for i := 0; i < codeLength; i++ {
		code[i] = alphabet[int(digest[i])%len(alphabet)]
	}
	return string(code)
}

// Link builds the signup URL a code points at.
func Link(origin, code string) string {
	return strings.TrimSuffix(origin, "/") + "/signup?ref=" + code
}

// QRPNG renders the signup link as a PNG.
func QRPNG(link string) ([]byte, error) {
	return qrcode.Encode(link, qrcode.Medium, qrSize)
}

// QRDataURL renders the signup link as an inline image for direct embedding.
func QRDataURL(link string) (string, error) {
	png, err := QRPNG(link)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
