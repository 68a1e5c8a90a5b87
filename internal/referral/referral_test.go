package referral

import (
	"bytes"
	"strings"
	"testing"
)

func TestCodeIsDeterministic(t *testing.T) {
	userID := "c7f6c5de-5a2f-4f39-9c6f-2f3b8f1c9a01"
	first := Code(userID)
	second := Code(userID)
	if first != second {
		t.Fatalf("same user produced different codes: %q vs %q", first, second)
	}
	if len(first) != codeLength {
		t.Fatalf("expected %d characters, got %q", codeLength, first)
	}
	for _, char := range first {
		if !strings.ContainsRune(alphabet, char) {
			t.Fatalf("code %q contains %q outside the alphabet", first, char)
		}
	}
}

func TestCodeDiffersAcrossUsers(t *testing.T) {
	if Code("user-one") == Code("user-two") {
		t.Fatalf("distinct users should not share a code")
	}
}

func TestLink(t *testing.T) {
	if got := Link("https://bizzin.app/", "ABCD2345"); got != "https://bizzin.app/signup?ref=ABCD2345" {
		t.Fatalf("unexpected link %q", got)
	}
	if got := Link("https://bizzin.app", "ABCD2345"); got != "https://bizzin.app/signup?ref=ABCD2345" {
		t.Fatalf("unexpected link %q", got)
	}
}

func TestQRPNG(t *testing.T) {
	png, err := QRPNG("https://bizzin.app/signup?ref=ABCD2345")
	if err != nil {
		t.Fatalf("QRPNG: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatalf("output is not a PNG")
	}
}

func TestQRDataURL(t *testing.T) {
	dataURL, err := QRDataURL("https://bizzin.app/signup?ref=ABCD2345")
	if err != nil {
		t.Fatalf("QRDataURL: %v", err)
	}
	if !strings.HasPrefix(dataURL, "data:image/png;base64,") {
		t.Fatalf("unexpected prefix in %q", dataURL[:32])
	}
	if len(dataURL) <= len("data:image/png;base64,") {
		t.Fatalf("data URL carries no payload")
	}
}
