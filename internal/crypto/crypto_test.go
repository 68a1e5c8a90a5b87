package crypto

import (
	"testing"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintext := "hf_abc123_inference_token"
	encrypted, err := Encrypt(testKey, plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if encrypted == plaintext {
		t.Fatalf("ciphertext equals plaintext")
	}

	decrypted, err := Decrypt(testKey, encrypted)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if decrypted != plaintext {
		t.Fatalf("round trip mismatch: %q", decrypted)
	}
}

func TestEncryptProducesFreshNonce(t *testing.T) {
	first, err := Encrypt(testKey, "same input")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	second, err := Encrypt(testKey, "same input")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if first == second {
		t.Fatalf("two encryptions of the same input should differ")
	}
}

func TestDecryptRejectsWrongKey(t *testing.T) {
	encrypted, err := Encrypt(testKey, "secret token")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := Decrypt("fedcba9876543210fedcba9876543210", encrypted); err == nil {
		t.Fatalf("expected decryption with the wrong key to fail")
	}
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	encrypted, err := Encrypt(testKey, "secret token")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	flip := byte('A')
	if encrypted[0] == 'A' {
		flip = 'B'
	}
	tampered := string(flip) + encrypted[1:]
	if _, err := Decrypt(testKey, tampered); err == nil {
		t.Fatalf("expected tampered ciphertext to fail")
	}
}

func TestShortMasterKeyRejected(t *testing.T) {
	if _, err := Encrypt("too short", "value"); err == nil {
		t.Fatalf("expected short key to be rejected")
	}
	if _, err := Decrypt("too short", "anything"); err == nil {
		t.Fatalf("expected short key to be rejected")
	}
}
