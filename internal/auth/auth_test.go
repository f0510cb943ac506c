package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "admin123" {
		t.Fatal("hash must not equal the plaintext password")
	}
	if !VerifyPassword("admin123", hash) {
		t.Error("expected correct password to verify")
	}
	if VerifyPassword("wrong", hash) {
		t.Error("expected wrong password to fail verification")
	}
}

func TestVerifyPassword_BadHash(t *testing.T) {
	if VerifyPassword("anything", "not-a-bcrypt-hash") {
		t.Error("expected verification against malformed hash to fail")
	}
}

func TestNewToken(t *testing.T) {
	a, err := NewToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NewToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a == b {
		t.Error("expected distinct tokens")
	}
	// 32 bytes in unpadded base64url is 43 characters.
	if len(a) != 43 {
		t.Errorf("expected 43-char token, got %d: %q", len(a), a)
	}
	if strings.ContainsAny(a, "+/=") {
		t.Errorf("expected URL-safe token, got %q", a)
	}
}
