package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/tempohq/tempo/pkg/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	token, expiry, err := auth.GenerateToken("64f0c9e2a1b2c3d4e5f60718")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if !expiry.After(time.Now()) {
		t.Error("expiry should be in the future")
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "64f0c9e2a1b2c3d4e5f60718" {
		t.Errorf("got user_id %q", claims.UserID)
	}
	if claims.IssuedAt == nil {
		t.Error("token should carry an issued-at claim")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	token, _, err := auth.GenerateToken("64f0c9e2a1b2c3d4e5f60718")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	parts[2] = string(sig)

	if _, err := auth.ValidateToken(strings.Join(parts, ".")); err == nil {
		t.Error("tampered token should be rejected")
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	if _, err := auth.ValidateToken("not.a.token"); err == nil {
		t.Error("garbage should be rejected")
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("hash must not equal plaintext")
	}
	if !auth.CheckPassword(hash, "secret123") {
		t.Error("correct password should verify")
	}
	if auth.CheckPassword(hash, "wrong-password") {
		t.Error("wrong password should fail")
	}
}
