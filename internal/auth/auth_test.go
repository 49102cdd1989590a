package auth

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Secret@123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "Secret@123" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !CheckPassword(hash, "Secret@123") {
		t.Fatalf("CheckPassword rejected correct password")
	}
	if CheckPassword(hash, "Wrong@123") {
		t.Fatalf("CheckPassword accepted wrong password")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.Issue(42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	userID, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != 42 {
		t.Fatalf("userID = %d, want 42", userID)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)

	token, err := tm.Issue(7)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := tm.Verify(token); err != ErrInvalidToken {
		t.Fatalf("Verify(expired) = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(token); err != ErrInvalidToken {
		t.Fatalf("Verify(foreign) = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := tm.Verify(tok); err != ErrInvalidToken {
			t.Fatalf("Verify(%q) = %v, want ErrInvalidToken", tok, err)
		}
	}
}
