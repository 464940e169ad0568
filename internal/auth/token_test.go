package auth

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndParse(t *testing.T) {
	m := NewTokenManager([]byte("test-secret"), time.Hour)

	token, err := m.Generate("alice")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	username, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if username != "alice" {
		t.Fatalf("expected username alice, got %q", username)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager([]byte("secret-a"), time.Hour)
	verifier := NewTokenManager([]byte("secret-b"), time.Hour)

	token, err := issuer.Generate("alice")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := verifier.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for forged signature, got %v", err)
	}
}

func TestParseRejectsMalformedToken(t *testing.T) {
	m := NewTokenManager([]byte("test-secret"), time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := m.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := NewTokenManager([]byte("test-secret"), -time.Minute)

	token, err := m.Generate("alice")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := m.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}
