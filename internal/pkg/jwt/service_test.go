package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	s := NewHMACService("test-secret", time.Hour)

	tok, err := s.GenerateAccessToken("user-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	claims, err := s.ValidateToken(tok)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("user id = %q", claims.UserID)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Fatalf("token type = %q", claims.TokenType)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	s := NewHMACService("test-secret", time.Hour)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tok, err := s.GenerateAccessToken("user-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	s.now = time.Now
	if _, err := s.ValidateToken(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	tok, err := NewHMACService("secret-a", time.Hour).GenerateAccessToken("user-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err := NewHMACService("secret-b", time.Hour).ValidateToken(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	s := NewHMACService("test-secret", time.Hour)
	if _, err := s.ValidateToken("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestGenerateAccessToken_Misconfigured(t *testing.T) {
	if _, err := NewHMACService("", time.Hour).GenerateAccessToken("u"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for empty secret, got %v", err)
	}
	if _, err := NewHMACService("s", 0).GenerateAccessToken("u"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for zero expiry, got %v", err)
	}
}
