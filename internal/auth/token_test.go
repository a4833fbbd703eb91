package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenManagerIssueAndParse(t *testing.T) {
	m := NewTokenManager("test-secret", time.Minute, time.Hour)

	access, err := m.IssueAccessToken("alice")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	sub, err := m.ParseToken(access)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if sub != "alice" {
		t.Fatalf("expected sub=alice, got %s", sub)
	}

	refresh, expireAt, err := m.IssueRefreshToken("alice")
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}
	if refresh == access {
		t.Fatal("refresh token must differ from access token")
	}
	if !expireAt.After(time.Now()) {
		t.Fatal("refresh token expiry must be in the future")
	}
}

func TestTokenManagerExpired(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute, time.Hour)
	token, err := m.IssueAccessToken("alice")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenManagerBadSignature(t *testing.T) {
	a := NewTokenManager("secret-a", time.Minute, time.Hour)
	b := NewTokenManager("secret-b", time.Minute, time.Hour)

	token, err := a.IssueAccessToken("alice")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if _, err := b.ParseToken(token); !errors.Is(err, ErrTokenSignature) {
		t.Fatalf("expected ErrTokenSignature, got %v", err)
	}
}

func TestTokenManagerMalformed(t *testing.T) {
	m := NewTokenManager("secret", time.Minute, time.Hour)
	if _, err := m.ParseToken("not-a-jwt"); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}
