package auth

import (
	"strings"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("secret-1")
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}

	u := &User{ID: "user-42", Email: "a@x.com", Roles: []string{"Admin", "admin", "viewer"}}
	token, expires, err := issuer.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if until := time.Until(expires); until < 364*24*time.Hour {
		t.Fatalf("expected ~1 year expiry, got %v", until)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-42" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.Email != "a@x.com" {
		t.Fatalf("unexpected email: %s", claims.Email)
	}
	if len(claims.Roles) != 2 {
		t.Fatalf("expected deduplicated roles, got %v", claims.Roles)
	}
}

func TestTokenExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	issuer, err := NewTokenIssuer("secret-1",
		WithTokenTTL(time.Hour),
		WithTokenClock(func() time.Time { return clock }))
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}

	token, _, err := issuer.Issue(&User{ID: "user-42", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	clock = now.Add(2 * time.Hour)
	if _, err := issuer.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenTamperAndSecret(t *testing.T) {
	issuer, err := NewTokenIssuer("secret-1")
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	token, _, err := issuer.Issue(&User{ID: "user-42", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := issuer.Verify(tampered); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}

	other, err := NewTokenIssuer("secret-2")
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	if _, err := other.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken under different secret, got %v", err)
	}

	if _, err := issuer.Verify(strings.Repeat("a", 10)); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestTokenIssuerRequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer("  "); err == nil {
		t.Fatal("expected error for blank secret")
	}
}
