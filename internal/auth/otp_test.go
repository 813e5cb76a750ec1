package auth

import (
	"context"
	"strconv"
	"testing"
	"time"
)

func TestGenerateCodeRange(t *testing.T) {
	engine := NewCodeEngine(nil)
	for i := 0; i < 1000; i++ {
		code, err := engine.Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("code not numeric: %q", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code out of range: %d", n)
		}
	}
}

func TestValidateConsumeSingleUse(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	engine := NewCodeEngine(nil)
	engine.now = func() time.Time { return now }

	u := &User{ID: "u1"}
	code, expires, err := engine.Stamp(u, PurposeEmail)
	if err != nil {
		t.Fatalf("Stamp: %v", err)
	}
	if got := now.Add(CodeTTL); !expires.Equal(got) {
		t.Fatalf("expiry = %v, want %v", expires, got)
	}

	if err := engine.Validate(u, PurposeEmail, code); err != nil {
		t.Fatalf("Validate fresh code: %v", err)
	}
	engine.Consume(u, PurposeEmail)
	if err := engine.Validate(u, PurposeEmail, code); err != ErrCodeMissing {
		t.Fatalf("expected ErrCodeMissing after consume, got %v", err)
	}
}

func TestValidateExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	engine := NewCodeEngine(nil)
	engine.now = func() time.Time { return now }

	u := &User{ID: "u1"}
	code, _, err := engine.Stamp(u, PurposePhone)
	if err != nil {
		t.Fatalf("Stamp: %v", err)
	}

	// Exactly at the expiry boundary the code is rejected.
	engine.now = func() time.Time { return now.Add(CodeTTL) }
	if err := engine.Validate(u, PurposePhone, code); err != ErrCodeExpired {
		t.Fatalf("expected ErrCodeExpired at boundary, got %v", err)
	}
	if err := engine.Validate(u, PurposePhone, "000000"); err != ErrCodeExpired {
		t.Fatalf("expiry must win over mismatch, got %v", err)
	}
}

func TestValidateMismatch(t *testing.T) {
	engine := NewCodeEngine(nil)
	u := &User{ID: "u1"}
	code, _, err := engine.Stamp(u, PurposeReset)
	if err != nil {
		t.Fatalf("Stamp: %v", err)
	}
	wrong := "100000"
	if wrong == code {
		wrong = "100001"
	}
	if err := engine.Validate(u, PurposeReset, wrong); err != ErrCodeMismatch {
		t.Fatalf("expected ErrCodeMismatch, got %v", err)
	}
}

func TestIssuePersists(t *testing.T) {
	store := newFakeUserStore()
	u := &User{ID: "u1", Email: "a@x.com"}
	if err := store.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	engine := NewCodeEngine(store)
	code, _, err := engine.Issue(context.Background(), u, PurposeEmail)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	saved, err := store.FindWithSecrets(context.Background(), "u1")
	if err != nil {
		t.Fatalf("FindWithSecrets: %v", err)
	}
	if saved.EmailOTP != code {
		t.Fatalf("stored code %q, want %q", saved.EmailOTP, code)
	}
	if saved.EmailOTPExpires == nil {
		t.Fatal("expected stored expiry")
	}
}
