package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// CodePurpose names the channel a secret code is bound to.
type CodePurpose string

const (
	PurposeEmail CodePurpose = "email-otp"
	PurposePhone CodePurpose = "phone-otp"
	PurposeReset CodePurpose = "password-reset"
)

// CodeTTL bounds the brute-force window for a 6-digit keyspace. Rate limiting
// is layered on at the HTTP boundary, not here.
const CodeTTL = 10 * time.Minute

// CodeEngine generates, stamps and validates time-boxed one-time codes
// attached to an identity.
type CodeEngine struct {
	store UserStore
	now   func() time.Time
}

// NewCodeEngine constructs an engine persisting through the given store.
func NewCodeEngine(store UserStore) *CodeEngine {
	return &CodeEngine{store: store, now: time.Now}
}

// Generate returns a uniformly random 6-digit decimal code in [100000, 999999].
func (e *CodeEngine) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// Stamp generates a fresh code and writes it onto the identity without
// persisting. Callers batch several stamps into one store write.
func (e *CodeEngine) Stamp(u *User, purpose CodePurpose) (string, time.Time, error) {
	code, err := e.Generate()
	if err != nil {
		return "", time.Time{}, err
	}
	expires := e.now().Add(CodeTTL)
	setCode(u, purpose, code, &expires)
	return code, expires, nil
}

// Issue stamps a fresh code for the purpose and persists the identity.
func (e *CodeEngine) Issue(ctx context.Context, u *User, purpose CodePurpose) (string, time.Time, error) {
	code, expires, err := e.Stamp(u, purpose)
	if err != nil {
		return "", time.Time{}, err
	}
	if err := e.store.SaveSensitive(ctx, u); err != nil {
		return "", time.Time{}, err
	}
	return code, expires, nil
}

// Validate checks the supplied code against the one stored for the purpose.
func (e *CodeEngine) Validate(u *User, purpose CodePurpose, supplied string) error {
	code, expires := getCode(u, purpose)
	if code == "" {
		return ErrCodeMissing
	}
	if expires == nil || !e.now().Before(*expires) {
		return ErrCodeExpired
	}
	if code != supplied {
		return ErrCodeMismatch
	}
	return nil
}

// Expired reports whether the code for the purpose has no expiry or is past it.
func (e *CodeEngine) Expired(u *User, purpose CodePurpose) bool {
	_, expires := getCode(u, purpose)
	return expires == nil || !e.now().Before(*expires)
}

// Matches reports whether supplied equals the stored code for the purpose.
func (e *CodeEngine) Matches(u *User, purpose CodePurpose, supplied string) bool {
	code, _ := getCode(u, purpose)
	return code != "" && code == supplied
}

// Consume clears the code and expiry for the purpose. Must be called after a
// successful Validate so each code works exactly once. The caller persists.
func (e *CodeEngine) Consume(u *User, purpose CodePurpose) {
	setCode(u, purpose, "", nil)
}

func setCode(u *User, purpose CodePurpose, code string, expires *time.Time) {
	switch purpose {
	case PurposeEmail:
		u.EmailOTP, u.EmailOTPExpires = code, expires
	case PurposePhone:
		u.PhoneOTP, u.PhoneOTPExpires = code, expires
	case PurposeReset:
		u.ResetPIN, u.ResetPINExpires = code, expires
	}
}

func getCode(u *User, purpose CodePurpose) (string, *time.Time) {
	switch purpose {
	case PurposeEmail:
		return u.EmailOTP, u.EmailOTPExpires
	case PurposePhone:
		return u.PhoneOTP, u.PhoneOTPExpires
	case PurposeReset:
		return u.ResetPIN, u.ResetPINExpires
	}
	return "", nil
}
