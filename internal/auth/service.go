package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"alive.africa/internal/ids"
)

// Audit severities understood by the log collaborator.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Channels accepted by ResendOTP.
const (
	ChannelEmail = "email"
	ChannelPhone = "phone"
)

// resetRequestedMessage is returned for every password reset request,
// whether or not the email exists, so callers cannot enumerate accounts.
const resetRequestedMessage = "If your email is registered, you will receive a password reset PIN."

// Service orchestrates registration, login, OTP verification and password
// reset over the identity store. All collaborators are injected; the service
// holds no mutable state beyond them.
type Service struct {
	store    UserStore
	codes    *CodeEngine
	tokens   *TokenIssuer
	notifier Notifier
	logs     AuditLog
	now      func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
			s.codes.now = fn
		}
	}
}

// NewService constructs the credential service.
func NewService(store UserStore, tokens *TokenIssuer, notifier Notifier, logs AuditLog, opts ...ServiceOption) *Service {
	s := &Service{
		store:    store,
		codes:    NewCodeEngine(store),
		tokens:   tokens,
		notifier: notifier,
		logs:     logs,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email       string
	PhoneNumber string
	NationalID  string
	FirstName   string
	LastName    string
	Password    string
	Roles       []string
}

// AuthResponse pairs a sanitized identity with its session token.
type AuthResponse struct {
	User      SanitizedUser `json:"user"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// Register creates an active but unverified identity, issues independent
// email and phone codes, dispatches them and returns a session token
// immediately. Verification does not gate login.
func (s *Service) Register(ctx context.Context, in RegisterInput) (AuthResponse, error) {
	email := normalizeEmail(in.Email)
	phone := strings.TrimSpace(in.PhoneNumber)
	nationalID := strings.TrimSpace(in.NationalID)
	if email == "" || phone == "" || nationalID == "" || in.Password == "" {
		return AuthResponse{}, ErrInvalidInput
	}

	exists, err := s.store.ExistsByIdentity(ctx, email, phone, nationalID)
	if err != nil {
		s.logError(ctx, "Registration Failed", fmt.Sprintf("duplicate check for %s: %v", email, err))
		return AuthResponse{}, err
	}
	if exists {
		return AuthResponse{}, ErrDuplicateIdentity
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return AuthResponse{}, err
	}

	roles := dedupeRoles(in.Roles)
	if len(roles) == 0 {
		roles = []string{DefaultRole}
	}
	u := &User{
		ID:           ids.New(),
		Email:        email,
		PhoneNumber:  phone,
		NationalID:   nationalID,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hash,
		Roles:        roles,
		Status:       StatusActive,
	}

	emailCode, _, err := s.codes.Stamp(u, PurposeEmail)
	if err != nil {
		return AuthResponse{}, err
	}
	phoneCode, _, err := s.codes.Stamp(u, PurposePhone)
	if err != nil {
		return AuthResponse{}, err
	}

	if err := s.store.Create(ctx, u); err != nil {
		s.logError(ctx, "Registration Failed", fmt.Sprintf("create identity for %s: %v", email, err))
		return AuthResponse{}, err
	}

	s.dispatchCode(ctx, u, ChannelEmail, emailCode)
	s.dispatchCode(ctx, u, ChannelPhone, phoneCode)

	return s.respondWithToken(u)
}

// Login authenticates email and password. Unknown email, missing hash and
// wrong password all collapse into ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return AuthResponse{}, ErrInvalidCredentials
	}

	u, err := s.store.FindByEmailWithSecrets(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			s.logWarning(ctx, "Login Failed", fmt.Sprintf("user not found with email: %s", email))
			return AuthResponse{}, ErrInvalidCredentials
		}
		s.logError(ctx, "Login Error", fmt.Sprintf("unexpected error during login: %v", err))
		return AuthResponse{}, err
	}
	if u.Status != StatusActive {
		s.logWarning(ctx, "Login Failed", fmt.Sprintf("inactive account: %s", email))
		return AuthResponse{}, ErrAccountInactive
	}
	if u.PasswordHash == "" || VerifyPassword(u.PasswordHash, password) != nil {
		s.logWarning(ctx, "Login Failed", fmt.Sprintf("invalid password for: %s", email))
		return AuthResponse{}, ErrInvalidCredentials
	}

	return s.respondWithToken(u)
}

// VerifyOTP checks both channel codes and, on success, marks both channels
// verified and clears both codes in a single store write. Checks are staged
// across both channels: presence, then expiry, then comparison, so an expired
// code on one channel is reported before a mismatch on the other.
func (s *Service) VerifyOTP(ctx context.Context, email, emailCode, phoneCode string) error {
	u, err := s.store.FindByEmailWithSecrets(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	if u.EmailOTP == "" || u.PhoneOTP == "" {
		return ErrCodeMissing
	}
	if s.codes.Expired(u, PurposeEmail) || s.codes.Expired(u, PurposePhone) {
		return ErrCodeExpired
	}
	if !s.codes.Matches(u, PurposeEmail, emailCode) || !s.codes.Matches(u, PurposePhone, phoneCode) {
		s.logWarning(ctx, "OTP Verification Failed", fmt.Sprintf("code mismatch for: %s", u.Email))
		return ErrCodeMismatch
	}

	u.EmailVerified = true
	u.PhoneVerified = true
	s.codes.Consume(u, PurposeEmail)
	s.codes.Consume(u, PurposePhone)
	return s.store.SaveSensitive(ctx, u)
}

// ResendOTP issues a fresh code for the requested channel only; the other
// channel's code is untouched.
func (s *Service) ResendOTP(ctx context.Context, email, channel string) error {
	channel = strings.TrimSpace(strings.ToLower(channel))
	if channel != ChannelEmail && channel != ChannelPhone {
		return ErrInvalidInput
	}
	u, err := s.store.FindByEmailWithSecrets(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	purpose := PurposeEmail
	if channel == ChannelPhone {
		purpose = PurposePhone
	}
	code, _, err := s.codes.Issue(ctx, u, purpose)
	if err != nil {
		return err
	}
	s.dispatchCode(ctx, u, channel, code)
	return nil
}

// RequestPasswordReset issues and dispatches a reset pin when the email
// exists. The returned message is identical either way.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	u, err := s.store.FindByEmailWithSecrets(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			s.logWarning(ctx, "Password Reset Request Failed",
				fmt.Sprintf("password reset attempt for non-existent email: %s", email))
			return resetRequestedMessage, nil
		}
		s.logError(ctx, "Password Reset Request Error",
			fmt.Sprintf("error during password reset request for %s: %v", email, err))
		return "", err
	}

	pin, _, err := s.codes.Issue(ctx, u, PurposeReset)
	if err != nil {
		s.logError(ctx, "Password Reset Request Error",
			fmt.Sprintf("issue reset pin for %s: %v", email, err))
		return "", err
	}

	message := fmt.Sprintf("Your Alive password reset PIN is: %s. This PIN will expire in 10 minutes. "+
		"Please keep this PIN secure and do not share it with anyone.", pin)
	if !s.notifier.SendEmail(ctx, u.Email, "Password Reset", emailHTML(message)) {
		s.logWarning(ctx, "Password Reset Dispatch Failed", fmt.Sprintf("email dispatch to %s failed", u.Email))
	}
	if u.PhoneNumber != "" {
		_ = s.notifier.SendSMS(ctx, u.PhoneNumber, message)
	}

	return resetRequestedMessage, nil
}

// ConfirmPasswordReset verifies the reset pin and replaces the password.
// Every failure collapses into ErrResetInvalidOrExpired.
func (s *Service) ConfirmPasswordReset(ctx context.Context, email, pin, newPassword string) error {
	if newPassword == "" {
		return ErrInvalidInput
	}
	u, err := s.store.FindByEmailWithSecrets(ctx, normalizeEmail(email))
	if err != nil {
		if err == ErrNotFound {
			return ErrResetInvalidOrExpired
		}
		return err
	}

	if err := s.codes.Validate(u, PurposeReset, pin); err != nil {
		s.logWarning(ctx, "Password Reset Confirmation Failed",
			fmt.Sprintf("reset pin rejected for %s: %v", u.Email, err))
		return ErrResetInvalidOrExpired
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	s.codes.Consume(u, PurposeReset)
	return s.store.SaveSensitive(ctx, u)
}

// UpdatePassword verifies the current password first and replaces it only on
// success.
func (s *Service) UpdatePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	if newPassword == "" {
		return ErrInvalidInput
	}
	u, err := s.store.FindWithSecrets(ctx, id)
	if err != nil {
		return err
	}
	if u.PasswordHash == "" || VerifyPassword(u.PasswordHash, currentPassword) != nil {
		s.logWarning(ctx, "Password Update Failed", fmt.Sprintf("invalid current password for: %s", u.Email))
		return ErrInvalidCurrentPassword
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.store.UpdatePassword(ctx, u.ID, hash)
}

// Profile returns the sanitized identity for the given id.
func (s *Service) Profile(ctx context.Context, id string) (SanitizedUser, error) {
	u, err := s.store.Find(ctx, id)
	if err != nil {
		return SanitizedUser{}, err
	}
	return u.Sanitize(), nil
}

func (s *Service) respondWithToken(u *User) (AuthResponse, error) {
	token, expires, err := s.tokens.Issue(u)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{User: u.Sanitize(), Token: token, ExpiresAt: expires}, nil
}

// dispatchCode delivers a verification code on one channel. Failures are
// logged and swallowed: registration must not fail because a provider is down.
func (s *Service) dispatchCode(ctx context.Context, u *User, channel, code string) {
	switch channel {
	case ChannelEmail:
		message := fmt.Sprintf("Your email verification code is: %s. This code will expire in 10 minutes.", code)
		if !s.notifier.SendEmail(ctx, u.Email, "Email Verification", emailHTML(message)) {
			s.logWarning(ctx, "OTP Dispatch Failed", fmt.Sprintf("email code dispatch to %s failed", u.Email))
		}
	case ChannelPhone:
		if u.PhoneNumber == "" {
			return
		}
		message := fmt.Sprintf("Your phone verification code is: %s. This code will expire in 10 minutes.", code)
		if !s.notifier.SendSMS(ctx, u.PhoneNumber, message) {
			s.logWarning(ctx, "OTP Dispatch Failed", fmt.Sprintf("sms code dispatch to %s failed", u.PhoneNumber))
		}
	}
}

func (s *Service) logWarning(ctx context.Context, title, message string) {
	if s.logs != nil {
		s.logs.CreateLog(ctx, title, message, SeverityWarning, actorFromContext(ctx))
	}
}

func (s *Service) logError(ctx context.Context, title, message string) {
	if s.logs != nil {
		s.logs.CreateLog(ctx, title, message, SeverityError, actorFromContext(ctx))
	}
}

func actorFromContext(ctx context.Context) string {
	id, _ := UserIDFromContext(ctx)
	return id
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func emailHTML(message string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
  <h2 style="color: #2c3e50;">Alive Afrique Notification</h2>
  <div style="padding: 20px; background-color: #f8f9fa; border-radius: 5px;">%s</div>
  <p style="margin-top: 20px; font-size: 12px; color: #666;">
    This is an automated message, please do not reply to this email.
  </p>
</div>`, strings.ReplaceAll(message, "\n", "<br>"))
}
