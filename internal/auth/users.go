package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"alive.africa/internal/ids"
)

// Unambiguous alphabet for generated temporary passwords (no 0/O, 1/l/I).
const tempPasswordChars = "ABCDEFGHJKMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"

// ListUsers returns a filtered, paginated page of sanitized identities.
func (s *Service) ListUsers(ctx context.Context, filter UserFilter) ([]SanitizedUser, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}
	users, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return sanitizeAll(users), total, nil
}

// BasicInfo returns the name/contact projection used by pickers.
func (s *Service) BasicInfo(ctx context.Context) ([]SanitizedUser, error) {
	users, err := s.store.BasicInfo(ctx)
	if err != nil {
		return nil, err
	}
	return sanitizeAll(users), nil
}

// UpdateUserInput carries the mutable profile fields.
type UpdateUserInput struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Status      string
	Roles       []string
}

// UpdateUser applies profile changes to an existing identity.
func (s *Service) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (SanitizedUser, error) {
	u, err := s.store.Find(ctx, id)
	if err != nil {
		return SanitizedUser{}, err
	}
	if v := strings.TrimSpace(in.FirstName); v != "" {
		u.FirstName = v
	}
	if v := strings.TrimSpace(in.LastName); v != "" {
		u.LastName = v
	}
	if v := strings.TrimSpace(in.PhoneNumber); v != "" {
		u.PhoneNumber = v
	}
	if v := strings.TrimSpace(in.Status); v != "" {
		u.Status = v
	}
	if roles := dedupeRoles(in.Roles); len(roles) > 0 {
		u.Roles = roles
	}
	if err := s.store.Update(ctx, u); err != nil {
		return SanitizedUser{}, err
	}
	return u.Sanitize(), nil
}

// DeleteUser removes an identity.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// CreateByAdmin provisions a pre-verified identity with a temporary password
// and delivers the credentials by SMS. SMS failure never fails the creation.
func (s *Service) CreateByAdmin(ctx context.Context, in RegisterInput) (SanitizedUser, error) {
	email := normalizeEmail(in.Email)
	phone := strings.TrimSpace(in.PhoneNumber)
	nationalID := strings.TrimSpace(in.NationalID)
	if email == "" || phone == "" || nationalID == "" {
		return SanitizedUser{}, ErrInvalidInput
	}

	exists, err := s.store.ExistsByIdentity(ctx, email, phone, nationalID)
	if err != nil {
		return SanitizedUser{}, err
	}
	if exists {
		return SanitizedUser{}, ErrDuplicateIdentity
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		return SanitizedUser{}, err
	}
	hash, err := HashPassword(tempPassword)
	if err != nil {
		return SanitizedUser{}, err
	}

	roles := dedupeRoles(in.Roles)
	if len(roles) == 0 {
		roles = []string{DefaultRole}
	}
	u := &User{
		ID:            ids.New(),
		Email:         email,
		PhoneNumber:   phone,
		NationalID:    nationalID,
		FirstName:     strings.TrimSpace(in.FirstName),
		LastName:      strings.TrimSpace(in.LastName),
		PasswordHash:  hash,
		Roles:         roles,
		Status:        StatusActive,
		EmailVerified: true,
		PhoneVerified: true,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return SanitizedUser{}, err
	}

	message := fmt.Sprintf("Welcome to Alive! Your login credentials:\nEmail: %s\nPassword: %s\n"+
		"Please change your password after first login.", u.Email, tempPassword)
	if !s.notifier.SendSMS(ctx, u.PhoneNumber, message) {
		s.logWarning(ctx, "Credential Delivery Failed", fmt.Sprintf("credentials sms to %s failed", u.PhoneNumber))
	}

	return u.Sanitize(), nil
}

// BulkUpdateStatus sets the status on every listed identity.
func (s *Service) BulkUpdateStatus(ctx context.Context, userIDs []string, status string) (int64, error) {
	status = strings.TrimSpace(status)
	if len(userIDs) == 0 || status == "" {
		return 0, ErrInvalidInput
	}
	return s.store.BulkUpdateStatus(ctx, userIDs, status)
}

// BulkDelete removes every listed identity.
func (s *Service) BulkDelete(ctx context.Context, userIDs []string) (int64, error) {
	if len(userIDs) == 0 {
		return 0, ErrInvalidInput
	}
	return s.store.BulkDelete(ctx, userIDs)
}

// UserStatistics summarizes the account base.
func (s *Service) UserStatistics(ctx context.Context) (UserStatistics, error) {
	return s.store.Statistics(ctx)
}

func sanitizeAll(users []*User) []SanitizedUser {
	out := make([]SanitizedUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitize())
	}
	return out
}

func generateTempPassword() (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(tempPasswordChars)))
	for i := 0; i < 8; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(tempPasswordChars[n.Int64()])
	}
	return b.String() + "!", nil
}
