package auth

import "context"

// UserStore describes the persistence operations required by the credential
// subsystem. Reads return identities without sensitive fields unless the
// WithSecrets variant is used.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id string) (*User, error)
	FindWithSecrets(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByEmailWithSecrets(ctx context.Context, email string) (*User, error)
	ExistsByIdentity(ctx context.Context, email, phone, nationalID string) (bool, error)

	// SaveSensitive writes the password hash, verification codes, reset pin
	// and verified flags in a single update.
	SaveSensitive(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter UserFilter) ([]*User, int, error)
	BasicInfo(ctx context.Context) ([]*User, error)
	BulkUpdateStatus(ctx context.Context, ids []string, status string) (int64, error)
	BulkDelete(ctx context.Context, ids []string) (int64, error)
	Statistics(ctx context.Context) (UserStatistics, error)
}

// Notifier delivers codes and messages out-of-band. Both calls are
// best-effort: implementations report failure, they never panic or block the
// credential flow.
type Notifier interface {
	SendEmail(ctx context.Context, to, subject, html string) bool
	SendSMS(ctx context.Context, phone, message string) bool
}

// AuditLog records security-relevant events. Fire-and-forget from the
// caller's perspective.
type AuditLog interface {
	CreateLog(ctx context.Context, title, message, severity, actorID string)
}
