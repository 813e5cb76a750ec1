package auth

import "time"

// Account statuses. Anything other than active cannot log in.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// DefaultRole is assigned when registration supplies no roles.
const DefaultRole = "employee"

// User is the identity record for one account. Sensitive fields (password
// hash, verification codes, reset pin) are only populated when a store read
// explicitly requests them.
type User struct {
	ID          string
	Email       string
	PhoneNumber string
	NationalID  string
	FirstName   string
	LastName    string

	PasswordHash string
	Roles        []string
	Status       string

	EmailVerified bool
	PhoneVerified bool

	EmailOTP        string
	EmailOTPExpires *time.Time
	PhoneOTP        string
	PhoneOTPExpires *time.Time
	ResetPIN        string
	ResetPINExpires *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SanitizedUser is the only identity shape handed back to callers. It has no
// fields for the password hash, verification codes or reset pin, so they can
// never leak through serialization.
type SanitizedUser struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PhoneNumber   string    `json:"phone_number"`
	NationalID    string    `json:"national_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Roles         []string  `json:"roles"`
	Status        string    `json:"status"`
	EmailVerified bool      `json:"email_verified"`
	PhoneVerified bool      `json:"phone_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Sanitize strips every sensitive field from the identity.
func (u *User) Sanitize() SanitizedUser {
	roles := make([]string, len(u.Roles))
	copy(roles, u.Roles)
	return SanitizedUser{
		ID:            u.ID,
		Email:         u.Email,
		PhoneNumber:   u.PhoneNumber,
		NationalID:    u.NationalID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Roles:         roles,
		Status:        u.Status,
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// UserFilter narrows admin listings.
type UserFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// UserStatistics summarizes the account base for dashboards.
type UserStatistics struct {
	TotalUsers        int `json:"total_users"`
	ActiveUsers       int `json:"active_users"`
	InactiveUsers     int `json:"inactive_users"`
	NewUsersThisMonth int `json:"new_users_this_month"`
}
