package auth

import "errors"

var (
	ErrNotFound               = errors.New("auth: not found")
	ErrDuplicateIdentity      = errors.New("auth: identity already exists")
	ErrAccountInactive        = errors.New("auth: account is not active")
	ErrInvalidCredentials     = errors.New("auth: invalid credentials")
	ErrInvalidCurrentPassword = errors.New("auth: invalid current password")
	ErrInvalidInput           = errors.New("auth: invalid input")

	ErrCodeMissing  = errors.New("auth: verification code missing")
	ErrCodeExpired  = errors.New("auth: verification code expired")
	ErrCodeMismatch = errors.New("auth: verification code mismatch")

	ErrResetInvalidOrExpired = errors.New("auth: invalid or expired reset pin")

	ErrInvalidToken = errors.New("auth: invalid token")
)
