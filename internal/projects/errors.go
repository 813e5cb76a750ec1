package projects

import "errors"

var (
	ErrNotFound      = errors.New("projects: not found")
	ErrInvalidInput  = errors.New("projects: invalid input")
	ErrDuplicateCode = errors.New("projects: indicator code already exists")
	ErrFormInactive  = errors.New("projects: form is not active")
)
