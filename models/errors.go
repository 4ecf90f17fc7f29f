package models

import "errors"

// Error taxonomy shared by stores, services and handlers.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("admin access only")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSelfRoleChange     = errors.New("you cannot change your own role")
)

// ValidationError describes a rejected input field. It matches ErrValidation
// under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Uniqueness violations reported by the credential stores.
var (
	ErrUsernameTaken = &ValidationError{Field: "username", Message: "username already taken"}
	ErrEmailTaken    = &ValidationError{Field: "email", Message: "email already registered"}
)

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
