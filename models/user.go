package models

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Role is the single permission flag carried by a principal.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a stored account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Principal returns the identity encoded into the user's bearer token.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Role: u.Role}
}

// Principal is an authenticated identity: who is asking and with what role.
type Principal struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// RegisterInput is the registration request body.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput is the login request body. Credential is a username or an email.
type LoginInput struct {
	Credential string `json:"credential"`
	Password   string `json:"password"`
}

// RoleInput is the admin role-change request body.
type RoleInput struct {
	Role Role `json:"role"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	MinUsernameLength = 3
	MinPasswordLength = 8
)

// Normalize trims the username and lowercases the email in place.
func (in *RegisterInput) Normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

// Validate checks a normalized registration request.
func (in *RegisterInput) Validate() error {
	if utf8.RuneCountInString(in.Username) < MinUsernameLength {
		return invalid("username", "username must be at least 3 characters")
	}
	if strings.Contains(in.Username, "@") {
		return invalid("username", "username must not contain @")
	}
	if !emailPattern.MatchString(in.Email) {
		return invalid("email", "invalid email address")
	}
	if utf8.RuneCountInString(in.Password) < MinPasswordLength {
		return invalid("password", "password must be at least 8 characters")
	}
	return nil
}
