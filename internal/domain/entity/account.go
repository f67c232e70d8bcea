package entity

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

// Account is a registered user. Privileged accounts may purge stale articles.
type Account struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Privileged   bool
	CreatedAt    time.Time
}

const (
	maxNameLength   = 64
	minPasswordSize = 8
	// bcrypt ignores input past 72 bytes.
	maxPasswordSize = 72
)

// NormalizeEmail lowercases and trims an email address and checks its syntax.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", &ValidationError{Field: "email", Message: "email is required"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", &ValidationError{Field: "email", Message: "email is not a valid address"}
	}
	return email, nil
}

// ValidateName checks a display name and returns it trimmed.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ValidationError{Field: "name", Message: "name is required"}
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", &ValidationError{Field: "name", Message: "name is too long"}
	}
	return name, nil
}

// ValidatePassword checks the length bounds of a plaintext password.
func ValidatePassword(password string) error {
	if len(password) < minPasswordSize {
		return &ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	if len(password) > maxPasswordSize {
		return &ValidationError{Field: "password", Message: "password must not exceed 72 bytes"}
	}
	return nil
}
