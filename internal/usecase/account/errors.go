// Package account registers and authenticates accounts.
package account

import "errors"

var (
	// ErrAccountExists is returned when the email or name is already registered.
	ErrAccountExists = errors.New("account already exists")

	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
