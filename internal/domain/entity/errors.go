package entity

import (
	"errors"
	"net/url"
	"strconv"
)

var (
	// ErrNotFound is wrapped by repositories when an update or delete matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is wrapped by repositories when a unique constraint rejects an insert.
	ErrDuplicate = errors.New("duplicate")
	// ErrInvalidInput is matched by every *ValidationError.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError names the rejected field. It matches ErrInvalidInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// maxURLLength bounds stored links and source URLs.
const maxURLLength = 2048

// validateHTTPURL accepts absolute http and https URLs only.
func validateHTTPURL(field, raw string) error {
	if raw == "" {
		return &ValidationError{Field: field, Message: field + " is required"}
	}
	if len(raw) > maxURLLength {
		return &ValidationError{Field: field, Message: "longer than " + strconv.Itoa(maxURLLength) + " characters"}
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{Field: field, Message: "must be an absolute http or https URL"}
	}
	return nil
}
