// Package resolve fetches and caches article bodies on first view.
package resolve

import "errors"

var (
	// ErrNotFound is returned when the article id does not exist.
	ErrNotFound = errors.New("article not found")

	// ErrInvalidPolicy is returned by ParsePolicy for unknown values.
	ErrInvalidPolicy = errors.New("invalid resolve policy")
)
