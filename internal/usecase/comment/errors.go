// Package comment attaches authored text to articles.
package comment

import "errors"

var (
	// ErrUnauthenticated is returned for anonymous callers before any store access.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden is returned when the caller may not delete the comment.
	ErrForbidden = errors.New("not allowed to modify this comment")

	// ErrArticleNotFound is returned when the parent article does not exist.
	ErrArticleNotFound = errors.New("article not found")

	// ErrCommentNotFound is returned when the comment does not exist.
	ErrCommentNotFound = errors.New("comment not found")
)
