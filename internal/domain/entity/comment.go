package entity

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxCommentLength is the maximum number of characters in a comment.
const MaxCommentLength = 2000

// Comment is a piece of text attached to an article by an account.
type Comment struct {
	ID         int64
	Text       string
	AuthorID   int64
	AuthorName string
	ArticleID  int64
	CreatedAt  time.Time
}

// ValidateCommentText checks a comment body and returns it trimmed.
func ValidateCommentText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &ValidationError{Field: "text", Message: "comment text is required"}
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return "", &ValidationError{Field: "text", Message: "comment text is too long"}
	}
	return text, nil
}
