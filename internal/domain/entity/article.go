// Package entity defines the core domain entities and validation logic for the application.
// It contains articles, comments and accounts, the scraping source definitions,
// and the domain-specific errors shared by every layer.
package entity

import (
	"fmt"
	"time"
)

// Tag names the source an article was scraped from. It is also the key used for
// display queries and for picking a body extraction rule.
type Tag string

const (
	TagMainTrends Tag = "main_trends"
	TagScience    Tag = "science"
	TagSociety    Tag = "society"
)

// KnownTags lists the tags of the built-in sources in display order.
var KnownTags = []Tag{TagMainTrends, TagScience, TagSociety}

// ParseTag validates a raw tag value. Tags are lowercase identifiers; unknown
// identifiers are accepted so that new sources can be added by configuration.
func ParseTag(raw string) (Tag, error) {
	if raw == "" {
		return "", &ValidationError{Field: "tag", Message: "tag is required"}
	}
	for _, r := range raw {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return "", &ValidationError{Field: "tag", Message: fmt.Sprintf("invalid character %q", r)}
		}
	}
	return Tag(raw), nil
}

// Article represents a stored news article.
// Body stays empty until the article is resolved for the first time.
type Article struct {
	ID           int64
	Title        string
	Body         string
	PublishedOn  time.Time
	ThumbnailURL string
	Link         string
	Tag          Tag
	CreatedAt    time.Time
}

// Resolved reports whether a body has been stored for the article.
func (a *Article) Resolved() bool {
	return a.Body != ""
}

// AgeDays returns the number of whole calendar days between the publish date and now.
func (a *Article) AgeDays(now time.Time) int {
	return int(DateOf(now).Sub(DateOf(a.PublishedOn)).Hours() / 24)
}

// DateOf truncates t to its calendar date in t's own location and returns it as UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Stub is a scraped article before persistence.
type Stub struct {
	Link         string
	Title        string
	ThumbnailURL string
}

// Validate checks that the stub carries the fields needed to build an article.
func (s Stub) Validate() error {
	if s.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	return validateHTTPURL("link", s.Link)
}
