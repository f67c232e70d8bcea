// Package extractor pulls an article body out of a fetched page.
// Rules are registered per tag; tags without a rule use readability.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"
	"sync"

	"newsboard/internal/domain/entity"
	"newsboard/internal/infra/fetcher"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

// ErrExtractionFailed is returned when no rule path yields any text.
var ErrExtractionFailed = errors.New("no article body matched")

// Rule extracts raw body text from a page.
type Rule interface {
	Extract(page *fetcher.Page) (string, error)
}

// SelectorRule returns the text of the first element matched by the first
// selector that matches. Later selectors are fallbacks.
type SelectorRule struct {
	Selectors []string
}

// Extract implements Rule.
func (r SelectorRule) Extract(page *fetcher.Page) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}
	for _, sel := range r.Selectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text, nil
		}
	}
	return "", ErrExtractionFailed
}

// ScienceRule reads the first paragraph of an iz.ru article.
func ScienceRule() SelectorRule {
	return SelectorRule{Selectors: []string{".text-article__inside p"}}
}

// GeneralRule reads the rbc overview line, falling back to the first article paragraph.
func GeneralRule() SelectorRule {
	return SelectorRule{Selectors: []string{".article__text__overview span", ".article__text p"}}
}

// ReadabilityRule extracts the main content with go-readability.
type ReadabilityRule struct{}

// Extract implements Rule.
func (ReadabilityRule) Extract(page *fetcher.Page) (string, error) {
	pageURL := page.URL
	if pageURL == nil {
		pageURL = &url.URL{}
	}
	article, err := readability.FromReader(bytes.NewReader(page.Body), pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", ErrExtractionFailed
	}
	return text, nil
}

// Registry maps tags to rules.
//
// Thread safety: Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	rules    map[entity.Tag]Rule
	fallback Rule
	policy   *bluemonday.Policy
}

// NewRegistry creates an empty registry whose fallback is ReadabilityRule.
func NewRegistry() *Registry {
	return &Registry{
		rules:    make(map[entity.Tag]Rule),
		fallback: ReadabilityRule{},
		policy:   bluemonday.StrictPolicy(),
	}
}

// DefaultRegistry registers the rules for the built-in sources.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(entity.TagScience, ScienceRule())
	r.Register(entity.TagMainTrends, GeneralRule())
	r.Register(entity.TagSociety, GeneralRule())
	return r
}

// Register sets the rule for tag, replacing any previous one.
func (r *Registry) Register(tag entity.Tag, rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[tag] = rule
}

// RuleFor returns the rule registered for tag or the fallback.
func (r *Registry) RuleFor(tag entity.Tag) Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rule, ok := r.rules[tag]; ok {
		return rule
	}
	return r.fallback
}

// Extract runs the rule for tag and returns sanitized plain text.
// It returns ErrExtractionFailed when nothing usable is found.
func (r *Registry) Extract(tag entity.Tag, page *fetcher.Page) (string, error) {
	text, err := r.RuleFor(tag).Extract(page)
	if err != nil {
		return "", err
	}
	body := r.Sanitize(text)
	if body == "" {
		return "", ErrExtractionFailed
	}
	return body, nil
}

// Sanitize strips all markup and returns trimmed plain text.
func (r *Registry) Sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(r.policy.Sanitize(s)))
}
