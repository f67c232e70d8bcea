// Package scraper turns source pages into ordered lists of article stubs.
// Selector sources are parsed with goquery, RSS and Atom sources with gofeed.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"newsboard/internal/domain/entity"
	"newsboard/internal/infra/fetcher"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher downloads a single page. *fetcher.PageFetcher satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetcher.Page, error)
}

// Adapter extracts stubs from one source.
type Adapter interface {
	Fetch(ctx context.Context, sourceURL string) ([]entity.Stub, error)
}

// SelectorAdapter reads an HTML page and extracts one stub per element matched
// by the configured item selector.
type SelectorAdapter struct {
	fetcher Fetcher
	config  entity.ScraperConfig
}

// NewSelectorAdapter creates a SelectorAdapter for the given markup contract.
func NewSelectorAdapter(f Fetcher, cfg entity.ScraperConfig) *SelectorAdapter {
	if cfg.LinkAttr == "" {
		cfg.LinkAttr = "href"
	}
	if cfg.ImageSelector == "" {
		cfg.ImageSelector = "img"
	}
	if cfg.ImageAttr == "" {
		cfg.ImageAttr = "src"
	}
	return &SelectorAdapter{fetcher: f, config: cfg}
}

// Fetch issues one GET for sourceURL and returns the stubs in document order.
// A failed fetch returns the fetcher's transport error and no stubs.
func (a *SelectorAdapter) Fetch(ctx context.Context, sourceURL string) ([]entity.Stub, error) {
	page, err := a.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	return a.extractStubs(doc, page.URL), nil
}

func (a *SelectorAdapter) extractStubs(doc *goquery.Document, base *url.URL) []entity.Stub {
	cfg := a.config
	stubs := make([]entity.Stub, 0)

	doc.Find(cfg.ItemSelector).Each(func(i int, item *goquery.Selection) {
		linkEl := item
		if cfg.LinkSelector != "" {
			linkEl = item.Find(cfg.LinkSelector).First()
		}
		href, ok := linkEl.Attr(cfg.LinkAttr)
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			slog.Debug("skipping item without link", slog.Int("index", i))
			return
		}

		title := titleFromText(item.Text(), cfg.TitleLine)
		if title == "" {
			slog.Debug("skipping item with empty title", slog.Int("index", i), slog.String("link", href))
			return
		}

		thumbnail := ""
		if img := item.Find(cfg.ImageSelector).First(); img.Length() > 0 {
			src, _ := img.Attr(cfg.ImageAttr)
			thumbnail = resolveURL(base, strings.TrimSpace(src))
		}
		if thumbnail == "" && cfg.SkipWithoutThumbnail {
			slog.Debug("skipping item without thumbnail", slog.Int("index", i), slog.String("link", href))
			return
		}

		var link string
		if cfg.URLPrefix != "" {
			link = cfg.URLPrefix + strings.TrimPrefix(href, "/")
		} else {
			link = resolveURL(base, href)
		}

		stubs = append(stubs, entity.Stub{
			Link:         link,
			Title:        title,
			ThumbnailURL: thumbnail,
		})
	})

	return stubs
}

// titleFromText picks the n-th non-empty line of an item's text.
// n == 0 collapses the whole text into a single line.
func titleFromText(text string, n int) string {
	if n == 0 {
		return strings.Join(strings.Fields(text), " ")
	}
	seen := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen++
		if seen == n {
			return line
		}
	}
	return ""
}

// resolveURL makes ref absolute against base. Unparseable refs are returned unchanged.
func resolveURL(base *url.URL, ref string) string {
	if ref == "" || base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
