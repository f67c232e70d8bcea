package scraper

import (
	"context"
	"fmt"
	"strings"

	"newsboard/internal/domain/entity"

	"github.com/mmcdole/gofeed"
)

// RSSAdapter yields stubs from the items of an RSS or Atom feed.
type RSSAdapter struct {
	fetcher Fetcher
}

// NewRSSAdapter creates an RSSAdapter that downloads feeds through f.
func NewRSSAdapter(f Fetcher) *RSSAdapter {
	return &RSSAdapter{fetcher: f}
}

// Fetch downloads and parses the feed at feedURL.
func (a *RSSAdapter) Fetch(ctx context.Context, feedURL string) ([]entity.Stub, error) {
	page, err := a.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().ParseString(string(page.Body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	stubs := make([]entity.Stub, 0, len(feed.Items))
	for _, it := range feed.Items {
		title := strings.TrimSpace(it.Title)
		link := strings.TrimSpace(it.Link)
		if title == "" || link == "" {
			continue
		}
		stubs = append(stubs, entity.Stub{
			Link:         resolveURL(page.URL, link),
			Title:        title,
			ThumbnailURL: itemThumbnail(it),
		})
	}
	return stubs, nil
}

func itemThumbnail(it *gofeed.Item) string {
	if it.Image != nil && it.Image.URL != "" {
		return it.Image.URL
	}
	for _, enc := range it.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}
