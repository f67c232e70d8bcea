package entity

import "fmt"

// SourceKind selects the adapter used to read a source.
type SourceKind string

const (
	SourceKindSelector SourceKind = "selector"
	SourceKindRSS      SourceKind = "rss"
)

// Source describes one external page the system scrapes.
// A source without a tag is a listing: its stubs are shown but never stored.
type Source struct {
	Name    string         `yaml:"name"`
	Tag     Tag            `yaml:"tag"`
	URL     string         `yaml:"url"`
	Kind    SourceKind     `yaml:"kind"`
	Scraper *ScraperConfig `yaml:"scraper"`
}

// ScraperConfig holds the markup contract of a selector source.
type ScraperConfig struct {
	// ItemSelector matches one element per story.
	ItemSelector string `yaml:"item_selector"`
	// LinkSelector finds the link element inside an item. Empty means the item itself.
	LinkSelector string `yaml:"link_selector"`
	LinkAttr     string `yaml:"link_attr"`
	// ImageSelector finds the thumbnail element inside an item.
	ImageSelector string `yaml:"image_selector"`
	ImageAttr     string `yaml:"image_attr"`
	// TitleLine picks the n-th non-empty line (1-based) of the item text as the title.
	// Zero uses the whole trimmed text.
	TitleLine int `yaml:"title_line"`
	// URLPrefix is prepended verbatim to the extracted link.
	URLPrefix string `yaml:"url_prefix"`
	// SkipWithoutThumbnail drops items that have no image instead of storing them without one.
	SkipWithoutThumbnail bool `yaml:"skip_without_thumbnail"`
}

// Listing reports whether the source is display-only.
func (s *Source) Listing() bool {
	return s.Tag == ""
}

// Validate checks the source definition and fills attribute defaults.
func (s *Source) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if s.Tag != "" {
		if _, err := ParseTag(string(s.Tag)); err != nil {
			return err
		}
	}
	if err := validateHTTPURL("url", s.URL); err != nil {
		return err
	}

	switch s.Kind {
	case "", SourceKindSelector:
		s.Kind = SourceKindSelector
		if s.Scraper == nil || s.Scraper.ItemSelector == "" {
			return fmt.Errorf("source %s: scraper.item_selector is required for selector sources", s.Name)
		}
		if s.Scraper.TitleLine < 0 {
			return &ValidationError{Field: "title_line", Message: "title_line must not be negative"}
		}
		if s.Scraper.LinkAttr == "" {
			s.Scraper.LinkAttr = "href"
		}
		if s.Scraper.ImageSelector == "" {
			s.Scraper.ImageSelector = "img"
		}
		if s.Scraper.ImageAttr == "" {
			s.Scraper.ImageAttr = "src"
		}
	case SourceKindRSS:
	default:
		return fmt.Errorf("source %s: invalid kind %q (must be selector or rss)", s.Name, s.Kind)
	}
	return nil
}
