package scraper

import (
	"fmt"

	"newsboard/internal/domain/entity"
)

// Binding pairs a source definition with the adapter that reads it.
type Binding struct {
	Source  entity.Source
	Adapter Adapter
}

// Registry maps tags to their source adapters and holds the optional listing source.
type Registry struct {
	tagged  map[entity.Tag]Binding
	order   []entity.Tag
	listing *Binding
}

// NewAdapter creates the adapter matching the source kind.
func NewAdapter(f Fetcher, src entity.Source) (Adapter, error) {
	switch src.Kind {
	case entity.SourceKindRSS:
		return NewRSSAdapter(f), nil
	case entity.SourceKindSelector, "":
		if src.Scraper == nil {
			return nil, fmt.Errorf("source %s: missing scraper config", src.Name)
		}
		return NewSelectorAdapter(f, *src.Scraper), nil
	default:
		return nil, fmt.Errorf("source %s: unsupported kind %q", src.Name, src.Kind)
	}
}

// NewRegistry builds adapters for every source, all sharing one fetcher.
func NewRegistry(f Fetcher, sources []entity.Source) (*Registry, error) {
	r := &Registry{tagged: make(map[entity.Tag]Binding, len(sources))}
	for _, src := range sources {
		adapter, err := NewAdapter(f, src)
		if err != nil {
			return nil, err
		}
		b := Binding{Source: src, Adapter: adapter}
		if src.Listing() {
			r.listing = &b
			continue
		}
		if _, dup := r.tagged[src.Tag]; dup {
			return nil, fmt.Errorf("duplicate source for tag %q", src.Tag)
		}
		r.tagged[src.Tag] = b
		r.order = append(r.order, src.Tag)
	}
	return r, nil
}

// Lookup returns the binding registered for tag.
func (r *Registry) Lookup(tag entity.Tag) (Binding, bool) {
	b, ok := r.tagged[tag]
	return b, ok
}

// Tags returns the registered tags in declaration order.
func (r *Registry) Tags() []entity.Tag {
	out := make([]entity.Tag, len(r.order))
	copy(out, r.order)
	return out
}

// Listing returns the listing binding, if one was declared.
func (r *Registry) Listing() (Binding, bool) {
	if r.listing == nil {
		return Binding{}, false
	}
	return *r.listing, true
}
