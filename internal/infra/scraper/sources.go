package scraper

import (
	_ "embed"
	"fmt"
	"os"

	"newsboard/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

//go:embed sources.yaml
var defaultSources []byte

type sourcesFile struct {
	Sources []entity.Source `yaml:"sources"`
}

// LoadSources reads source definitions from path, or the built-in set when path is empty.
// Every source is validated; tags and names must be unique and at most one listing is allowed.
func LoadSources(path string) ([]entity.Source, error) {
	data := defaultSources
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read sources file: %w", err)
		}
		data = b
	}
	return ParseSources(data)
}

// ParseSources decodes and validates a YAML source list.
func ParseSources(data []byte) ([]entity.Source, error) {
	var f sourcesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode sources: %w", err)
	}
	if len(f.Sources) == 0 {
		return nil, fmt.Errorf("no sources defined")
	}

	names := make(map[string]struct{}, len(f.Sources))
	tags := make(map[entity.Tag]struct{}, len(f.Sources))
	listings := 0
	for i := range f.Sources {
		src := &f.Sources[i]
		if err := src.Validate(); err != nil {
			return nil, fmt.Errorf("source #%d: %w", i, err)
		}
		if _, dup := names[src.Name]; dup {
			return nil, fmt.Errorf("source %s: duplicate name", src.Name)
		}
		names[src.Name] = struct{}{}

		if src.Listing() {
			listings++
			if listings > 1 {
				return nil, fmt.Errorf("source %s: only one listing source is allowed", src.Name)
			}
			continue
		}
		if _, dup := tags[src.Tag]; dup {
			return nil, fmt.Errorf("source %s: duplicate tag %q", src.Name, src.Tag)
		}
		tags[src.Tag] = struct{}{}
	}
	return f.Sources, nil
}
