package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dgallion1/texthl/internal/highlight"
)

// HighlighterDefaults are the marker settings every new highlighter starts
// with. They load from a TOML file such as:
//
//	color = "#ffff7b"
//	highlighted_class = "highlighted"
//	context_class = "highlighter-context"
//	ignored_tags = ["script", "style"]
type HighlighterDefaults struct {
	Color            string   `toml:"color"`
	HighlightedClass string   `toml:"highlighted_class"`
	ContextClass     string   `toml:"context_class"`
	IgnoredTags      []string `toml:"ignored_tags"`
}

func DefaultHighlighter() HighlighterDefaults {
	return HighlighterDefaults{
		Color:            highlight.DefaultColor,
		HighlightedClass: highlight.DefaultHighlightedClass,
		ContextClass:     highlight.DefaultContextClass,
		IgnoredTags:      append([]string(nil), highlight.DefaultIgnoredTags...),
	}
}

// LoadHighlighterDefaults reads a TOML file. Keys missing from the file
// keep their built-in values; an explicit empty ignored_tags list clears
// the list.
func LoadHighlighterDefaults(path string) (HighlighterDefaults, error) {
	cfg := DefaultHighlighter()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return HighlighterDefaults{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return HighlighterDefaults{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if strings.TrimSpace(cfg.Color) == "" {
		return HighlighterDefaults{}, fmt.Errorf("%s: color must not be empty", path)
	}
	for i, tag := range cfg.IgnoredTags {
		cfg.IgnoredTags[i] = strings.ToLower(strings.TrimSpace(tag))
	}
	return cfg, nil
}

// Options renders the defaults as highlighter options.
func (h HighlighterDefaults) Options() []highlight.Option {
	return []highlight.Option{
		highlight.WithColor(h.Color),
		highlight.WithHighlightedClass(h.HighlightedClass),
		highlight.WithContextClass(h.ContextClass),
		highlight.WithIgnoredTags(h.IgnoredTags...),
	}
}
