package highlight

import (
	"strings"

	"github.com/dgallion1/texthl/internal/doctree"
)

// DefaultIgnoredTags are elements whose text is never wrapped.
var DefaultIgnoredTags = []string{
	"script", "style", "select", "option", "button", "object", "applet",
	"video", "audio", "canvas", "embed", "param", "meter", "progress",
}

// HighlightRange wraps every qualifying text leaf between the span's
// boundaries in a clone of template. The returned markers are in document
// order. It does not normalize, run hooks or touch the selection.
func (h *Highlighter) HighlightRange(span Span, template *doctree.Node) []*doctree.Node {
	if !span.Valid() || span.Collapsed() {
		return nil
	}

	start, end, goDeeper, splits := refineBoundaries(span)
	defer rejoinSplits(splits)
	if start == nil || end == nil {
		return nil
	}

	var created []*doctree.Node
	node := start
	done := false
	for !done && node != nil {
		if goDeeper && node.IsText() {
			if h.wrappable(node) {
				marker := template.Clone(true)
				marker.Marker = true
				created = append(created, doctree.Wrap(node, marker))
			}
			goDeeper = false
		}

		if node == end && !(end.HasChildren() && goDeeper) {
			done = true
		}

		if node.IsElement() && h.ignored[node.Tag] {
			if end.Parent == node {
				done = true
			}
			goDeeper = false
		}

		switch {
		case goDeeper && node.FirstChild != nil:
			node = node.FirstChild
		case node.NextSibling != nil:
			node = node.NextSibling
			goDeeper = true
		default:
			node = node.Parent
			goDeeper = false
		}
	}

	return created
}

// wrappable reports whether a text leaf may be wrapped: non-blank, not
// inside an ignored element, and inside the anchor.
func (h *Highlighter) wrappable(text *doctree.Node) bool {
	parent := text.Parent
	if parent == nil || h.ignored[parent.Tag] {
		return false
	}
	if strings.TrimSpace(text.Data) == "" {
		return false
	}
	return parent == h.anchor || h.anchor.Contains(parent)
}
