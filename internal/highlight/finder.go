package highlight

import (
	"unicode"

	"github.com/dgallion1/texthl/internal/doctree"
)

// Finder is the text-search primitive behind Find. Next returns the span of
// the occurrence following the previous one and false once there are no
// more. Find relies on Next eventually returning false.
type Finder interface {
	Reset()
	Next(anchor *doctree.Node, text string, caseSensitive bool) (Span, bool)
}

// TextFinder searches the anchor's text content left to right. Highlighting
// does not change that text, so the cursor stays valid across calls.
type TextFinder struct {
	cursor int
}

func (f *TextFinder) Reset() { f.cursor = 0 }

func (f *TextFinder) Next(anchor *doctree.Node, text string, caseSensitive bool) (Span, bool) {
	needle := []rune(text)
	if len(needle) == 0 {
		return Span{}, false
	}
	hay := []rune(anchor.TextContent())
	for i := f.cursor; i+len(needle) <= len(hay); i++ {
		if !matchAt(hay[i:], needle, caseSensitive) {
			continue
		}
		f.cursor = i + len(needle)
		span, err := SpanFromTextOffsets(anchor, i, i+len(needle))
		if err != nil {
			return Span{}, false
		}
		return span, true
	}
	f.cursor = len(hay)
	return Span{}, false
}

func matchAt(hay, needle []rune, caseSensitive bool) bool {
	for j, r := range needle {
		if hay[j] == r {
			continue
		}
		if caseSensitive || !equalFold(hay[j], r) {
			return false
		}
	}
	return true
}

func equalFold(a, b rune) bool {
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}
