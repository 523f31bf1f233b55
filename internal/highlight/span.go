package highlight

import (
	"fmt"

	"github.com/dgallion1/texthl/internal/doctree"
)

// Span is a raw selection between two boundary points. Offsets count runes
// inside text leaves and children inside elements.
type Span struct {
	StartNode   *doctree.Node
	StartOffset int
	EndNode     *doctree.Node
	EndOffset   int
}

// Collapsed reports whether the span selects nothing.
func (s Span) Collapsed() bool {
	return s.StartNode == s.EndNode && s.StartOffset == s.EndOffset
}

// Valid reports whether both boundary points exist and are in range.
func (s Span) Valid() bool {
	if s.StartNode == nil || s.EndNode == nil {
		return false
	}
	return s.StartOffset >= 0 && s.StartOffset <= s.StartNode.Len() &&
		s.EndOffset >= 0 && s.EndOffset <= s.EndNode.Len()
}

// CommonAncestor is the deepest node containing both boundary points.
func (s Span) CommonAncestor() *doctree.Node {
	return doctree.CommonAncestor(s.StartNode, s.EndNode)
}

// SpanFromTextOffsets builds a span over anchor's text content. start and
// end are rune offsets into anchor.TextContent(). Boundary points land
// inside text leaves; a boundary on a leaf edge is placed at the end of the
// preceding leaf for end points and at the start of the following leaf for
// start points.
func SpanFromTextOffsets(anchor *doctree.Node, start, end int) (Span, error) {
	if start < 0 || end < start {
		return Span{}, fmt.Errorf("invalid text range [%d, %d)", start, end)
	}
	var s Span
	pos := 0
	anchor.Walk(func(n *doctree.Node) bool {
		if n.Type != doctree.TextNode {
			return true
		}
		length := n.Len()
		if s.StartNode == nil && start < pos+length {
			s.StartNode, s.StartOffset = n, start-pos
		}
		if s.EndNode == nil && end <= pos+length && (s.StartNode != nil || end == start) {
			s.EndNode, s.EndOffset = n, end-pos
		}
		pos += length
		return true
	})
	if s.StartNode == nil && start == end && s.EndNode != nil {
		s.StartNode, s.StartOffset = s.EndNode, s.EndOffset
	}
	if s.StartNode == nil || s.EndNode == nil {
		return Span{}, fmt.Errorf("text range [%d, %d) exceeds document length %d", start, end, pos)
	}
	return s, nil
}

// SpanFromPaths builds a span from child-index paths relative to anchor.
func SpanFromPaths(anchor *doctree.Node, startPath []int, startOffset int, endPath []int, endOffset int) (Span, error) {
	startNode, err := doctree.Resolve(anchor, startPath)
	if err != nil {
		return Span{}, fmt.Errorf("resolve start: %w", err)
	}
	endNode, err := doctree.Resolve(anchor, endPath)
	if err != nil {
		return Span{}, fmt.Errorf("resolve end: %w", err)
	}
	s := Span{StartNode: startNode, StartOffset: startOffset, EndNode: endNode, EndOffset: endOffset}
	if !s.Valid() {
		return Span{}, fmt.Errorf("span offsets out of range")
	}
	return s, nil
}
