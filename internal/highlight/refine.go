package highlight

import "github.com/dgallion1/texthl/internal/doctree"

// refineBoundaries turns a raw span into the nodes the wrap walk starts and
// stops at, splitting text leaves where a boundary falls inside one.
// goDeeper reports whether the walk may enter start. A nil start or end
// means there is nothing to walk. splits lists every leaf it split, left
// half first, so fragments the walk leaves unwrapped can be joined again.
func refineBoundaries(s Span) (start, end *doctree.Node, goDeeper bool, splits []textSplit) {
	start, end = s.StartNode, s.EndNode
	ancestor := s.CommonAncestor()
	goDeeper = true

	switch {
	case s.EndOffset == 0:
		// Step back so an empty trailing boundary is not included.
		for end != nil && end.PrevSibling == nil && end.Parent != ancestor {
			end = end.Parent
		}
		if end != nil {
			end = end.PrevSibling
		}
	case end.IsText():
		if s.EndOffset < end.Len() {
			right, err := end.SplitText(s.EndOffset)
			if err != nil {
				return nil, nil, false, splits
			}
			splits = append(splits, textSplit{left: end, right: right})
		}
	default:
		end = end.ChildAt(s.EndOffset - 1)
	}

	switch {
	case start.IsText():
		if s.StartOffset == start.Len() {
			goDeeper = false
		} else if s.StartOffset > 0 {
			left := start
			right, err := start.SplitText(s.StartOffset)
			if err != nil {
				return nil, nil, false, splits
			}
			splits = append(splits, textSplit{left: left, right: right})
			start = right
			if end == start.PrevSibling {
				end = start
			}
		}
	case s.StartOffset < start.ChildCount():
		start = start.ChildAt(s.StartOffset)
	default:
		start = start.NextSibling
	}

	return start, end, goDeeper, splits
}

type textSplit struct {
	left, right *doctree.Node
}

// rejoinSplits merges split halves that are still adjacent text siblings,
// newest split first, so unwrapped fragments do not change the leaf layout
// that descriptor paths index into.
func rejoinSplits(splits []textSplit) {
	for i := len(splits) - 1; i >= 0; i-- {
		left, right := splits[i].left, splits[i].right
		if left.Parent == nil || left.NextSibling != right || !right.IsText() {
			continue
		}
		left.Data += right.Data
		right.Remove()
	}
}
