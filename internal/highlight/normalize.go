package highlight

import (
	"cmp"
	"slices"

	"github.com/dgallion1/texthl/internal/doctree"
)

// Normalize reduces markers to the minimal non-nested, non-adjacent form:
// nested markers are flattened, same-colour neighbours merged and text
// leaves inside each marker coalesced. The surviving markers are returned
// in document order. The input slice is not modified.
func Normalize(markers []*doctree.Node) []*doctree.Node {
	hls := slices.Clone(markers)
	flattenNested(hls)
	mergeSiblings(hls)
	return finalize(hls)
}

// flattenNested repeats single passes until no marker sits inside another.
func flattenNested(hls []*doctree.Node) {
	sortByDepth(hls, true)
	for flattenOnce(hls) {
	}
}

func flattenOnce(hls []*doctree.Node) bool {
	again := false
	for i, hl := range hls {
		parent := hl.Parent
		if !parent.IsMarker() {
			continue
		}
		if haveSameColor(parent, hl) {
			doctree.Unwrap(hl)
			hls[i] = parent
			again = true
			continue
		}
		if liftOut(hl) {
			again = true
		}
		if !parent.HasChildren() {
			parent.Remove()
		}
	}
	return again
}

// liftOut moves hl out of its marker parent, keeping text order. When hl
// sits between siblings the parent is split in two around it.
func liftOut(hl *doctree.Node) bool {
	parent := hl.Parent
	grand := parent.Parent
	if grand == nil {
		return false
	}
	switch {
	case hl.NextSibling == nil:
		grand.InsertAfter(hl, parent)
	case hl.PrevSibling == nil:
		grand.InsertBefore(hl, parent)
	default:
		tail := parent.Clone(false)
		for c := hl.NextSibling; c != nil; {
			next := c.NextSibling
			tail.AppendChild(c)
			c = next
		}
		grand.InsertAfter(tail, parent)
		grand.InsertAfter(hl, parent)
	}
	return true
}

// mergeSiblings absorbs same-colour marker neighbours into each marker,
// repeating passes until no marker has one left.
func mergeSiblings(hls []*doctree.Node) {
	for mergeOnce(hls) {
	}
}

func mergeOnce(hls []*doctree.Node) bool {
	again := false
	for _, hl := range hls {
		if hl.Parent == nil {
			continue
		}
		for absorbNeighbours(hl) {
			again = true
		}
		hl.NormalizeText()
	}
	return again
}

// absorbNeighbours merges hl's immediate same-colour marker siblings into
// it and reports whether it took any.
func absorbNeighbours(hl *doctree.Node) bool {
	merged := false
	if prev := hl.PrevSibling; shouldMerge(hl, prev) {
		hl.PrependChildren(prev)
		prev.Remove()
		merged = true
	}
	if next := hl.NextSibling; shouldMerge(hl, next) {
		hl.AppendChildren(next)
		next.Remove()
		merged = true
	}
	return merged
}

func shouldMerge(current, n *doctree.Node) bool {
	return n.IsMarker() && haveSameColor(current, n)
}

// finalize drops detached markers and duplicates and orders the rest by
// document position.
func finalize(hls []*doctree.Node) []*doctree.Node {
	seen := make(map[*doctree.Node]bool, len(hls))
	var out []*doctree.Node
	for _, hl := range hls {
		if hl.Parent == nil || seen[hl] {
			continue
		}
		seen[hl] = true
		out = append(out, hl)
	}
	sortDocumentOrder(out)
	return out
}

func sortDocumentOrder(nodes []*doctree.Node) {
	if len(nodes) < 2 {
		return
	}
	order := doctree.DocumentOrder(nodes[0].Root())
	position := func(n *doctree.Node) int {
		if i, ok := order[n]; ok {
			return i
		}
		return len(order)
	}
	slices.SortStableFunc(nodes, func(a, b *doctree.Node) int {
		return cmp.Compare(position(a), position(b))
	})
}

// sortByDepth orders nodes by tree depth, deepest first when descending.
// Nodes at equal depth keep their relative order.
func sortByDepth(nodes []*doctree.Node, descending bool) {
	depth := make(map[*doctree.Node]int, len(nodes))
	for _, n := range nodes {
		depth[n] = n.Depth()
	}
	slices.SortStableFunc(nodes, func(a, b *doctree.Node) int {
		if descending {
			return cmp.Compare(depth[b], depth[a])
		}
		return cmp.Compare(depth[a], depth[b])
	})
}
