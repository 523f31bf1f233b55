package doctree

import (
	"fmt"
	"strings"
)

// TextContent concatenates the text of every leaf under n in document order.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Data
	}
	var sb strings.Builder
	n.Walk(func(c *Node) bool {
		if c.Type == TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the visited node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		c.Walk(fn)
		c = next
	}
}

// FindAll returns the descendants of n (excluding n) matching pred, in
// document order.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		c.Walk(func(d *Node) bool {
			if pred(d) {
				out = append(out, d)
			}
			return true
		})
	}
	return out
}

// Depth is the number of ancestors above n.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// Root returns the topmost ancestor of n (n itself when detached).
func (n *Node) Root() *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Contains reports whether other is a strict descendant of n.
func (n *Node) Contains(other *Node) bool {
	if other == nil {
		return false
	}
	for p := other.Parent; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// CommonAncestor returns the deepest node that is a or b or contains both.
func CommonAncestor(a, b *Node) *Node {
	seen := make(map[*Node]bool)
	for p := a; p != nil; p = p.Parent {
		seen[p] = true
	}
	for p := b; p != nil; p = p.Parent {
		if seen[p] {
			return p
		}
	}
	return nil
}

// Path returns the child indices leading from anchor down to n.
func Path(anchor, n *Node) ([]int, error) {
	var path []int
	for cur := n; cur != anchor; cur = cur.Parent {
		if cur == nil || cur.Parent == nil {
			return nil, ErrDetached
		}
		path = append(path, cur.Index())
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// Resolve descends child indices from anchor.
func Resolve(anchor *Node, path []int) (*Node, error) {
	n := anchor
	for depth, idx := range path {
		c := n.ChildAt(idx)
		if c == nil {
			return nil, fmt.Errorf("no child %d at depth %d: %w", idx, depth, ErrOffsetOutOfRange)
		}
		n = c
	}
	return n, nil
}

// DocumentOrder numbers every node under root in pre-order.
func DocumentOrder(root *Node) map[*Node]int {
	order := make(map[*Node]int)
	i := 0
	root.Walk(func(n *Node) bool {
		order[n] = i
		i++
		return true
	})
	return order
}
