package doctree

import (
	"fmt"
	"unicode/utf8"
)

// AppendChild adds c as the last child of n, detaching it first if needed.
func (n *Node) AppendChild(c *Node) {
	n.InsertBefore(c, nil)
}

// InsertBefore inserts c as a child of n immediately before ref. A nil ref
// appends. ref must be a child of n.
func (n *Node) InsertBefore(c, ref *Node) {
	if c == ref {
		return
	}
	if c.Parent != nil {
		c.Remove()
	}
	var prev *Node
	if ref != nil {
		if ref.Parent != n {
			panic("doctree: InsertBefore reference is not a child")
		}
		prev = ref.PrevSibling
	} else {
		prev = n.LastChild
	}
	if prev != nil {
		prev.NextSibling = c
	} else {
		n.FirstChild = c
	}
	if ref != nil {
		ref.PrevSibling = c
	} else {
		n.LastChild = c
	}
	c.Parent = n
	c.PrevSibling = prev
	c.NextSibling = ref
}

// InsertAfter inserts c as a child of n immediately after ref.
func (n *Node) InsertAfter(c, ref *Node) {
	n.InsertBefore(c, ref.NextSibling)
}

// RemoveChild detaches c from n.
func (n *Node) RemoveChild(c *Node) {
	if c.Parent != n {
		panic("doctree: RemoveChild called for a non-child")
	}
	if n.FirstChild == c {
		n.FirstChild = c.NextSibling
	}
	if c.NextSibling != nil {
		c.NextSibling.PrevSibling = c.PrevSibling
	}
	if n.LastChild == c {
		n.LastChild = c.PrevSibling
	}
	if c.PrevSibling != nil {
		c.PrevSibling.NextSibling = c.NextSibling
	}
	c.Parent = nil
	c.PrevSibling = nil
	c.NextSibling = nil
}

// Remove detaches n from its parent. It is a no-op for detached nodes.
func (n *Node) Remove() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// ReplaceChild puts c where old was and detaches old.
func (n *Node) ReplaceChild(c, old *Node) {
	n.InsertBefore(c, old)
	n.RemoveChild(old)
}

// PrependChildren moves every child of from to the front of n, keeping order.
func (n *Node) PrependChildren(from *Node) {
	first := n.FirstChild
	for _, c := range from.Children() {
		n.InsertBefore(c, first)
	}
}

// AppendChildren moves every child of from to the end of n, keeping order.
func (n *Node) AppendChildren(from *Node) {
	for _, c := range from.Children() {
		n.AppendChild(c)
	}
}

// SplitText cuts a text leaf at a rune offset. n keeps the left part and the
// returned leaf, inserted right after n when n is attached, holds the right
// part. Either side may end up empty.
func (n *Node) SplitText(offset int) (*Node, error) {
	if n.Type != TextNode {
		return nil, ErrNotText
	}
	length := runeLen(n.Data)
	if offset < 0 || offset > length {
		return nil, fmt.Errorf("split at %d of %d: %w", offset, length, ErrOffsetOutOfRange)
	}
	cut := byteOffset(n.Data, offset)
	right := NewText(n.Data[cut:])
	n.Data = n.Data[:cut]
	if n.Parent != nil {
		n.Parent.InsertAfter(right, n)
	}
	return right, nil
}

// Wrap puts wrapper where n is and moves n inside it.
func Wrap(n, wrapper *Node) *Node {
	if n.Parent != nil {
		n.Parent.InsertBefore(wrapper, n)
	}
	wrapper.AppendChild(n)
	return wrapper
}

// Unwrap replaces el with its children and returns them.
func Unwrap(el *Node) []*Node {
	nodes := el.Children()
	if el.Parent != nil {
		for _, c := range nodes {
			el.Parent.InsertBefore(c, el)
		}
	}
	el.Remove()
	return nodes
}

// NormalizeText merges adjacent text leaves within n's subtree.
func (n *Node) NormalizeText() {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == TextNode {
			for c.NextSibling != nil && c.NextSibling.Type == TextNode {
				next := c.NextSibling
				c.Data += next.Data
				n.RemoveChild(next)
			}
			continue
		}
		c.NormalizeText()
	}
}

// MergeTextSiblings folds adjacent text siblings on both sides into the text
// leaf t.
func MergeTextSiblings(t *Node) {
	if t.Type != TextNode {
		return
	}
	if prev := t.PrevSibling; prev != nil && prev.Type == TextNode {
		t.Data = prev.Data + t.Data
		prev.Remove()
	}
	if next := t.NextSibling; next != nil && next.Type == TextNode {
		t.Data += next.Data
		next.Remove()
	}
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// byteOffset converts a rune offset within s into a byte offset.
func byteOffset(s string, runes int) int {
	if runes <= 0 {
		return 0
	}
	i := 0
	for pos := range s {
		if i == runes {
			return pos
		}
		i++
	}
	return len(s)
}
