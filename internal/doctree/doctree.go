package doctree

import "errors"

// NodeType distinguishes element nodes from text leaves.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	}
	return "unknown"
}

var (
	ErrNotText          = errors.New("node is not a text leaf")
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrDetached         = errors.New("node is not attached under the reference node")
)

// Attr is a single string attribute on an element.
type Attr struct {
	Key string
	Val string
}

// Node is either an element (Tag, Attrs, children) or a text leaf (Data).
// Highlight markers are elements with Marker set.
type Node struct {
	Type   NodeType
	Tag    string // Lower-case element name; empty for text.
	Attrs  []Attr
	Data   string // Text content of a text leaf.
	Marker bool

	Parent      *Node
	FirstChild  *Node
	LastChild   *Node
	PrevSibling *Node
	NextSibling *Node
}

// Document is a loaded source document. Root is the anchor element that
// highlights are applied to.
type Document struct {
	Title string
	Root  *Node
}

// NewElement creates a detached element.
func NewElement(tag string, attrs ...Attr) *Node {
	n := &Node{Type: ElementNode, Tag: tag}
	if len(attrs) > 0 {
		n.Attrs = append([]Attr(nil), attrs...)
	}
	return n
}

// NewText creates a detached text leaf.
func NewText(s string) *Node {
	return &Node{Type: TextNode, Data: s}
}

func (n *Node) IsElement() bool { return n != nil && n.Type == ElementNode }

func (n *Node) IsText() bool { return n != nil && n.Type == TextNode }

// IsMarker reports whether n is a highlight marker element.
func (n *Node) IsMarker() bool { return n.IsElement() && n.Marker }

func (n *Node) HasChildren() bool { return n.FirstChild != nil }

// Children returns a snapshot of n's children. Mutating the tree does not
// affect the returned slice.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func (n *Node) ChildCount() int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

// ChildAt returns the i-th child or nil when i is out of range.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 {
		return nil
	}
	c := n.FirstChild
	for ; c != nil && i > 0; i-- {
		c = c.NextSibling
	}
	return c
}

// Index returns n's position among its parent's children, or -1 if detached.
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}
	i := 0
	for c := n.PrevSibling; c != nil; c = c.PrevSibling {
		i++
	}
	return i
}

// Len is the rune count of a text leaf, or the child count of an element.
func (n *Node) Len() int {
	if n.Type == TextNode {
		return runeLen(n.Data)
	}
	return n.ChildCount()
}

// Clone copies n. A deep clone copies the whole subtree; the clone is detached.
func (n *Node) Clone(deep bool) *Node {
	c := &Node{
		Type:   n.Type,
		Tag:    n.Tag,
		Data:   n.Data,
		Marker: n.Marker,
	}
	if len(n.Attrs) > 0 {
		c.Attrs = append([]Attr(nil), n.Attrs...)
	}
	if deep {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			c.AppendChild(child.Clone(true))
		}
	}
	return c
}
