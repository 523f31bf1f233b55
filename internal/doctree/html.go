package doctree

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MarkerAttr is the attribute that flags a highlight marker in HTML form.
const MarkerAttr = "data-highlighted"

// FromHTML converts an x/net/html subtree. Comments, doctypes and other
// non-content nodes are dropped; nil is returned for such a root.
func FromHTML(h *html.Node) *Node {
	var n *Node
	switch h.Type {
	case html.TextNode:
		return NewText(h.Data)
	case html.ElementNode:
		n = NewElement(h.Data)
		for _, a := range h.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			if key == MarkerAttr {
				n.Marker = true
				continue
			}
			n.Attrs = append(n.Attrs, Attr{Key: key, Val: a.Val})
		}
	case html.DocumentNode:
		n = NewElement("")
	default:
		return nil
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if child := FromHTML(c); child != nil {
			n.AppendChild(child)
		}
	}
	return n
}

// ToHTML converts n and its subtree into an x/net/html tree.
func ToHTML(n *Node) *html.Node {
	if n.Type == TextNode {
		return &html.Node{Type: html.TextNode, Data: n.Data}
	}
	h := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	for _, a := range n.Attrs {
		h.Attr = append(h.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	if n.Marker {
		h.Attr = append(h.Attr, html.Attribute{Key: MarkerAttr, Val: "true"})
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		h.AppendChild(ToHTML(c))
	}
	return h
}

// Render writes n as HTML.
func Render(w io.Writer, n *Node) error {
	return html.Render(w, ToHTML(n))
}

// OuterHTML renders n including its own tags.
func OuterHTML(n *Node) string {
	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// InnerHTML renders n's children.
func InnerHTML(n *Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}

// Parse reads an HTML document and returns its <body> converted into a tree.
func Parse(r io.Reader) (*Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	body := FindBody(doc)
	if body == nil {
		return nil, fmt.Errorf("parse html: no body element")
	}
	return FromHTML(body), nil
}

// ParseFragment parses markup as the content of a <div>.
func ParseFragment(markup string) ([]*Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	var out []*Node
	for _, h := range nodes {
		if n := FromHTML(h); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

// FindBody returns the first <body> element of an HTML tree.
func FindBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := FindBody(c); b != nil {
			return b
		}
	}
	return nil
}

// FindTitle returns the text of the first <title> element in an HTML tree.
func FindTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
		return strings.TrimSpace(sb.String())
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := FindTitle(c); t != "" {
			return t
		}
	}
	return ""
}
