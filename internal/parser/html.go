package parser

import (
	"fmt"
	"io"

	"github.com/dgallion1/texthl/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. The body content is kept as-is, including
// markers left by an earlier export.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := newDocument(trimExt(filename, ".html", ".htm"))
	if title := doctree.FindTitle(root); title != "" {
		doc.Title = title
	}

	body := doctree.FindBody(root)
	if body == nil {
		return doc, nil
	}
	doc.Root.AppendChildren(doctree.FromHTML(body))
	return doc, nil
}
