package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/texthl/internal/doctree"
	"github.com/yuin/goldmark"
)

// MarkdownParser handles Markdown files using goldmark. The rendered HTML
// is parsed into the tree so headings, emphasis and code keep their
// elements.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	nodes, err := doctree.ParseFragment(buf.String())
	if err != nil {
		return nil, err
	}

	doc := newDocument(trimExt(filename, ".md", ".markdown"))
	for _, n := range nodes {
		// goldmark separates blocks with newlines; they carry no content.
		if n.IsText() && strings.TrimSpace(n.Data) == "" {
			continue
		}
		doc.Root.AppendChild(n)
	}
	return doc, nil
}
