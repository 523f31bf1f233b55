package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/texthl/internal/doctree"
)

func childTags(n *doctree.Node) []string {
	var tags []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.IsElement() {
			tags = append(tags, c.Tag)
		}
	}
	return tags
}

func TestMarkdownParser_BlockStructure(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "doc" {
		t.Errorf("expected title %q, got %q", "doc", doc.Title)
	}

	tags := childTags(doc.Root)
	want := []string{"h1", "p", "h2", "p"}
	if strings.Join(tags, ",") != strings.Join(want, ",") {
		t.Fatalf("expected blocks %v, got %v", want, tags)
	}
	if got := doc.Root.FirstChild.TextContent(); got != "Title" {
		t.Errorf("expected heading %q, got %q", "Title", got)
	}
	if doc.Root.ChildCount() != len(want) {
		t.Errorf("expected blank separators to be dropped, got %d children", doc.Root.ChildCount())
	}
}

func TestMarkdownParser_InlineElements(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader("Some *emphasis* and `code`."), "inline.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	para := doc.Root.FirstChild
	if para == nil || para.Tag != "p" {
		t.Fatalf("expected a paragraph, got %v", para)
	}
	tags := childTags(para)
	if strings.Join(tags, ",") != "em,code" {
		t.Errorf("expected inline elements [em code], got %v", tags)
	}
	if got := para.TextContent(); got != "Some emphasis and code." {
		t.Errorf("expected %q, got %q", "Some emphasis and code.", got)
	}
}

func TestMarkdownParser_CodeBlock(t *testing.T) {
	input := "List of endpoints:\n\n```\nGET /api/users\nPOST /api/users\n```\n"

	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "api.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(doc.Root.TextContent(), "GET /api/users") {
		t.Errorf("expected code block content in text, got %q", doc.Root.TextContent())
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Root.HasChildren() {
		t.Errorf("expected no children for empty input, got %d", doc.Root.ChildCount())
	}
}

func TestMarkdownParser_TitleStripping(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"readme.md", "readme"},
		{"notes.markdown", "notes"},
		{"plain.md", "plain"},
	}
	p := &MarkdownParser{}
	for _, tt := range tests {
		doc, err := p.Parse(strings.NewReader("text"), tt.filename)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", tt.filename, err)
		}
		if doc.Title != tt.want {
			t.Errorf("filename=%q: expected title %q, got %q", tt.filename, tt.want, doc.Title)
		}
	}
}
