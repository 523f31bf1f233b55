package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/texthl/internal/doctree"
)

func TestHTMLParser_KeepsBodyMarkup(t *testing.T) {
	input := `<html><head><title> Report </title></head><body><p>Hello <b>world</b>!</p></body></html>`
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "report.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "Report" {
		t.Errorf("expected title %q, got %q", "Report", doc.Title)
	}
	if got := doctree.InnerHTML(doc.Root); got != "<p>Hello <b>world</b>!</p>" {
		t.Errorf("expected body markup to be kept, got %q", got)
	}
}

func TestHTMLParser_RecognisesMarkers(t *testing.T) {
	input := `<p>a<span data-highlighted="true" data-timestamp="1">b</span>c</p>`
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "page.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "page" {
		t.Errorf("expected title %q, got %q", "page", doc.Title)
	}
	span := doc.Root.FirstChild.ChildAt(1)
	if !span.IsMarker() {
		t.Error("expected the exported span to be a marker")
	}
}

func TestCSVParser_Table(t *testing.T) {
	input := "name,age\nalice,30\nbob,41,extra\n"
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(input), "people.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<table><thead><tr><th>name</th><th>age</th></tr></thead>" +
		"<tbody><tr><td>alice</td><td>30</td></tr><tr><td>bob</td><td>41</td><td>extra</td></tr></tbody></table>"
	if got := doctree.InnerHTML(doc.Root); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCSVParser_HeaderOnly(t *testing.T) {
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader("a,b\n"), "h.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doctree.InnerHTML(doc.Root); got != "<table><thead><tr><th>a</th><th>b</th></tr></thead></table>" {
		t.Errorf("unexpected markup %q", got)
	}
}

func TestAppendPages(t *testing.T) {
	root := doctree.NewElement(AnchorTag)
	appendPages(root, "first para\n\nsecond para\f\f  third  ")

	if n := root.ChildCount(); n != 2 {
		t.Fatalf("expected 2 sections, got %d", n)
	}
	first := root.ChildAt(0)
	if v, _ := first.Attr("data-page"); v != "1" {
		t.Errorf("expected page 1, got %q", v)
	}
	if n := first.ChildCount(); n != 2 {
		t.Errorf("expected 2 paragraphs on page 1, got %d", n)
	}
	last := root.ChildAt(1)
	if v, _ := last.Attr("data-page"); v != "3" {
		t.Errorf("expected empty page 2 to be skipped, got page %q", v)
	}
	if got := last.TextContent(); got != "third" {
		t.Errorf("expected %q, got %q", "third", got)
	}
}

func TestForFile(t *testing.T) {
	for _, name := range []string{"a.txt", "b.MD", "c.markdown", "d.csv", "e.html", "f.htm", "g.pdf", "h.docx"} {
		if _, err := ForFile(name); err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
		}
		if !IsSupportedExtension(name) {
			t.Errorf("%s: expected extension to be supported", name)
		}
	}
	if _, err := ForFile("x.exe"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
