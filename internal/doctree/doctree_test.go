package doctree

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, markup string) *Node {
	t.Helper()
	body, err := Parse(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return body
}

func TestSplitText_Interior(t *testing.T) {
	p := NewElement("p")
	text := NewText("Hello")
	p.AppendChild(text)

	right, err := text.SplitText(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text.Data != "He" || right.Data != "llo" {
		t.Errorf("expected %q + %q, got %q + %q", "He", "llo", text.Data, right.Data)
	}
	if text.NextSibling != right || right.Parent != p {
		t.Error("expected right part to be inserted after the left part")
	}
}

func TestSplitText_CountsRunes(t *testing.T) {
	text := NewText("héllo wörld")
	right, err := text.SplitText(7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text.Data != "héllo w" || right.Data != "örld" {
		t.Errorf("expected rune split, got %q + %q", text.Data, right.Data)
	}
}

func TestSplitText_Edges(t *testing.T) {
	text := NewText("abc")
	right, err := text.SplitText(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if right.Data != "" || text.Data != "abc" {
		t.Errorf("expected empty right part, got %q + %q", text.Data, right.Data)
	}

	if _, err := text.SplitText(4); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
	if _, err := NewElement("p").SplitText(0); !errors.Is(err, ErrNotText) {
		t.Errorf("expected ErrNotText, got %v", err)
	}
}

func TestWrapUnwrap_RestoresStructure(t *testing.T) {
	body := mustParse(t, "<p>one<b>two</b>three</p>")
	p := body.FirstChild
	two := p.ChildAt(1).FirstChild

	span := Wrap(two, NewElement("span"))
	if got := InnerHTML(p); got != "one<b><span>two</span></b>three" {
		t.Errorf("unexpected markup after wrap: %q", got)
	}

	nodes := Unwrap(span)
	if len(nodes) != 1 || nodes[0] != two {
		t.Fatalf("expected the wrapped leaf back, got %v", nodes)
	}
	if got := InnerHTML(p); got != "one<b>two</b>three" {
		t.Errorf("unexpected markup after unwrap: %q", got)
	}
}

func TestNormalizeText_MergesAdjacentLeaves(t *testing.T) {
	p := NewElement("p")
	p.AppendChild(NewText("a"))
	p.AppendChild(NewText("b"))
	b := NewElement("b")
	b.AppendChild(NewText("c"))
	b.AppendChild(NewText("d"))
	p.AppendChild(b)
	p.AppendChild(NewText("e"))

	p.NormalizeText()

	if p.ChildCount() != 3 {
		t.Fatalf("expected 3 children, got %d", p.ChildCount())
	}
	if p.FirstChild.Data != "ab" {
		t.Errorf("expected %q, got %q", "ab", p.FirstChild.Data)
	}
	if b.ChildCount() != 1 || b.FirstChild.Data != "cd" {
		t.Errorf("expected nested leaves merged into %q, got %q", "cd", b.TextContent())
	}
}

func TestMergeTextSiblings(t *testing.T) {
	p := NewElement("p")
	p.AppendChild(NewText("x"))
	mid := NewText("y")
	p.AppendChild(mid)
	p.AppendChild(NewText("z"))

	MergeTextSiblings(mid)

	if p.ChildCount() != 1 || mid.Data != "xyz" {
		t.Errorf("expected single leaf %q, got %d children %q", "xyz", p.ChildCount(), p.TextContent())
	}
}

func TestPathResolve_RoundTrip(t *testing.T) {
	body := mustParse(t, "<div><p>a</p><p>b<i>c</i></p></div>")
	target := body.FirstChild.ChildAt(1).ChildAt(1).FirstChild

	path, err := Path(body, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]int{0, 1, 1, 0}, path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}

	got, err := Resolve(body, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != target {
		t.Errorf("expected resolve to return the original node, got %q", got.TextContent())
	}

	if _, err := Resolve(body, []int{0, 5}); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
	if _, err := Path(body, NewText("loose")); !errors.Is(err, ErrDetached) {
		t.Errorf("expected ErrDetached, got %v", err)
	}
}

func TestCommonAncestorAndContains(t *testing.T) {
	body := mustParse(t, "<p>Hello <b>world</b>!</p>")
	p := body.FirstChild
	hello := p.FirstChild
	world := p.ChildAt(1).FirstChild

	if got := CommonAncestor(hello, world); got != p {
		t.Errorf("expected <p> as common ancestor, got %v", got.Tag)
	}
	if !body.Contains(world) {
		t.Error("expected body to contain nested text")
	}
	if p.Contains(p) {
		t.Error("expected Contains to exclude the node itself")
	}
}

func TestFromHTML_MarkerAttribute(t *testing.T) {
	nodes, err := ParseFragment(`<span class="highlighted" data-highlighted="true" data-timestamp="7"></span>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	span := nodes[0]
	if !span.IsMarker() {
		t.Error("expected data-highlighted to set Marker")
	}
	if span.HasAttr(MarkerAttr) {
		t.Error("expected marker flag to live on the node, not in Attrs")
	}
	if got := OuterHTML(span); got != `<span class="highlighted" data-timestamp="7" data-highlighted="true"></span>` {
		t.Errorf("unexpected rendering: %q", got)
	}
}

func TestClasses(t *testing.T) {
	n := NewElement("div")
	n.AddClass("a")
	n.AddClass("b")
	n.AddClass("a")
	if v, _ := n.Attr("class"); v != "a b" {
		t.Errorf("expected %q, got %q", "a b", v)
	}
	n.RemoveClass("a")
	n.RemoveClass("b")
	if n.HasAttr("class") {
		t.Error("expected empty class attribute to be removed")
	}
}

func TestStyle(t *testing.T) {
	n := NewElement("span", Attr{Key: "style", Val: "color: red; background-color: #fff;"})
	if got := n.Style("background-color"); got != "#fff" {
		t.Errorf("expected %q, got %q", "#fff", got)
	}
	n.SetStyle("background-color", "blue")
	if v, _ := n.Attr("style"); v != "color: red; background-color: blue;" {
		t.Errorf("unexpected style %q", v)
	}
	n.SetStyle("font-weight", "bold")
	if got := n.Style("font-weight"); got != "bold" {
		t.Errorf("expected %q, got %q", "bold", got)
	}
}

func TestClone_DeepIsDetached(t *testing.T) {
	body := mustParse(t, "<p id=x>a<b>b</b></p>")
	p := body.FirstChild
	c := p.Clone(true)
	if c.Parent != nil {
		t.Error("expected clone to be detached")
	}
	if OuterHTML(c) != OuterHTML(p) {
		t.Errorf("expected identical markup, got %q vs %q", OuterHTML(c), OuterHTML(p))
	}
	c.SetAttr("id", "y")
	if v, _ := p.Attr("id"); v != "x" {
		t.Error("expected clone attrs to be independent")
	}
	if p.Clone(false).HasChildren() {
		t.Error("expected shallow clone to have no children")
	}
}
