package highlight

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dgallion1/texthl/internal/doctree"
)

func TestDescriptors_Shape(t *testing.T) {
	h := newTestHighlighter(t, "<p>Hello <b>world</b>!</p>")
	batchID := highlightText(t, h, 2, 8)

	descs, err := h.Descriptors()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(descs) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(descs))
	}

	want := []Descriptor{
		{Text: "llo ", Path: "0:1", Offset: 2, Length: 4},
		{Text: "wo", Path: "0:2:0", Offset: 0, Length: 2},
	}
	for i := range descs {
		descs[i].Template = ""
	}
	if diff := cmp.Diff(want, descs); diff != "" {
		t.Errorf("descriptors mismatch (-want +got):\n%s", diff)
	}

	descs, _ = h.Descriptors()
	tmpl := descs[0].Template
	if !strings.HasPrefix(tmpl, "<span ") || !strings.HasSuffix(tmpl, "></span>") {
		t.Errorf("expected an empty span template, got %q", tmpl)
	}
	if !strings.Contains(tmpl, `data-highlighted="true"`) {
		t.Errorf("expected template to carry the marker flag, got %q", tmpl)
	}
	if !strings.Contains(tmpl, `data-timestamp="`) || MarkerBatch(h.Highlights(QueryOptions{})[0]) != batchID {
		t.Errorf("expected template to carry batch %d, got %q", batchID, tmpl)
	}
}

func TestSerialize_TupleEncoding(t *testing.T) {
	h := newTestHighlighter(t, "<p>a &lt;b&gt; c</p>")
	highlightText(t, h, 2, 5)

	data, err := h.Serialize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var raw [][]any
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		t.Fatalf("expected a JSON array of arrays, got %q: %v", data, err)
	}
	if len(raw) != 1 || len(raw[0]) != 5 {
		t.Fatalf("expected one 5-tuple, got %v", raw)
	}
	if raw[0][1] != "<b>" {
		t.Errorf("expected text %q, got %v", "<b>", raw[0][1])
	}
	if strings.Contains(data, `\u003c`) {
		t.Errorf("expected markup to be written unescaped, got %q", data)
	}
}

func TestSerialize_Empty(t *testing.T) {
	h := newTestHighlighter(t, "<p>nothing</p>")
	data, err := h.Serialize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data != "[]" {
		t.Errorf("expected %q, got %q", "[]", data)
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	const markup = "<p>Hello <b>world</b>!</p><p>second paragraph here</p>"

	cases := []struct {
		name  string
		apply func(h *Highlighter)
	}{
		{"straddling", func(h *Highlighter) {
			span, _ := SpanFromTextOffsets(h.Anchor(), 2, 8)
			h.DoHighlight(&span, false)
		}},
		{"two in one leaf", func(h *Highlighter) {
			for _, r := range [][2]int{{12, 18}, {26, 30}} {
				span, _ := SpanFromTextOffsets(h.Anchor(), r[0], r[1])
				h.DoHighlight(&span, false)
			}
		}},
		{"nested colours", func(h *Highlighter) {
			span, _ := SpanFromTextOffsets(h.Anchor(), 12, 30)
			h.DoHighlight(&span, false)
			h.SetColor("red")
			span, _ = SpanFromTextOffsets(h.Anchor(), 16, 22)
			h.DoHighlight(&span, false)
		}},
		{"starts on a space", func(h *Highlighter) {
			span, _ := SpanFromTextOffsets(h.Anchor(), 5, 8)
			h.DoHighlight(&span, false)
		}},
		{"space inside an existing marker", func(h *Highlighter) {
			span, _ := SpanFromTextOffsets(h.Anchor(), 12, 30)
			h.DoHighlight(&span, false)
			h.SetColor("red")
			span, _ = SpanFromTextOffsets(h.Anchor(), 18, 25)
			h.DoHighlight(&span, false)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := newTestHighlighter(t, markup)
			tc.apply(src)
			data, err := src.Serialize()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			dst := newTestHighlighter(t, markup)
			restored, err := dst.Deserialize(data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(restored) != len(src.Highlights(QueryOptions{})) {
				t.Errorf("expected %d markers, got %d", len(src.Highlights(QueryOptions{})), len(restored))
			}

			want := doctree.InnerHTML(src.Anchor())
			got := doctree.InnerHTML(dst.Anchor())
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("restored markup mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func assertSingleLeaves(t *testing.T, n *doctree.Node) {
	t.Helper()
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.IsText() && c.NextSibling.IsText() {
			t.Errorf("expected no adjacent text leaves, got %q then %q", c.Data, c.NextSibling.Data)
		}
		assertSingleLeaves(t, c)
	}
}

func TestDoHighlight_SplitFragmentsRejoined(t *testing.T) {
	h := newTestHighlighter(t, "<p>alpha beta <i>gamma</i></p>")
	highlightText(t, h, 6, 16)
	h.SetColor("red")
	highlightText(t, h, 10, 13)

	assertSingleLeaves(t, h.Anchor())
	for _, m := range h.Highlights(QueryOptions{}) {
		if m.ChildCount() != 1 {
			t.Errorf("expected one text leaf in %q, got %d children", m.TextContent(), m.ChildCount())
		}
	}
	if got := h.Anchor().TextContent(); got != "alpha beta gamma" {
		t.Errorf("expected text to be preserved, got %q", got)
	}
}

func TestDoHighlight_BlankStartLeavesParentIntact(t *testing.T) {
	h := newTestHighlighter(t, "<p>Hello <b>world</b>!</p>")
	highlightText(t, h, 5, 8)

	p := h.Anchor().FirstChild
	if first := p.FirstChild; !first.IsText() || first.Data != "Hello " {
		t.Errorf("expected leading leaf %q, got %q", "Hello ", first.Data)
	}
	if got := p.ChildCount(); got != 3 {
		t.Errorf("expected 3 children in paragraph, got %d", got)
	}
}

func TestDeserialize_EmptyInput(t *testing.T) {
	h := newTestHighlighter(t, "<p>x</p>")
	for _, in := range []string{"", "   "} {
		markers, err := h.Deserialize(in)
		if err != nil || markers != nil {
			t.Errorf("expected nil, nil for %q, got %v, %v", in, markers, err)
		}
	}
}

func TestDeserialize_MalformedJSON(t *testing.T) {
	h := newTestHighlighter(t, "<p>x</p>")
	for _, in := range []string{"{", `[["a","b"]]`, `[[1,2,3,4,5]]`} {
		_, err := h.Deserialize(in)
		var serr *SerializationError
		if !errors.As(err, &serr) {
			t.Errorf("expected SerializationError for %q, got %v", in, err)
		}
	}
}

func TestRestore_SkipsBadDescriptors(t *testing.T) {
	h := newTestHighlighter(t, "<p>Hello world</p>")
	tmpl := doctree.OuterHTML(CreateWrapper(DefaultColor, DefaultHighlightedClass))

	descs := []Descriptor{
		{Template: tmpl, Text: "Hello", Path: "0:x", Offset: 0, Length: 5},
		{Template: tmpl, Text: "Hello", Path: "4:0", Offset: 0, Length: 5},
		{Template: tmpl, Text: "Hello", Path: "0:0", Offset: 8, Length: 5},
		{Template: tmpl, Text: "Howdy", Path: "0:0", Offset: 0, Length: 5},
		{Template: tmpl, Text: "world", Path: "0:0", Offset: 6, Length: 5},
	}
	markers, errs := h.Restore(descs)

	if len(markers) != 1 || markers[0].TextContent() != "world" {
		t.Fatalf("expected only \"world\" to be restored, got %d markers", len(markers))
	}
	if !markers[0].IsMarker() {
		t.Error("expected restored wrapper to be flagged as a marker")
	}

	wantCauses := []error{ErrBadPath, ErrNodeNotFound, ErrOffsetRange, ErrTextMismatch}
	if len(errs) != len(wantCauses) {
		t.Fatalf("expected %d errors, got %d: %v", len(wantCauses), len(errs), errs)
	}
	for i, want := range wantCauses {
		var rerr *ReconstructionError
		if !errors.As(errs[i], &rerr) {
			t.Errorf("error %d: expected ReconstructionError, got %T", i, errs[i])
			continue
		}
		if rerr.Index != i {
			t.Errorf("error %d: expected index %d, got %d", i, i, rerr.Index)
		}
		if !errors.Is(errs[i], want) {
			t.Errorf("error %d: expected %v, got %v", i, want, errs[i])
		}
	}

	if got := h.Anchor().TextContent(); got != "Hello world" {
		t.Errorf("expected text to be untouched, got %q", got)
	}
}

func TestRestore_NotText(t *testing.T) {
	h := newTestHighlighter(t, "<p><b>bold</b></p>")
	tmpl := doctree.OuterHTML(CreateWrapper(DefaultColor, DefaultHighlightedClass))

	_, errs := h.Restore([]Descriptor{{Template: tmpl, Text: "bold", Path: "0:0", Offset: 0, Length: 4}})
	if len(errs) != 1 || !errors.Is(errs[0], ErrNotText) {
		t.Errorf("expected ErrNotText, got %v", errs)
	}
}

func TestDescriptor_UnmarshalJSON(t *testing.T) {
	var d Descriptor
	in := `["<span class=\"highlighted\"></span>","abc","0:1:2",3,3]`
	if err := json.Unmarshal([]byte(in), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Descriptor{Template: `<span class="highlighted"></span>`, Text: "abc", Path: "0:1:2", Offset: 3, Length: 3}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("descriptor mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"0", []int{0}, false},
		{"3:0:12", []int{3, 0, 12}, false},
		{"", nil, true},
		{"1::2", nil, true},
		{"-1", nil, true},
	}
	for _, tt := range tests {
		got, err := ParsePath(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePath(%q): expected error %v, got %v", tt.in, tt.wantErr, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParsePath(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}
