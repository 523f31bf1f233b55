package highlight

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/texthl/internal/doctree"
)

// Descriptor is the persisted form of one marker. It encodes as the JSON
// array [template, text, path, offset, length].
type Descriptor struct {
	Template string // Marker open/close tags with the content stripped.
	Text     string
	Path     string // Colon-joined child indices from the anchor to the marker.
	Offset   int    // Rune length of the preceding sibling text leaf, else 0.
	Length   int    // Rune length of the marker's text.
}

func (d Descriptor) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode([]any{d.Template, d.Text, d.Path, d.Offset, d.Length}); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if len(fields) != 5 {
		return fmt.Errorf("descriptor has %d fields, want 5", len(fields))
	}
	targets := []any{&d.Template, &d.Text, &d.Path, &d.Offset, &d.Length}
	for i, target := range targets {
		if err := json.Unmarshal(fields[i], target); err != nil {
			return fmt.Errorf("descriptor field %d: %w", i, err)
		}
	}
	return nil
}

// EncodeDescriptors renders descriptors as the persisted JSON string.
func EncodeDescriptors(descs []Descriptor) (string, error) {
	if descs == nil {
		descs = []Descriptor{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(descs); err != nil {
		return "", fmt.Errorf("encode descriptors: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// DecodeDescriptors parses the persisted JSON string.
func DecodeDescriptors(data string) ([]Descriptor, error) {
	var descs []Descriptor
	if err := json.Unmarshal([]byte(data), &descs); err != nil {
		return nil, &SerializationError{Err: err}
	}
	return descs, nil
}

// Descriptors describes every marker under the anchor, shallowest first.
// Deserialization relies on that order.
func (h *Highlighter) Descriptors() ([]Descriptor, error) {
	markers := h.Highlights(QueryOptions{})
	sortByDepth(markers, false)

	descs := make([]Descriptor, 0, len(markers))
	for _, m := range markers {
		path, err := doctree.Path(h.anchor, m)
		if err != nil {
			return nil, fmt.Errorf("marker path: %w", err)
		}
		offset := 0
		if prev := m.PrevSibling; prev.IsText() {
			offset = prev.Len()
		}
		text := m.TextContent()
		descs = append(descs, Descriptor{
			Template: doctree.OuterHTML(m.Clone(false)),
			Text:     text,
			Path:     FormatPath(path),
			Offset:   offset,
			Length:   utf8.RuneCountInString(text),
		})
	}
	return descs, nil
}

// Serialize returns the persisted form of every marker under the anchor.
func (h *Highlighter) Serialize() (string, error) {
	descs, err := h.Descriptors()
	if err != nil {
		return "", err
	}
	return EncodeDescriptors(descs)
}

// Deserialize restores markers from a persisted descriptor string. Malformed
// JSON fails the whole call with a *SerializationError. A descriptor that
// cannot be restored is logged and skipped.
func (h *Highlighter) Deserialize(data string) ([]*doctree.Node, error) {
	if strings.TrimSpace(data) == "" {
		return nil, nil
	}
	descs, err := DecodeDescriptors(data)
	if err != nil {
		return nil, err
	}
	markers, _ := h.Restore(descs)
	return markers, nil
}

// Restore applies descriptors strictly in order. Each restore changes the
// sibling layout the following entries resolve against. Failures are
// returned as *ReconstructionError values alongside the restored markers.
func (h *Highlighter) Restore(descs []Descriptor) ([]*doctree.Node, []error) {
	var markers []*doctree.Node
	var errs []error
	for i, d := range descs {
		m, err := h.restoreOne(d)
		if err != nil {
			rerr := &ReconstructionError{Index: i, Path: d.Path, Err: err}
			h.log.Warn("skipping highlight descriptor", "index", i, "path", d.Path, "error", err)
			errs = append(errs, rerr)
			continue
		}
		markers = append(markers, m)
	}
	return markers, errs
}

func (h *Highlighter) restoreOne(d Descriptor) (*doctree.Node, error) {
	path, err := ParsePath(d.Path)
	if err != nil {
		return nil, err
	}
	parent, err := doctree.Resolve(h.anchor, path[:len(path)-1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNodeNotFound, err)
	}

	index := path[len(path)-1]
	// Earlier restores may have merged the preceding text into this slot.
	if prev := parent.ChildAt(index - 1); prev.IsText() {
		index--
	}
	target := parent.ChildAt(index)
	if target == nil {
		return nil, fmt.Errorf("%w: no child %d", ErrNodeNotFound, index)
	}
	if !target.IsText() {
		return nil, ErrNotText
	}
	if d.Offset < 0 || d.Length < 0 || d.Offset+d.Length > target.Len() {
		return nil, fmt.Errorf("%w: offset %d length %d in %d characters", ErrOffsetRange, d.Offset, d.Length, target.Len())
	}
	if got := substring(target.Data, d.Offset, d.Length); got != d.Text {
		return nil, fmt.Errorf("%w: found %q, want %q", ErrTextMismatch, got, d.Text)
	}
	wrapper, err := parseTemplate(d.Template)
	if err != nil {
		return nil, err
	}

	hl, err := target.SplitText(d.Offset)
	if err != nil {
		return nil, err
	}
	tail, err := hl.SplitText(d.Length)
	if err != nil {
		return nil, err
	}
	if tail.Data == "" {
		tail.Remove()
	}
	if target.Data == "" {
		target.Remove()
	}
	return doctree.Wrap(hl, wrapper), nil
}

func parseTemplate(markup string) (*doctree.Node, error) {
	nodes, err := doctree.ParseFragment(markup)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadTemplate, err)
	}
	if len(nodes) != 1 || !nodes[0].IsElement() {
		return nil, ErrBadTemplate
	}
	wrapper := nodes[0]
	for c := wrapper.FirstChild; c != nil; c = wrapper.FirstChild {
		c.Remove()
	}
	wrapper.Marker = true
	return wrapper, nil
}

// FormatPath renders an index path in descriptor form, e.g. "0:2:1".
func FormatPath(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ":")
}

// ParsePath is the inverse of FormatPath.
func ParsePath(s string) ([]int, error) {
	if s == "" {
		return nil, ErrBadPath
	}
	parts := strings.Split(s, ":")
	path := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q", ErrBadPath, s)
		}
		path[i] = n
	}
	return path, nil
}

func substring(s string, offset, length int) string {
	runes := []rune(s)
	return string(runes[offset : offset+length])
}
