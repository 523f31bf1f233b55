// Package highlight marks spans of rendered text in a document tree as
// highlights, normalizes the resulting markers and persists them as
// index-path descriptors.
package highlight

import (
	"log/slog"

	"github.com/dgallion1/texthl/internal/doctree"
)

const (
	DefaultColor            = "#ffff7b"
	DefaultHighlightedClass = "highlighted"
	DefaultContextClass     = "highlighter-context"
)

// Options configures a Highlighter.
type Options struct {
	Color            string
	HighlightedClass string
	ContextClass     string
	// BindEvents makes Select trigger Handler, the way releasing a
	// selection gesture would.
	BindEvents  bool
	IgnoredTags []string

	// Handler runs when a bound selection completes. Defaults to
	// highlighting the selection.
	Handler func(Span)
	// OnBeforeHighlight can veto a highlight by returning false.
	OnBeforeHighlight func(Span) bool
	// OnAfterHighlight receives the normalized markers and their batch id.
	OnAfterHighlight func(Span, []*doctree.Node, int64)
	// OnRemoveHighlight can veto removal of one marker by returning false.
	OnRemoveHighlight func(*doctree.Node) bool

	Finder Finder
	Logger *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

func WithColor(color string) Option {
	return func(o *Options) { o.Color = color }
}

func WithHighlightedClass(class string) Option {
	return func(o *Options) { o.HighlightedClass = class }
}

func WithContextClass(class string) Option {
	return func(o *Options) { o.ContextClass = class }
}

func WithBindEvents(bind bool) Option {
	return func(o *Options) { o.BindEvents = bind }
}

func WithIgnoredTags(tags ...string) Option {
	return func(o *Options) { o.IgnoredTags = tags }
}

func WithHandler(fn func(Span)) Option {
	return func(o *Options) { o.Handler = fn }
}

func WithBeforeHighlight(fn func(Span) bool) Option {
	return func(o *Options) { o.OnBeforeHighlight = fn }
}

func WithAfterHighlight(fn func(Span, []*doctree.Node, int64)) Option {
	return func(o *Options) { o.OnAfterHighlight = fn }
}

func WithRemoveHighlight(fn func(*doctree.Node) bool) Option {
	return func(o *Options) { o.OnRemoveHighlight = fn }
}

func WithFinder(f Finder) Option {
	return func(o *Options) { o.Finder = f }
}

func WithLogger(log *slog.Logger) Option {
	return func(o *Options) { o.Logger = log }
}

// DefaultOptions returns the options New starts from.
func DefaultOptions() Options {
	return Options{
		Color:             DefaultColor,
		HighlightedClass:  DefaultHighlightedClass,
		ContextClass:      DefaultContextClass,
		BindEvents:        true,
		IgnoredTags:       DefaultIgnoredTags,
		OnBeforeHighlight: func(Span) bool { return true },
		OnAfterHighlight:  func(Span, []*doctree.Node, int64) {},
		OnRemoveHighlight: func(*doctree.Node) bool { return true },
	}
}

// Highlighter applies highlights to the subtree under one anchor element.
// It is not safe for concurrent use; callers serialize access per tree.
type Highlighter struct {
	anchor    *doctree.Node
	opts      Options
	ignored   map[string]bool
	log       *slog.Logger
	selection *Span
	bound     bool
}

// New binds a highlighter to anchor and marks it with the context class.
func New(anchor *doctree.Node, opts ...Option) (*Highlighter, error) {
	if anchor == nil || !anchor.IsElement() {
		return nil, ErrMissingAnchor
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.OnBeforeHighlight == nil {
		o.OnBeforeHighlight = func(Span) bool { return true }
	}
	if o.OnAfterHighlight == nil {
		o.OnAfterHighlight = func(Span, []*doctree.Node, int64) {}
	}
	if o.OnRemoveHighlight == nil {
		o.OnRemoveHighlight = func(*doctree.Node) bool { return true }
	}
	if o.Finder == nil {
		o.Finder = &TextFinder{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	h := &Highlighter{
		anchor:  anchor,
		opts:    o,
		ignored: make(map[string]bool, len(o.IgnoredTags)),
		log:     o.Logger,
	}
	for _, tag := range o.IgnoredTags {
		h.ignored[tag] = true
	}
	if h.opts.Handler == nil {
		h.opts.Handler = func(s Span) { h.DoHighlight(&s, false) }
	}

	anchor.AddClass(o.ContextClass)
	if o.BindEvents {
		h.bound = true
	}
	return h, nil
}

// Anchor returns the element highlights are applied to.
func (h *Highlighter) Anchor() *doctree.Node { return h.anchor }

// Select makes s the active selection. When events are bound this also
// runs the handler.
func (h *Highlighter) Select(s Span) {
	h.selection = &s
	if h.bound {
		h.opts.Handler(s)
	}
}

// Selection returns the active selection, if any.
func (h *Highlighter) Selection() (Span, bool) {
	if h.selection == nil {
		return Span{}, false
	}
	return *h.selection, true
}

func (h *Highlighter) ClearSelection() { h.selection = nil }

// DoHighlight highlights span, or the active selection when span is nil,
// and returns the batch id of the new markers. It returns 0 when there is
// nothing to highlight or OnBeforeHighlight vetoed it. Unless keepSelection
// is set the active selection is cleared.
func (h *Highlighter) DoHighlight(span *Span, keepSelection bool) int64 {
	if span == nil {
		span = h.selection
	}
	if span == nil || !span.Valid() || span.Collapsed() {
		return 0
	}

	var batchID int64
	if h.opts.OnBeforeHighlight(*span) {
		batchID = nextBatchID()
		wrapper := CreateWrapper(h.opts.Color, h.opts.HighlightedClass)
		setMarkerBatch(wrapper, batchID)

		created := h.HighlightRange(*span, wrapper)
		normalized := Normalize(created)
		h.log.Debug("highlight created", "batch_id", batchID, "wrapped", len(created), "markers", len(normalized))

		h.opts.OnAfterHighlight(*span, normalized, batchID)
	}

	if !keepSelection {
		h.ClearSelection()
	}
	return batchID
}

func (h *Highlighter) SetColor(color string) { h.opts.Color = color }

func (h *Highlighter) Color() string { return h.opts.Color }

// UpdateHighlightsColor recolours the markers of one batch and returns them.
func (h *Highlighter) UpdateHighlightsColor(color string, batchID int64) []*doctree.Node {
	markers := h.HighlightsByBatch(batchID, QueryOptions{})
	for _, m := range markers {
		SetMarkerColor(m, color)
	}
	return markers
}

// RemoveHighlights unwraps the markers under container (the anchor when
// nil), container included, deepest first. Each approved marker is replaced
// by its text and merged with adjacent text so the original text leaves are
// restored. It returns the number of markers removed.
func (h *Highlighter) RemoveHighlights(container *doctree.Node) int {
	if container == nil {
		container = h.anchor
	}
	markers := Collect(container, true)
	sortByDepth(markers, true)

	removed := 0
	for _, m := range markers {
		if !h.opts.OnRemoveHighlight(m) {
			continue
		}
		for _, n := range doctree.Unwrap(m) {
			doctree.MergeTextSiblings(n)
		}
		removed++
	}
	return removed
}

// RemoveHighlightsByBatch removes the markers of one batch.
func (h *Highlighter) RemoveHighlightsByBatch(batchID int64, opts QueryOptions) int {
	removed := 0
	for _, m := range h.HighlightsByBatch(batchID, opts) {
		removed += h.RemoveHighlights(m)
	}
	return removed
}

// Find highlights every occurrence of text reported by the finder, keeping
// each match selected while it is highlighted. The selection is cleared
// afterwards. It returns the batch ids created, in match order.
func (h *Highlighter) Find(text string, caseSensitive bool) []int64 {
	h.ClearSelection()
	h.opts.Finder.Reset()

	var batches []int64
	for {
		span, ok := h.opts.Finder.Next(h.anchor, text, caseSensitive)
		if !ok {
			break
		}
		h.selection = &span
		if id := h.DoHighlight(nil, true); id != 0 {
			batches = append(batches, id)
		}
	}

	h.ClearSelection()
	return batches
}

// Destroy detaches the selection trigger and removes the context class.
func (h *Highlighter) Destroy() {
	h.bound = false
	h.selection = nil
	h.anchor.RemoveClass(h.opts.ContextClass)
}
