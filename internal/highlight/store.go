package highlight

import (
	"strings"

	"github.com/dgallion1/texthl/internal/doctree"
)

// QueryOptions narrows a marker query. The zero value queries the whole
// anchor and includes the container when it is a marker itself.
type QueryOptions struct {
	Container   *doctree.Node
	ExcludeSelf bool
}

// Group is the set of markers created by one highlight call.
type Group struct {
	BatchID int64
	Markers []*doctree.Node
}

// Text joins the members' text in document order.
func (g Group) Text() string {
	var sb strings.Builder
	for _, m := range g.Markers {
		sb.WriteString(m.TextContent())
	}
	return sb.String()
}

func (g Group) String() string { return g.Text() }

// Collect returns the markers under container in document order, preceded
// by container itself when andSelf is set and it is a marker.
func Collect(container *doctree.Node, andSelf bool) []*doctree.Node {
	var out []*doctree.Node
	if andSelf && container.IsMarker() {
		out = append(out, container)
	}
	return append(out, container.FindAll((*doctree.Node).IsMarker)...)
}

// GroupByBatch partitions markers by batch id. Groups appear in the order
// their first member was seen.
func GroupByBatch(markers []*doctree.Node) []Group {
	var groups []Group
	index := make(map[int64]int)
	for _, m := range markers {
		id := MarkerBatch(m)
		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, Group{BatchID: id})
		}
		groups[i].Markers = append(groups[i].Markers, m)
	}
	return groups
}

// Highlights returns the markers selected by opts.
func (h *Highlighter) Highlights(opts QueryOptions) []*doctree.Node {
	container := opts.Container
	if container == nil {
		container = h.anchor
	}
	return Collect(container, !opts.ExcludeSelf)
}

// GroupedHighlights returns the markers selected by opts grouped by batch.
func (h *Highlighter) GroupedHighlights(opts QueryOptions) []Group {
	return GroupByBatch(h.Highlights(opts))
}

// HighlightsByBatch returns the markers of one batch.
func (h *Highlighter) HighlightsByBatch(batchID int64, opts QueryOptions) []*doctree.Node {
	var out []*doctree.Node
	for _, m := range h.Highlights(opts) {
		if MarkerBatch(m) == batchID {
			out = append(out, m)
		}
	}
	return out
}
