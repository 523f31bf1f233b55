package highlight

import (
	"strconv"

	"github.com/dgallion1/texthl/internal/doctree"
)

// TimestampAttr carries the batch id of a marker.
const TimestampAttr = "data-timestamp"

const colorProperty = "background-color"

// CreateWrapper builds the marker template for one highlight call: a <span>
// with the background colour and class applied.
func CreateWrapper(color, class string) *doctree.Node {
	span := doctree.NewElement("span")
	span.SetStyle(colorProperty, color)
	if class != "" {
		span.SetAttr("class", class)
	}
	return span
}

// MarkerColor returns the background colour of a marker.
func MarkerColor(n *doctree.Node) string {
	return n.Style(colorProperty)
}

// SetMarkerColor changes the background colour of a marker.
func SetMarkerColor(n *doctree.Node, color string) {
	n.SetStyle(colorProperty, color)
}

// MarkerBatch returns the batch id of a marker, or 0 when it has none.
func MarkerBatch(n *doctree.Node) int64 {
	v, ok := n.Attr(TimestampAttr)
	if !ok {
		return 0
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func setMarkerBatch(n *doctree.Node, id int64) {
	n.SetAttr(TimestampAttr, strconv.FormatInt(id, 10))
}

func haveSameColor(a, b *doctree.Node) bool {
	return MarkerColor(a) == MarkerColor(b)
}
