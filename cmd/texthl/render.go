package main

import (
	"strings"

	"github.com/fatih/color"

	"github.com/dgallion1/texthl/internal/doctree"
	"github.com/dgallion1/texthl/internal/highlight"
)

var headerColor = color.New(color.FgCyan, color.Bold)

var defaultMarkerStyle = color.New(color.BgYellow, color.FgBlack)

// markerPalette maps marker colours to the nearest terminal colour.
var markerPalette = map[string]*color.Color{
	highlight.DefaultColor: defaultMarkerStyle,
	"yellow":               defaultMarkerStyle,
	"red":                  color.New(color.BgRed, color.FgWhite),
	"green":                color.New(color.BgGreen, color.FgBlack),
	"blue":                 color.New(color.BgBlue, color.FgWhite),
	"cyan":                 color.New(color.BgCyan, color.FgBlack),
	"magenta":              color.New(color.BgMagenta, color.FgWhite),
	"pink":                 color.New(color.BgHiMagenta, color.FgBlack),
	"orange":               color.New(color.BgHiRed, color.FgBlack),
}

func markerStyle(c string) *color.Color {
	if style, ok := markerPalette[strings.ToLower(strings.TrimSpace(c))]; ok {
		return style
	}
	return defaultMarkerStyle
}

var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "blockquote": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "tr": true, "table": true, "ul": true, "ol": true,
}

// renderText prints the text under anchor with each marker's text in its
// terminal colour, one block element per line.
func renderText(anchor *doctree.Node) string {
	var sb strings.Builder
	renderNode(&sb, anchor, nil)
	return strings.TrimRight(sb.String(), "\n")
}

func renderNode(sb *strings.Builder, n *doctree.Node, marker *doctree.Node) {
	if n.IsText() {
		if marker != nil {
			sb.WriteString(markerStyle(highlight.MarkerColor(marker)).Sprint(n.Data))
		} else {
			sb.WriteString(n.Data)
		}
		return
	}
	if n.IsMarker() {
		marker = n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(sb, c, marker)
	}
	switch {
	case blockTags[n.Tag]:
		if s := sb.String(); len(s) > 0 && !strings.HasSuffix(s, "\n") {
			sb.WriteByte('\n')
		}
	case n.Tag == "td" || n.Tag == "th":
		sb.WriteByte('\t')
	}
}
