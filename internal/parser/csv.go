package parser

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/texthl/internal/doctree"
)

// CSVParser handles CSV files. The first record becomes the table header.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := newDocument(trimExt(filename, ".csv"))
	if len(records) == 0 {
		return doc, nil
	}

	table := appendBlock(doc.Root, "table", "")
	head := appendBlock(appendBlock(table, "thead", ""), "tr", "")
	for _, h := range records[0] {
		appendBlock(head, "th", h)
	}

	if len(records) > 1 {
		body := appendBlock(table, "tbody", "")
		for _, row := range records[1:] {
			tr := appendBlock(body, "tr", "")
			for _, cell := range row {
				appendBlock(tr, "td", cell)
			}
		}
	}
	return doc, nil
}
