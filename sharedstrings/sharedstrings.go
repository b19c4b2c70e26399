// Package sharedstrings parses xl/sharedStrings.xml into the deduplicated
// string table referenced by cells via a shared-string index.
package sharedstrings

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/cordwainer/xlsxrag/model"
)

// Table holds the parsed shared strings, indexed by their position in
// document order. Each entry is an ordered sequence of [model.RichRun].
type Table struct {
	entries [][]model.RichRun
}

// Len reports the number of entries in the table.
func (t *Table) Len() int { return len(t.entries) }

// Get returns the rich-text run sequence at idx, or (nil, false) if idx is
// out of range.
func (t *Table) Get(idx int) ([]model.RichRun, bool) {
	if idx < 0 || idx >= len(t.entries) {
		return nil, false
	}
	return t.entries[idx], true
}

// PlainText returns the concatenated text of entry idx with no formatting,
// or "" if idx is out of range.
func (t *Table) PlainText(idx int) string {
	runs, ok := t.Get(idx)
	if !ok {
		return ""
	}
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// xmlRPr is the run-properties block of an <r> run; only b/i presence matters.
type xmlRPr struct {
	B *struct{} `xml:"b"`
	I *struct{} `xml:"i"`
}

type xmlRun struct {
	RPr xmlRPr `xml:"rPr"`
	T   string `xml:"t"`
}

type xmlSI struct {
	T string   `xml:"t"`
	R []xmlRun `xml:"r"`
}

type xmlSST struct {
	SI []xmlSI `xml:"si"`
}

// Parse decodes the raw bytes of xl/sharedStrings.xml. An si element with a
// direct t child yields one unformatted run; an si built from r runs yields
// one RichRun per run, bold/italic set from that run's rPr.
func Parse(data []byte) (*Table, error) {
	var doc xmlSST
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("sharedstrings: parse sharedStrings.xml: %w", err)
	}
	t := &Table{entries: make([][]model.RichRun, 0, len(doc.SI))}
	for _, si := range doc.SI {
		switch {
		case len(si.R) > 0:
			runs := make([]model.RichRun, 0, len(si.R))
			for _, r := range si.R {
				runs = append(runs, model.RichRun{
					Text:   r.T,
					Bold:   r.RPr.B != nil,
					Italic: r.RPr.I != nil,
				})
			}
			t.entries = append(t.entries, runs)
		default:
			t.entries = append(t.entries, []model.RichRun{{Text: si.T}})
		}
	}
	return t, nil
}

// ParseReader is a convenience wrapper over Parse for callers that already
// hold an io.Reader over the part (e.g. a zip.File's opened reader): it reads
// r to the end into memory and then parses the bytes with Parse.
func ParseReader(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("sharedstrings: read sharedStrings.xml: %w", err)
	}
	return Parse(data)
}
