// Package worksheet streams one xl/worksheets/sheetN.xml part into a
// sequence of [model.RawCell] plus the sheet's merge regions and hidden
// row/column sets, resolving cell hyperlinks against the sheet's paired
// relationships part along the way.
//
// Parsing is a single forward pass over the token stream; the decoder never
// materialises the worksheet as a DOM.
package worksheet

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cordwainer/xlsxrag/internal/rels"
	"github.com/cordwainer/xlsxrag/model"
	"github.com/cordwainer/xlsxrag/sharedstrings"
)

// Parsed holds everything extracted from one worksheet part.
type Parsed struct {
	Cells        []model.RawCell
	MergeRegions []model.MergeRegion
	HiddenRows   map[int]bool
	HiddenCols   map[int]bool
}

// Parse decodes the raw bytes of one worksheet XML part.
//
//   - sst resolves shared-string cell references (t="s") to rich-text runs;
//     pass nil if the workbook has no shared-strings part.
//   - relsData is the raw bytes of the worksheet's paired .rels file, or nil
//     if it has none; hyperlink targets are resolved against it.
func Parse(data []byte, sst *sharedstrings.Table, relsData []byte) (*Parsed, error) {
	var hyperlinkTargets map[string]string
	if len(relsData) > 0 {
		var err error
		hyperlinkTargets, err = rels.Hyperlinks(relsData)
		if err != nil {
			return nil, fmt.Errorf("worksheet: %w", err)
		}
	}

	p := &Parsed{
		HiddenRows: make(map[int]bool),
		HiddenCols: make(map[int]bool),
	}
	cellHyperlinks := make(map[model.Coordinate]string)

	dec := xml.NewDecoder(bytes.NewReader(data))

	var curRow int
	var inSheetData bool

	// current cell state while inside a <c>..</c> element
	var inCell bool
	var cellCoord model.Coordinate
	var cellType string
	var cellStyle int
	var cellValueText string
	var cellFormula string
	var inValue, inFormula, inIS bool

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("worksheet: parse worksheet XML: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "sheetData":
				inSheetData = true
			case "row":
				curRow = 0
				hidden := false
				for _, a := range el.Attr {
					switch a.Name.Local {
					case "r":
						if n, err := strconv.Atoi(a.Value); err == nil {
							curRow = n - 1
						}
					case "hidden":
						hidden = isTruthy(a.Value)
					}
				}
				if hidden {
					p.HiddenRows[curRow] = true
				}
			case "col":
				var min, max int
				hidden := false
				for _, a := range el.Attr {
					switch a.Name.Local {
					case "min":
						min, _ = strconv.Atoi(a.Value)
					case "max":
						max, _ = strconv.Atoi(a.Value)
					case "hidden":
						hidden = isTruthy(a.Value)
					}
				}
				if hidden && min > 0 && max >= min {
					for c := min - 1; c <= max-1; c++ {
						p.HiddenCols[c] = true
					}
				}
			case "c":
				inCell = true
				cellType = ""
				cellStyle = -1
				cellValueText = ""
				cellFormula = ""
				cellCoord = model.Coordinate{Row: curRow, Col: 0}
				for _, a := range el.Attr {
					switch a.Name.Local {
					case "r":
						if coord, ok := model.ParseA1(a.Value); ok {
							cellCoord = coord
							curRow = coord.Row
						}
					case "t":
						cellType = a.Value
					case "s":
						if n, err := strconv.Atoi(a.Value); err == nil {
							cellStyle = n
						}
					}
				}
			case "v":
				if inCell {
					inValue = true
				}
			case "f":
				if inCell {
					inFormula = true
				}
			case "is":
				if inCell {
					inIS = true
				}
			case "t":
				// Either the <is><t> inline-string text, or a <t> belonging
				// to a rich-text run inside <is>; both land in cellValueText.
				if inCell && inIS {
					inValue = true
				}
			case "mergeCell":
				for _, a := range el.Attr {
					if a.Name.Local == "ref" {
						if region, ok := parseMergeRef(a.Value); ok {
							p.MergeRegions = append(p.MergeRegions, region)
						}
					}
				}
			case "hyperlink":
				var ref, rid string
				for _, a := range el.Attr {
					switch a.Name.Local {
					case "ref":
						ref = a.Value
					case "id":
						rid = a.Value
					}
				}
				if ref != "" && rid != "" {
					if target, ok := hyperlinkTargets[rid]; ok && target != "" {
						if coord, ok := model.ParseA1(firstRef(ref)); ok {
							cellHyperlinks[coord] = target
						}
					}
				}
			}

		case xml.CharData:
			if inValue {
				cellValueText += string(el)
			} else if inFormula {
				cellFormula += string(el)
			}

		case xml.EndElement:
			switch el.Name.Local {
			case "sheetData":
				inSheetData = false
			case "v":
				inValue = false
			case "f":
				inFormula = false
			case "is":
				inIS = false
			case "t":
				if inIS {
					inValue = false
				}
			case "c":
				if inCell && inSheetData {
					p.Cells = append(p.Cells, buildRawCell(cellCoord, cellType, cellStyle, cellValueText, cellFormula, sst))
				}
				inCell = false
			}
		}
	}

	for coord, url := range cellHyperlinks {
		for i := range p.Cells {
			if p.Cells[i].Coord == coord {
				p.Cells[i].Hyperlink = url
			}
		}
	}

	return p, nil
}

// ParseReader is a convenience wrapper over Parse for callers holding an
// io.Reader rather than a byte slice.
func ParseReader(r io.Reader, sst *sharedstrings.Table, relsData []byte) (*Parsed, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("worksheet: read worksheet XML: %w", err)
	}
	return Parse(data, sst, relsData)
}

func buildRawCell(coord model.Coordinate, cellType string, style int, valueText, formula string, sst *sharedstrings.Table) model.RawCell {
	rc := model.RawCell{Coord: coord, StyleIndex: style, Formula: formula}

	switch cellType {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(valueText))
		if err != nil || idx < 0 || sst == nil {
			rc.Value = model.CellValue{Kind: model.KindEmpty}
			return rc
		}
		runs, ok := sst.Get(idx)
		if !ok {
			rc.Value = model.CellValue{Kind: model.KindEmpty}
			return rc
		}
		rc.RichRuns = runs
		rc.Value = model.CellValue{Kind: model.KindInlineString, Text: sst.PlainText(idx)}

	case "str", "inlineStr":
		rc.Value = model.CellValue{Kind: model.KindInlineString, Text: valueText}

	case "b":
		rc.Value = model.CellValue{Kind: model.KindBoolean, Bool: strings.TrimSpace(valueText) == "1"}

	case "e":
		rc.Value = model.CellValue{Kind: model.KindErrorText, Text: valueText}

	default:
		trimmed := strings.TrimSpace(valueText)
		if trimmed == "" {
			rc.Value = model.CellValue{Kind: model.KindEmpty}
			return rc
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			// A malformed numeric literal degrades to inline text rather
			// than aborting the whole sheet.
			rc.Value = model.CellValue{Kind: model.KindInlineString, Text: trimmed}
			return rc
		}
		rc.Value = model.CellValue{Kind: model.KindNumber, Number: n}
	}
	return rc
}

// parseMergeRef parses a mergeCell "ref" attribute of the shape "A1:C3"
// into a MergeRegion.
func parseMergeRef(ref string) (model.MergeRegion, bool) {
	parts := strings.SplitN(ref, ":", 2)
	if len(parts) != 2 {
		return model.MergeRegion{}, false
	}
	start, ok1 := model.ParseA1(parts[0])
	end, ok2 := model.ParseA1(parts[1])
	if !ok1 || !ok2 {
		return model.MergeRegion{}, false
	}
	r, err := model.NewRange(start, end)
	if err != nil {
		return model.MergeRegion{}, false
	}
	return model.NewMergeRegion(r), true
}

// firstRef returns the first reference in a possibly range-shaped hyperlink
// "ref" attribute (e.g. "A1:A1" or "A1"), taking only the top-left cell.
func firstRef(ref string) string {
	if i := strings.IndexByte(ref, ':'); i >= 0 {
		return ref[:i]
	}
	return ref
}

func isTruthy(s string) bool {
	return s == "1" || strings.EqualFold(s, "true")
}
