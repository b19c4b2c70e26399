// Package xlsxrag converts an XLSX workbook into a RAG-friendly text
// format: a pipe-delimited Markdown table, an HTML table, CSV, or a
// row-object JSON document, one sheet at a time, with merge regions
// reconciled and hidden rows/columns honoured per the caller's [Options].
//
// # Quick start
//
//	f, err := os.Open("Book1.xlsx")
//	if err != nil { ... }
//	defer f.Close()
//
//	var out bytes.Buffer
//	err = xlsxrag.Convert(f, &out, xlsxrag.WithOutputFormat(render.MarkdownTable))
//
// Sheet processing is embarrassingly parallel: the metadata decode phase
// runs once, sequentially, and every selected sheet is then formatted and
// rendered concurrently via [golang.org/x/sync/errgroup], with results
// reassembled in selection order before the final sequential write.
package xlsxrag

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/cordwainer/xlsxrag/cellfmt"
	"github.com/cordwainer/xlsxrag/grid"
	"github.com/cordwainer/xlsxrag/model"
	"github.com/cordwainer/xlsxrag/render"
	"github.com/cordwainer/xlsxrag/workbook"
)

// Convert reads the entire XLSX workbook from r, applies opts, and writes
// the rendered output to w. It returns one of the error types declared in
// errors.go.
func Convert(r io.Reader, w io.Writer, opts ...Option) error {
	o := NewOptions(opts...)
	if o.hasRange {
		s, e := o.rangeVal.Start, o.rangeVal.End
		if err := ValidateRange(s.Row, s.Col, e.Row, e.Col); err != nil {
			return err
		}
	}

	wb, err := workbook.Open(r, o.security)
	if err != nil {
		return classifyErr("workbook", err)
	}

	sheets, err := resolveSelector(wb, o.selector, o.includeHidden)
	if err != nil {
		return err
	}

	results := make([][]byte, len(sheets))
	g, _ := errgroup.WithContext(context.Background())
	for slot, info := range sheets {
		slot, info := slot, info
		g.Go(func() error {
			buf, err := renderSheet(wb, info.Index, o)
			if err != nil {
				return classifyErr(info.Name, err)
			}
			results[slot] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, info := range sheets {
		sep := render.Separator(o.outputFormat, info.Name, i == 0)
		// With several sheets, the first markdown sheet still gets its heading.
		if i == 0 && len(sheets) > 1 && o.outputFormat == render.MarkdownTable {
			sep = "# " + info.Name + "\n\n"
		}
		if _, err := io.WriteString(w, sep); err != nil {
			return &IoError{Err: err}
		}
		if _, err := w.Write(results[i]); err != nil {
			return &IoError{Err: err}
		}
	}
	return nil
}

// renderSheet formats and renders one sheet, independent of every other
// sheet task: it reads only the immutable metadata tables shared by
// reference from wb.
func renderSheet(wb *workbook.Workbook, idx int, o Options) ([]byte, error) {
	rawCells, meta, err := wb.Sheet(idx)
	if err != nil {
		return nil, err
	}

	coords := make([]model.Coordinate, len(rawCells))
	text := make([]string, len(rawCells))
	fmtOpts := cellfmt.Options{FormulaMode: o.formulaMode, DateFormat: o.dateFormat}
	for i, c := range rawCells {
		coords[i] = c.Coord
		text[i] = cellfmt.Format(c, wb.Styles, wb.Date1904, fmtOpts)
	}
	merges := meta.MergeRegions

	if o.hasRange {
		coords, text, merges = grid.FilterRange(coords, text, merges, o.rangeVal)
	}
	if !o.includeHidden {
		coords, text, merges = grid.FilterHidden(coords, text, merges, meta.HiddenRows, meta.HiddenCols)
	}

	g := grid.Build(coords, text, merges, o.mergeStrategy)

	var buf bytes.Buffer
	if err := render.Render(&buf, g, o.outputFormat); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// resolveSelector resolves sel against wb's ordered sheet list, returning a
// [ConfigError] naming the offending index or name.
func resolveSelector(wb *workbook.Workbook, sel selector, includeHidden bool) ([]workbook.SheetInfo, error) {
	all := wb.Sheets()

	switch sel.kind {
	case selectAll:
		out := make([]workbook.SheetInfo, 0, len(all))
		for _, info := range all {
			if !includeHidden && info.Visibility != workbook.Visible {
				continue
			}
			out = append(out, info)
		}
		return out, nil

	case selectByIndex:
		info, err := sheetByIndex(all, sel.index)
		if err != nil {
			return nil, err
		}
		return []workbook.SheetInfo{info}, nil

	case selectByName:
		info, ok := wb.SheetByName(sel.name)
		if !ok {
			return nil, &ConfigError{Message: fmt.Sprintf("unknown sheet name %q", sel.name)}
		}
		return []workbook.SheetInfo{info}, nil

	case selectByIndices:
		out := make([]workbook.SheetInfo, 0, len(sel.indices))
		for _, idx := range sel.indices {
			info, err := sheetByIndex(all, idx)
			if err != nil {
				return nil, err
			}
			out = append(out, info)
		}
		return out, nil

	case selectByNames:
		out := make([]workbook.SheetInfo, 0, len(sel.names))
		for _, name := range sel.names {
			info, ok := wb.SheetByName(name)
			if !ok {
				return nil, &ConfigError{Message: fmt.Sprintf("unknown sheet name %q", name)}
			}
			out = append(out, info)
		}
		return out, nil

	default:
		return nil, &ConfigError{Message: "unknown sheet selector"}
	}
}

func sheetByIndex(all []workbook.SheetInfo, idx int) (workbook.SheetInfo, error) {
	if idx < 0 || idx >= len(all) {
		return workbook.SheetInfo{}, &ConfigError{Message: fmt.Sprintf("sheet index %d out of range [0,%d)", idx, len(all))}
	}
	return all[idx], nil
}

// ValidateRange checks the range invariant (r0 ≤ r1, c0 ≤ c1) spelled out
// in the configuration surface, returning a [ConfigError] on violation. It
// exists so callers building a range from untrusted input (e.g. the CLI)
// get the same error taxonomy as the rest of the package.
func ValidateRange(r0, c0, r1, c1 int) error {
	if r0 > r1 || c0 > c1 {
		return &ConfigError{Message: fmt.Sprintf("invalid range (%d,%d)..(%d,%d): start must not exceed end", r0, c0, r1, c1)}
	}
	return nil
}
