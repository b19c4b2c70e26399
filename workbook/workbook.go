// Package workbook opens an XLSX file (a ZIP archive of XML parts),
// running the security gate over every member before any content is
// consumed, then decodes the styles, shared-strings, and workbook parts
// exactly once. Per-sheet parts are opened lazily through [Workbook.Sheet].
package workbook

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cordwainer/xlsxrag/internal/rels"
	"github.com/cordwainer/xlsxrag/internal/security"
	"github.com/cordwainer/xlsxrag/model"
	"github.com/cordwainer/xlsxrag/sharedstrings"
	"github.com/cordwainer/xlsxrag/styles"
	"github.com/cordwainer/xlsxrag/worksheet"
)

// Visibility mirrors the `state` attribute of a <sheet> element in
// xl/workbook.xml.
type Visibility int

const (
	Visible Visibility = iota
	Hidden
	VeryHidden
)

// SheetInfo describes one sheet in declared order, after the name join
// described in the design notes on sheet naming.
type SheetInfo struct {
	Name       string
	Index      int
	Visibility Visibility
	partPath   string
}

// Workbook is a decoded XLSX archive: the shared-strings table, the style
// table, the 1904-epoch flag, and the ordered sheet list are all resolved
// once at Open time and are safe to share by reference across concurrent
// sheet-processing tasks.
type Workbook struct {
	zr            *zip.Reader
	sheets        []SheetInfo
	SharedStrings *sharedstrings.Table
	Styles        styles.StyleTable
	Date1904      bool
}

// Open reads r fully into memory (enforcing cfg's input-size cap), opens it
// as a ZIP archive, runs the security gate over every member, and decodes
// the styles, shared-strings, and workbook parts.
func Open(r io.Reader, cfg security.Config) (*Workbook, error) {
	data, err := readAllCapped(r, cfg)
	if err != nil {
		return nil, err
	}
	return OpenBytes(data, cfg)
}

// OpenBytes is like Open but takes an already-buffered archive. The
// input-size cap is still enforced against len(data).
func OpenBytes(data []byte, cfg security.Config) (*Workbook, error) {
	if err := cfg.CheckInputSize(int64(len(data))); err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("workbook: open zip archive: %w", err)
	}
	if err := cfg.CheckMemberCount(len(zr.File)); err != nil {
		return nil, err
	}

	acc := security.NewAccumulator(cfg)
	for _, f := range zr.File {
		if err := security.ValidatePath(f.Name); err != nil {
			return nil, err
		}
		if err := acc.Add(f.Name, int64(f.UncompressedSize64)); err != nil {
			return nil, err
		}
	}

	wb := &Workbook{zr: zr}

	if data, ok := readZipEntry(zr, "xl/styles.xml"); ok {
		st, err := styles.Parse(data)
		if err != nil {
			return nil, err
		}
		wb.Styles = st
	}

	if data, ok := readZipEntry(zr, "xl/sharedStrings.xml"); ok {
		sst, err := sharedstrings.Parse(data)
		if err != nil {
			return nil, err
		}
		wb.SharedStrings = sst
	}

	if err := wb.parseWorkbookXML(); err != nil {
		return nil, err
	}

	return wb, nil
}

// Sheets returns the ordered, display-name-joined sheet list.
func (wb *Workbook) Sheets() []SheetInfo { return wb.sheets }

// SheetByName returns the SheetInfo for a case-insensitive name match.
func (wb *Workbook) SheetByName(name string) (SheetInfo, bool) {
	for _, s := range wb.sheets {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return SheetInfo{}, false
}

// Sheet opens and parses the worksheet at the given zero-based index,
// returning its raw cells and sheet metadata (merge regions, hidden sets,
// the 1904 flag). idx must be within [0, len(Sheets())).
func (wb *Workbook) Sheet(idx int) ([]model.RawCell, model.SheetMetadata, error) {
	if idx < 0 || idx >= len(wb.sheets) {
		return nil, model.SheetMetadata{}, fmt.Errorf("workbook: sheet index %d out of range [0,%d)", idx, len(wb.sheets))
	}
	info := wb.sheets[idx]

	data, ok := readZipEntry(wb.zr, info.partPath)
	if !ok {
		return nil, model.SheetMetadata{}, fmt.Errorf("workbook: sheet part %q not found for sheet %q", info.partPath, info.Name)
	}

	relsPath := sheetRelsPath(info.partPath)
	relsData, _ := readZipEntry(wb.zr, relsPath)

	parsed, err := worksheet.Parse(data, wb.SharedStrings, relsData)
	if err != nil {
		return nil, model.SheetMetadata{}, err
	}

	meta := model.SheetMetadata{
		Name:         info.Name,
		Index:        info.Index,
		Hidden:       info.Visibility != Visible,
		MergeRegions: parsed.MergeRegions,
		HiddenRows:   parsed.HiddenRows,
		HiddenCols:   parsed.HiddenCols,
		Is1904:       wb.Date1904,
	}
	return parsed.Cells, meta, nil
}

// ── internal helpers ─────────────────────────────────────────────────────

func readAllCapped(r io.Reader, cfg security.Config) ([]byte, error) {
	limited := io.LimitReader(r, cfg.MaxInputBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("workbook: read input: %w", err)
	}
	if err := cfg.CheckInputSize(int64(len(data))); err != nil {
		return nil, err
	}
	return data, nil
}

func readZipEntry(zr *zip.Reader, name string) ([]byte, bool) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, false
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				return nil, false
			}
			return data, true
		}
	}
	return nil, false
}

func sheetRelsPath(sheetPartPath string) string {
	i := strings.LastIndexByte(sheetPartPath, '/')
	dir, file := sheetPartPath[:i], sheetPartPath[i+1:]
	return dir + "/_rels/" + file + ".rels"
}

// declaredSheet is one <sheet> element from xl/workbook.xml before the rels
// join resolves its part path.
type declaredSheet struct {
	name    string
	sheetID string
	rID     string
	state   string
}

func (wb *Workbook) parseWorkbookXML() error {
	data, ok := readZipEntry(wb.zr, "xl/workbook.xml")
	if !ok {
		return fmt.Errorf("workbook: xl/workbook.xml not found")
	}

	declared, date1904, err := parseWorkbookDoc(data)
	if err != nil {
		return err
	}
	wb.Date1904 = date1904

	relTargets := map[string]string{}
	if relsData, ok := readZipEntry(wb.zr, "xl/_rels/workbook.xml.rels"); ok {
		relTargets, err = rels.ParseRelsXML(relsData)
		if err != nil {
			return fmt.Errorf("workbook: %w", err)
		}
	}

	sheets := make([]SheetInfo, 0, len(declared))
	for i, d := range declared {
		target := relTargets[d.rID]
		partPath := resolveWorkbookRelTarget(target)
		if partPath == "" {
			// Fall back to the conventional part-number naming scheme when
			// the relationship is missing or unresolvable.
			partPath = fmt.Sprintf("xl/worksheets/sheet%d.xml", i+1)
		}
		sheets = append(sheets, SheetInfo{
			Name:       d.name,
			Index:      i,
			Visibility: parseVisibility(d.state),
			partPath:   partPath,
		})
	}
	sort.SliceStable(sheets, func(i, j int) bool { return sheets[i].Index < sheets[j].Index })
	wb.sheets = sheets
	return nil
}

func resolveWorkbookRelTarget(target string) string {
	if target == "" {
		return ""
	}
	target = strings.TrimPrefix(target, "/")
	if strings.HasPrefix(target, "xl/") {
		return target
	}
	return "xl/" + target
}

func parseVisibility(state string) Visibility {
	switch state {
	case "hidden":
		return Hidden
	case "veryHidden":
		return VeryHidden
	default:
		return Visible
	}
}

// parseWorkbookDoc streams xl/workbook.xml for the <sheet> list and the
// workbookPr/@date1904 flag.
func parseWorkbookDoc(data []byte) ([]declaredSheet, bool, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var sheets []declaredSheet
	var date1904 bool

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, fmt.Errorf("workbook: parse workbook.xml: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "workbookPr":
			for _, a := range start.Attr {
				if a.Name.Local == "date1904" {
					date1904 = a.Value == "1" || strings.EqualFold(a.Value, "true")
				}
			}
		case "sheet":
			var s declaredSheet
			for _, a := range start.Attr {
				switch a.Name.Local {
				case "name":
					s.name = a.Value
				case "sheetId":
					s.sheetID = a.Value
				case "id":
					s.rID = a.Value
				case "state":
					s.state = a.Value
				}
			}
			sheets = append(sheets, s)
		}
	}
	return sheets, date1904, nil
}
