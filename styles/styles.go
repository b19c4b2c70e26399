// Package styles parses xl/styles.xml into the resolved number-format
// metadata consumed by [github.com/cordwainer/xlsxrag/numfmt]. It is a
// deliberately small, import-cycle-free package so that both workbook/ and
// worksheet/ can depend on it without introducing circular imports.
package styles

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/cordwainer/xlsxrag/internal/dateformat"
)

// XFStyle holds the resolved formatting information for one cell-format (xf)
// index as read from the cellXfs table.
type XFStyle struct {
	// NumFmtID is the numFmtId attribute of the xf element. Values 0–163 are
	// built-in Excel formats; values ≥ 164 are custom formats defined by a
	// numFmt element in the same part.
	NumFmtID int
	// FormatStr is the raw format code from the matching numFmt element. It
	// is empty for built-in ids that have no custom override.
	FormatStr string
}

// StyleTable maps XF index → XFStyle. The slice index is the 0-based style
// index referenced by a cell's `s` attribute.
type StyleTable []XFStyle

// IsDate reports whether the XF at index s represents a date or datetime
// number format. It returns false when s is out of range or no style
// information is available (nil / empty table).
func (st StyleTable) IsDate(s int) bool {
	if s < 0 || s >= len(st) {
		return false
	}
	return isDateFormatID(st[s].NumFmtID, st[s].FormatStr)
}

// NumFmtID returns the numFmtId for style index s, or 0 when s is out of range.
func (st StyleTable) NumFmtID(s int) int {
	if s < 0 || s >= len(st) {
		return 0
	}
	return st[s].NumFmtID
}

// FmtStr returns the raw format string for style index s, or an empty
// string when s is out of range.
func (st StyleTable) FmtStr(s int) string {
	if s < 0 || s >= len(st) {
		return ""
	}
	return st[s].FormatStr
}

// BuiltInNumFmt maps built-in numFmtId values (0–49) to their canonical
// format strings as defined by ECMA-376 §18.8.30. Ids not present in this
// map are built-in ids whose format string is locale-dependent or otherwise
// not representable as a static string.
var BuiltInNumFmt = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	5:  `($#,##0_);($#,##0)`,
	6:  `($#,##0_);[Red]($#,##0)`,
	7:  `($#,##0.00_);($#,##0.00)`,
	8:  `($#,##0.00_);[Red]($#,##0.00)`,
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "MM-DD-YY",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	37: `(#,##0_);(#,##0)`,
	38: `(#,##0_);[Red](#,##0)`,
	39: `(#,##0.00_);(#,##0.00)`,
	40: `(#,##0.00_);[Red](#,##0.00)`,
	41: `_(* #,##0_);_(* (#,##0);_(* "-"_);_(@_)`,
	42: `_($* #,##0_);_($* (#,##0);_($* "-"_);_(@_)`,
	43: `_(* #,##0.00_);_(* (#,##0.00);_(* "-"??_);_(@_)`,
	44: `_($* #,##0.00_);_($* (#,##0.00);_($* "-"??_);_(@_)`,
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mm:ss.0",
	48: "##0.0E+0",
	49: "@",
}

// IsBuiltInDateID reports whether the given built-in numFmtId (0–163) names
// a date or datetime format, without consulting any custom format string.
func IsBuiltInDateID(id int) bool {
	return dateformat.IsBuiltInDateID(id)
}

// isDateFormatID reports whether the given numFmtId, together with its
// resolved custom format string, represents a date or datetime format.
func isDateFormatID(id int, formatStr string) bool {
	return dateformat.IsDateFormat(id, formatStr)
}

// xmlStyleSheet mirrors the subset of xl/styles.xml this package reads.
type xmlStyleSheet struct {
	NumFmts struct {
		NumFmt []struct {
			NumFmtID   int    `xml:"numFmtId,attr"`
			FormatCode string `xml:"formatCode,attr"`
		} `xml:"numFmt"`
	} `xml:"numFmts"`
	CellXfs struct {
		Xf []struct {
			NumFmtID string `xml:"numFmtId,attr"`
		} `xml:"xf"`
	} `xml:"cellXfs"`
}

// Parse decodes xl/styles.xml into a StyleTable, using the document order of
// the cellXfs block as the style index. Only numFmtId is read from each xf
// element; other attributes are parsed by encoding/xml and discarded.
func Parse(data []byte) (StyleTable, error) {
	var doc xmlStyleSheet
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("styles: parse styles.xml: %w", err)
	}

	custom := make(map[int]string, len(doc.NumFmts.NumFmt))
	for _, nf := range doc.NumFmts.NumFmt {
		if nf.NumFmtID >= 164 {
			custom[nf.NumFmtID] = nf.FormatCode
		}
	}

	table := make(StyleTable, 0, len(doc.CellXfs.Xf))
	for _, xf := range doc.CellXfs.Xf {
		id, err := strconv.Atoi(xf.NumFmtID)
		if err != nil {
			id = 0
		}
		table = append(table, XFStyle{
			NumFmtID:  id,
			FormatStr: custom[id],
		})
	}
	return table, nil
}
