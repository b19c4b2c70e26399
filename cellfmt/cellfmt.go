// Package cellfmt turns one model.RawCell into its final display string,
// applying formula-mode dispatch, number-format rendering, Markdown
// escaping, rich-text run markup, and hyperlink wrapping, in the order laid
// out for the cell formatter.
package cellfmt

import (
	"strings"

	"github.com/cordwainer/xlsxrag/model"
	"github.com/cordwainer/xlsxrag/numfmt"
	"github.com/cordwainer/xlsxrag/styles"
)

// FormulaMode selects between a cell's cached value and its formula text.
type FormulaMode int

const (
	// CachedValue renders the value the producing application last wrote to
	// the cell's <v> element.
	CachedValue FormulaMode = iota
	// FormulaText renders the raw formula string unescaped, when present.
	FormulaText
)

// DateFormat overrides date rendering when a cell is classified as a date
// and carries no cell-specific custom format string.
type DateFormat struct {
	// ISO8601 selects "yyyy-mm-dd" rendering. Custom, when non-empty, is an
	// Excel-token pattern applied in ISO8601's place.
	ISO8601 bool
	Custom  string
}

// Options configures Format's behaviour. The zero value is CachedValue
// formula mode with no date-format override.
type Options struct {
	FormulaMode FormulaMode
	DateFormat  DateFormat
}

// Format renders cell's display string per the classifier rules: formula
// dispatch, date/number classification, rich-text run markup, boolean and
// error passthrough, Markdown escaping, and finally hyperlink wrapping.
func Format(cell model.RawCell, st styles.StyleTable, date1904 bool, opts Options) string {
	if opts.FormulaMode == FormulaText && cell.Formula != "" {
		return wrapHyperlink(cell.Formula, cell.Hyperlink)
	}

	var body string
	switch cell.Value.Kind {
	case model.KindEmpty:
		body = ""

	case model.KindBoolean:
		if cell.Value.Bool {
			body = "TRUE"
		} else {
			body = "FALSE"
		}

	case model.KindErrorText:
		return wrapHyperlink(cell.Value.Text, cell.Hyperlink)

	case model.KindInlineString:
		if len(cell.RichRuns) > 0 {
			body = renderRichRuns(cell.RichRuns)
		} else {
			body = escapeMarkdown(cell.Value.Text)
		}

	case model.KindNumber:
		numFmtID := st.NumFmtID(cell.StyleIndex)
		fmtStr := st.FmtStr(cell.StyleIndex)
		if isDate(numFmtID, fmtStr) && fmtStr == "" && hasDateOverride(opts.DateFormat) {
			body = renderWithOverride(cell.Value.Number, date1904, opts.DateFormat)
		} else {
			body = escapeMarkdown(numfmt.FormatValue(cell.Value.Number, numFmtID, fmtStr, date1904))
		}

	default:
		body = escapeMarkdown(cell.Value.Text)
	}

	return wrapHyperlink(body, cell.Hyperlink)
}

func isDate(numFmtID int, fmtStr string) bool {
	return numfmt.IsDateFormat(numFmtID, fmtStr)
}

func hasDateOverride(df DateFormat) bool {
	return df.ISO8601 || df.Custom != ""
}

// renderWithOverride applies the date_format configuration override: it
// resolves the cell's serial value as a date the same way numfmt does, but
// against the override pattern instead of the cell's own (absent) custom
// format string.
func renderWithOverride(serial float64, date1904 bool, df DateFormat) string {
	pattern := df.Custom
	if pattern == "" {
		pattern = "yyyy-mm-dd"
	}
	return escapeMarkdown(numfmt.FormatValue(serial, 164, pattern, date1904))
}

// renderRichRuns Markdown-escapes each run's text, wraps it by the run's
// bold/italic markers, and concatenates the runs in order.
func renderRichRuns(runs []model.RichRun) string {
	var b strings.Builder
	for _, r := range runs {
		text := escapeMarkdown(r.Text)
		switch {
		case r.Bold && r.Italic:
			b.WriteString("***")
			b.WriteString(text)
			b.WriteString("***")
		case r.Bold:
			b.WriteString("**")
			b.WriteString(text)
			b.WriteString("**")
		case r.Italic:
			b.WriteString("*")
			b.WriteString(text)
			b.WriteString("*")
		default:
			b.WriteString(text)
		}
	}
	return b.String()
}

// escapeMarkdown applies the table-safe escaping rules: backslash doubles,
// pipe is escaped, and newlines become a <br> so a cell never breaks out of
// its table row.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `|`, `\|`)
	s = strings.ReplaceAll(s, "\r\n", "<br>")
	s = strings.ReplaceAll(s, "\n", "<br>")
	s = strings.ReplaceAll(s, "\r", "<br>")
	return s
}

// wrapHyperlink wraps body as a Markdown link when url is non-empty, using
// url itself as the link text when body is empty.
func wrapHyperlink(body, url string) string {
	if url == "" {
		return body
	}
	text := body
	if text == "" {
		text = url
	}
	return "[" + text + "](" + url + ")"
}
