// Package render writes one Grid to a markdown table, HTML table, CSV, or
// row-object JSON document. Each Format implementation renders exactly one
// grid per call; the orchestrator is responsible for writing the separators
// between sheets.
package render

import "github.com/cordwainer/xlsxrag/grid"

// Format selects which renderer Render dispatches to.
type Format int

const (
	MarkdownTable Format = iota
	HTML
	CSV
	JSON
)

// ParseFormat maps the output_format configuration values to a Format.
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "markdown-table":
		return MarkdownTable, true
	case "html":
		return HTML, true
	case "csv":
		return CSV, true
	case "json":
		return JSON, true
	default:
		return 0, false
	}
}

// Render writes g to w in the given format.
func Render(w writer, g *grid.Grid, f Format) error {
	switch f {
	case MarkdownTable:
		return renderMarkdownTable(w, g)
	case HTML:
		return renderHTML(w, g)
	case CSV:
		return renderCSV(w, g)
	case JSON:
		return renderJSON(w, g)
	default:
		return errUnknownFormat(f)
	}
}

// Separator returns the text the orchestrator writes before sheet named
// name. isFirst is true for the first emitted sheet, which never gets a
// leading separator.
func Separator(f Format, name string, isFirst bool) string {
	if isFirst {
		return ""
	}
	switch f {
	case MarkdownTable:
		return "\n---\n\n# " + name + "\n\n"
	case CSV:
		return "# Sheet: " + name + "\n"
	case HTML:
		return "<!-- Sheet: " + name + " -->\n"
	case JSON:
		return "\n"
	default:
		return ""
	}
}

// writer is the minimal io.Writer-shaped interface the sub-renderers need;
// kept distinct from io.Writer only to document the dependency at a glance.
type writer interface {
	Write(p []byte) (int, error)
}

type errUnknownFormat Format

func (e errUnknownFormat) Error() string {
	return "render: unknown output format"
}
