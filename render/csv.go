package render

import (
	"strings"

	"github.com/cordwainer/xlsxrag/grid"
)

// renderCSV emits one line per grid row, comma-separated, RFC4180-style:
// a cell containing a comma, quote, or newline is wrapped in quotes with
// interior quotes doubled. Merged children are skipped (left blank).
func renderCSV(w writer, g *grid.Grid) error {
	for r := 0; r < g.Rows; r++ {
		var b strings.Builder
		for c := 0; c < g.Cols; c++ {
			if c > 0 {
				b.WriteByte(',')
			}
			cell := g.At(r, c)
			if cell.IsMergedChild {
				continue
			}
			b.WriteString(csvQuote(cell.Text))
		}
		b.WriteByte('\n')
		if _, err := w.Write([]byte(b.String())); err != nil {
			return err
		}
	}
	return nil
}

func csvQuote(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
