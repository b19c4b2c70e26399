package render

import (
	"fmt"
	"strings"

	"github.com/cordwainer/xlsxrag/grid"
)

// renderMarkdownTable emits a pipe-delimited table: the first grid row is
// the header, followed by a separator row sized to each column's display
// width, then the remaining rows.
func renderMarkdownTable(w writer, g *grid.Grid) error {
	if g.Rows == 0 {
		return nil
	}
	widths := grid.ColumnWidths(g)

	if err := writeMarkdownRow(w, g, 0, widths); err != nil {
		return err
	}
	if err := writeMarkdownSeparator(w, widths); err != nil {
		return err
	}
	for r := 1; r < g.Rows; r++ {
		if err := writeMarkdownRow(w, g, r, widths); err != nil {
			return err
		}
	}
	return nil
}

func writeMarkdownRow(w writer, g *grid.Grid, row int, widths []int) error {
	var b strings.Builder
	b.WriteByte('|')
	for c := 0; c < g.Cols; c++ {
		content := strings.TrimSpace(g.At(row, c).Text)
		pad := widths[c] - grid.DisplayWidth(content)
		if pad < 0 {
			pad = 0
		}
		b.WriteByte(' ')
		b.WriteString(content)
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(" |")
	}
	b.WriteByte('\n')
	_, err := w.Write([]byte(b.String()))
	return err
}

func writeMarkdownSeparator(w writer, widths []int) error {
	var b strings.Builder
	b.WriteByte('|')
	for _, width := range widths {
		fmt.Fprintf(&b, "%s|", strings.Repeat("-", width+2))
	}
	b.WriteByte('\n')
	_, err := w.Write([]byte(b.String()))
	return err
}
