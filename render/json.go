package render

import (
	"encoding/json"
	"strings"

	"github.com/cordwainer/xlsxrag/grid"
	"github.com/cordwainer/xlsxrag/model"
)

// renderJSON emits {"rows": [...]}, one object per grid row, keyed by
// base-26 column letters in column order. Merged children are omitted from
// their row's object entirely. An empty grid emits {}.
func renderJSON(w writer, g *grid.Grid) error {
	if g.Rows == 0 {
		_, err := w.Write([]byte("{}"))
		return err
	}

	var b strings.Builder
	b.WriteString(`{"rows":[`)
	for r := 0; r < g.Rows; r++ {
		if r > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('{')
		first := true
		for c := 0; c < g.Cols; c++ {
			cell := g.At(r, c)
			if cell.IsMergedChild || g.IsMergedChild(model.Coordinate{Row: r, Col: c}) {
				continue
			}
			if !first {
				b.WriteByte(',')
			}
			first = false
			key, _ := json.Marshal(model.ColumnLetters(c))
			val, _ := json.Marshal(cell.Text)
			b.Write(key)
			b.WriteByte(':')
			b.Write(val)
		}
		b.WriteByte('}')
	}
	b.WriteString(`]}`)

	_, err := w.Write([]byte(b.String()))
	return err
}
