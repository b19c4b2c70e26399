package render

import (
	"bytes"

	"github.com/adnsv/srw/xml"

	"github.com/cordwainer/xlsxrag/grid"
	"github.com/cordwainer/xlsxrag/model"
)

// renderHTML emits a <table> with one <tr> per grid row and one <td> per
// non-merged-child cell. A cell that is the parent of a merge region carries
// both rowspan and colspan from that region; other cells carry neither.
func renderHTML(w writer, g *grid.Grid) error {
	var buf bytes.Buffer
	x := xml.NewWriter(&buf, xml.WriterConfig{Indent: xml.Indent2Spaces})

	x.OTag("table")
	for r := 0; r < g.Rows; r++ {
		x.OTag("+tr")
		for c := 0; c < g.Cols; c++ {
			cell := g.At(r, c)
			coord := model.Coordinate{Row: r, Col: c}
			if cell.IsMergedChild || g.IsMergedChild(coord) {
				continue
			}
			x.OTag("+td")
			if region, ok := g.MergeRegionFor(coord); ok {
				x.Attr("rowspan", region.RowSpan())
				x.Attr("colspan", region.ColSpan())
			}
			x.Write(cell.Text)
			x.CTag() // td
		}
		x.CTag() // tr
	}
	x.CTag() // table

	_, err := w.Write(buf.Bytes())
	return err
}
