// Package grid reconciles the sparse cell store produced by the cell
// source with the sheet's rectangular merge regions, producing a dense
// row-major matrix ready for rendering.
package grid

import (
	"strings"
	"unicode"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/cordwainer/xlsxrag/model"
)

// Strategy selects how merge regions are reconciled into the dense grid.
type Strategy int

const (
	// DataDuplication copies the parent cell's displayed string into every
	// child coordinate in the region, producing a pure rectangular table.
	DataDuplication Strategy = iota
	// HtmlFallback leaves the grid's cell text untouched; the HTML renderer
	// consults the MergeRegions list directly for rowspan/colspan.
	HtmlFallback
)

// BuiltCell is one grid element: its display text, whether it is a
// merged-region child, and (when it is) the coordinate of its parent.
type BuiltCell struct {
	Text          string
	IsMergedChild bool
	Parent        model.Coordinate
}

// Grid is a dense (Rows × Cols) row-major matrix of BuiltCell.
type Grid struct {
	Rows, Cols   int
	Cells        [][]BuiltCell
	MergeRegions []model.MergeRegion
}

// At returns the cell at (row, col). The caller must keep row/col in bounds.
func (g *Grid) At(row, col int) BuiltCell { return g.Cells[row][col] }

// Build projects formatted cells (coordinate → display text, in the same
// order as the originating RawCells) into a dense grid sized to cover every
// supplied coordinate and every merge region's bounding box, then applies
// the chosen merge strategy.
func Build(coords []model.Coordinate, text []string, merges []model.MergeRegion, strategy Strategy) *Grid {
	rows, cols := 0, 0
	for _, c := range coords {
		if c.Row+1 > rows {
			rows = c.Row + 1
		}
		if c.Col+1 > cols {
			cols = c.Col + 1
		}
	}
	for _, m := range merges {
		if m.Range.End.Row+1 > rows {
			rows = m.Range.End.Row + 1
		}
		if m.Range.End.Col+1 > cols {
			cols = m.Range.End.Col + 1
		}
	}

	sortedMerges := append([]model.MergeRegion(nil), merges...)
	slices.SortFunc(sortedMerges, func(a, b model.MergeRegion) int {
		if a.Parent.Row != b.Parent.Row {
			return a.Parent.Row - b.Parent.Row
		}
		return a.Parent.Col - b.Parent.Col
	})

	g := &Grid{Rows: rows, Cols: cols, MergeRegions: sortedMerges}
	g.Cells = make([][]BuiltCell, rows)
	for r := range g.Cells {
		g.Cells[r] = make([]BuiltCell, cols)
	}

	for i, c := range coords {
		if c.Row < rows && c.Col < cols {
			g.Cells[c.Row][c.Col].Text = text[i]
		}
	}

	if strategy == DataDuplication {
		for _, m := range sortedMerges {
			parentText := g.Cells[m.Parent.Row][m.Parent.Col].Text
			for r := m.Range.Start.Row; r <= m.Range.End.Row; r++ {
				for c := m.Range.Start.Col; c <= m.Range.End.Col; c++ {
					if r == m.Parent.Row && c == m.Parent.Col {
						continue
					}
					g.Cells[r][c] = BuiltCell{
						Text:          parentText,
						IsMergedChild: true,
						Parent:        m.Parent,
					}
				}
			}
		}
	}

	return g
}

// MergeRegionFor returns the merge region whose parent equals coord, if any.
func (g *Grid) MergeRegionFor(coord model.Coordinate) (model.MergeRegion, bool) {
	for _, m := range g.MergeRegions {
		if m.Parent == coord {
			return m, true
		}
	}
	return model.MergeRegion{}, false
}

// IsMergedChild reports whether coord lies inside some region without being
// that region's parent.
func (g *Grid) IsMergedChild(coord model.Coordinate) bool {
	for _, m := range g.MergeRegions {
		if m.Contains(coord) && m.Parent != coord {
			return true
		}
	}
	return false
}

// SortedHiddenIndices returns the keys of hidden in ascending order. Go map
// iteration order is randomized, so callers that need to report which rows
// or columns were dropped (logs, error messages) must sort the key set
// explicitly rather than ranging over the map directly.
func SortedHiddenIndices(hidden map[int]bool) []int {
	keys := maps.Keys(hidden)
	slices.Sort(keys)
	return keys
}

// FilterHidden drops rows and columns present in hiddenRows/hiddenCols,
// reindexing the remaining rows/columns contiguously. It is applied before
// Build when include_hidden is false.
func FilterHidden(coords []model.Coordinate, text []string, merges []model.MergeRegion, hiddenRows, hiddenCols map[int]bool) ([]model.Coordinate, []string, []model.MergeRegion) {
	if len(hiddenRows) == 0 && len(hiddenCols) == 0 {
		return coords, text, merges
	}

	keptRows := remap(hiddenRows, maxRow(coords, merges)+1)
	keptCols := remap(hiddenCols, maxCol(coords, merges)+1)

	outCoords := make([]model.Coordinate, 0, len(coords))
	outText := make([]string, 0, len(text))
	for i, c := range coords {
		nr, ok1 := keptRows[c.Row]
		nc, ok2 := keptCols[c.Col]
		if !ok1 || !ok2 {
			continue
		}
		outCoords = append(outCoords, model.Coordinate{Row: nr, Col: nc})
		outText = append(outText, text[i])
	}

	outMerges := make([]model.MergeRegion, 0, len(merges))
	for _, m := range merges {
		sr, ok1 := keptRows[m.Range.Start.Row]
		sc, ok2 := keptCols[m.Range.Start.Col]
		er, ok3 := keptRows[m.Range.End.Row]
		ec, ok4 := keptCols[m.Range.End.Col]
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		r, err := model.NewRange(model.Coordinate{Row: sr, Col: sc}, model.Coordinate{Row: er, Col: ec})
		if err != nil {
			continue
		}
		outMerges = append(outMerges, model.NewMergeRegion(r))
	}

	return outCoords, outText, outMerges
}

// FilterRange drops cells outside r and merge regions whose parent lies
// outside r, leaving coordinates untouched (no reindexing) since r is itself
// zero-based. A kept merge region is not clipped to r.
func FilterRange(coords []model.Coordinate, text []string, merges []model.MergeRegion, r model.Range) ([]model.Coordinate, []string, []model.MergeRegion) {
	outCoords := make([]model.Coordinate, 0, len(coords))
	outText := make([]string, 0, len(text))
	for i, c := range coords {
		if r.Contains(c) {
			outCoords = append(outCoords, c)
			outText = append(outText, text[i])
		}
	}
	outMerges := make([]model.MergeRegion, 0, len(merges))
	for _, m := range merges {
		if r.Contains(m.Parent) {
			outMerges = append(outMerges, m)
		}
	}
	return outCoords, outText, outMerges
}

func maxRow(coords []model.Coordinate, merges []model.MergeRegion) int {
	max := -1
	for _, c := range coords {
		if c.Row > max {
			max = c.Row
		}
	}
	for _, m := range merges {
		if m.Range.End.Row > max {
			max = m.Range.End.Row
		}
	}
	return max
}

func maxCol(coords []model.Coordinate, merges []model.MergeRegion) int {
	max := -1
	for _, c := range coords {
		if c.Col > max {
			max = c.Col
		}
	}
	for _, m := range merges {
		if m.Range.End.Col > max {
			max = m.Range.End.Col
		}
	}
	return max
}

// remap builds an old-index → new-index map that skips every index in
// hidden, for indices in [0, n).
func remap(hidden map[int]bool, n int) map[int]int {
	m := make(map[int]int, n)
	next := 0
	for i := 0; i < n; i++ {
		if hidden[i] {
			continue
		}
		m[i] = next
		next++
	}
	return m
}

// ColumnWidths returns, for each column of g, max(3, the widest trimmed
// display width across all rows), counting East-Asian wide code points as
// width 2 and every other code point as width 1.
func ColumnWidths(g *Grid) []int {
	widths := make([]int, g.Cols)
	for c := 0; c < g.Cols; c++ {
		widths[c] = 3
	}
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			w := DisplayWidth(trimSpace(g.Cells[r][c].Text))
			if w > widths[c] {
				widths[c] = w
			}
		}
	}
	return widths
}

func trimSpace(s string) string {
	return strings.TrimSpace(s)
}

// DisplayWidth returns the terminal-style display width of s: East-Asian
// wide and fullwidth code points count as 2 cells, combining marks and
// control characters count as 0, and everything else counts as 1.
func DisplayWidth(s string) int {
	w := 0
	for _, r := range s {
		w += runeWidth(r)
	}
	return w
}

func runeWidth(r rune) int {
	switch {
	case r == 0:
		return 0
	case unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Me, r):
		return 0
	case r < 0x20 || (r >= 0x7f && r < 0xa0):
		return 0
	case isEastAsianWide(r):
		return 2
	default:
		return 1
	}
}

// isEastAsianWide reports whether r falls in one of the Unicode code point
// ranges classified Wide (W) or Fullwidth (F) by UAX #11 East Asian Width.
// The ranges below cover CJK ideographs, kana, Hangul syllables, fullwidth
// forms, and related blocks; combining/format characters are excluded
// upstream in runeWidth.
func isEastAsianWide(r rune) bool {
	switch {
	case r >= 0x1100 && r <= 0x115F: // Hangul Jamo
		return true
	case r == 0x2329 || r == 0x232A:
		return true
	case r >= 0x2E80 && r <= 0xA4CF && r != 0x303F: // CJK Radicals .. Yi
		return true
	case r >= 0xAC00 && r <= 0xD7A3: // Hangul Syllables
		return true
	case r >= 0xF900 && r <= 0xFAFF: // CJK Compatibility Ideographs
		return true
	case r >= 0xFE30 && r <= 0xFE4F: // CJK Compatibility Forms
		return true
	case r >= 0xFF00 && r <= 0xFF60: // Fullwidth Forms
		return true
	case r >= 0xFFE0 && r <= 0xFFE6: // Fullwidth Signs
		return true
	case r >= 0x20000 && r <= 0x3FFFD: // CJK Unified Ideographs Extension B..
		return true
	}
	return false
}
