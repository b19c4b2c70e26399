package grid_test

import (
	"testing"

	"github.com/cordwainer/xlsxrag/grid"
	"github.com/cordwainer/xlsxrag/model"
)

func mustRange(t *testing.T, start, end model.Coordinate) model.Range {
	t.Helper()
	r, err := model.NewRange(start, end)
	if err != nil {
		t.Fatalf("NewRange: %v", err)
	}
	return r
}

func TestBuildSizesToMaxCoordinate(t *testing.T) {
	coords := []model.Coordinate{{Row: 0, Col: 0}, {Row: 2, Col: 3}}
	text := []string{"a", "b"}
	g := grid.Build(coords, text, nil, grid.DataDuplication)
	if g.Rows != 3 || g.Cols != 4 {
		t.Fatalf("Rows/Cols = %d/%d, want 3/4", g.Rows, g.Cols)
	}
	if g.At(0, 0).Text != "a" || g.At(2, 3).Text != "b" {
		t.Errorf("unexpected cell text placement")
	}
}

func TestBuildDataDuplicationFillsChildren(t *testing.T) {
	coords := []model.Coordinate{{Row: 0, Col: 0}}
	text := []string{"Header"}
	region := model.NewMergeRegion(mustRange(t, model.Coordinate{Row: 0, Col: 0}, model.Coordinate{Row: 0, Col: 2}))
	g := grid.Build(coords, text, []model.MergeRegion{region}, grid.DataDuplication)

	for c := 0; c < 3; c++ {
		if g.At(0, c).Text != "Header" {
			t.Errorf("At(0,%d) = %q, want Header", c, g.At(0, c).Text)
		}
	}
	if g.At(0, 0).IsMergedChild {
		t.Error("parent cell should not be marked as a merged child")
	}
	if !g.At(0, 1).IsMergedChild || !g.At(0, 2).IsMergedChild {
		t.Error("non-parent cells in the region should be marked as merged children")
	}
}

func TestBuildHtmlFallbackLeavesChildrenEmpty(t *testing.T) {
	coords := []model.Coordinate{{Row: 0, Col: 0}}
	text := []string{"Header"}
	region := model.NewMergeRegion(mustRange(t, model.Coordinate{Row: 0, Col: 0}, model.Coordinate{Row: 0, Col: 2}))
	g := grid.Build(coords, text, []model.MergeRegion{region}, grid.HtmlFallback)

	if g.At(0, 1).Text != "" {
		t.Errorf("At(0,1) = %q, want empty under HtmlFallback", g.At(0, 1).Text)
	}
	if _, ok := g.MergeRegionFor(model.Coordinate{Row: 0, Col: 0}); !ok {
		t.Error("MergeRegionFor(0,0) should find the region")
	}
}

func TestFilterHiddenReindexes(t *testing.T) {
	coords := []model.Coordinate{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 2, Col: 0}}
	text := []string{"r0", "r1", "r2"}
	hiddenRows := map[int]bool{1: true}

	outCoords, outText, _ := grid.FilterHidden(coords, text, nil, hiddenRows, nil)
	if len(outCoords) != 2 {
		t.Fatalf("len(outCoords) = %d, want 2", len(outCoords))
	}
	if outCoords[0].Row != 0 || outCoords[1].Row != 1 {
		t.Errorf("outCoords = %v, want rows reindexed to 0,1", outCoords)
	}
	if outText[0] != "r0" || outText[1] != "r2" {
		t.Errorf("outText = %v, want [r0 r2]", outText)
	}
}

func TestFilterRangeKeepsOnlyInside(t *testing.T) {
	coords := []model.Coordinate{{Row: 0, Col: 0}, {Row: 5, Col: 5}}
	text := []string{"in", "out"}
	r := mustRange(t, model.Coordinate{Row: 0, Col: 0}, model.Coordinate{Row: 1, Col: 1})

	outCoords, outText, _ := grid.FilterRange(coords, text, nil, r)
	if len(outCoords) != 1 || outText[0] != "in" {
		t.Fatalf("FilterRange kept %v / %v, want only the in-range cell", outCoords, outText)
	}
}

func TestColumnWidthsMinimumThree(t *testing.T) {
	g := grid.Build([]model.Coordinate{{Row: 0, Col: 0}}, []string{"x"}, nil, grid.DataDuplication)
	widths := grid.ColumnWidths(g)
	if widths[0] != 3 {
		t.Errorf("widths[0] = %d, want 3 (minimum)", widths[0])
	}
}

func TestDisplayWidthCountsWideRunesAsTwo(t *testing.T) {
	if w := grid.DisplayWidth("abc"); w != 3 {
		t.Errorf("DisplayWidth(abc) = %d, want 3", w)
	}
	if w := grid.DisplayWidth("日本語"); w != 6 {
		t.Errorf("DisplayWidth(日本語) = %d, want 6", w)
	}
	if w := grid.DisplayWidth("a日b"); w != 4 {
		t.Errorf("DisplayWidth(a日b) = %d, want 4", w)
	}
}

func TestSortedHiddenIndicesIsDeterministic(t *testing.T) {
	hidden := map[int]bool{5: true, 1: true, 3: true}
	got := grid.SortedHiddenIndices(hidden)
	want := []int{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("SortedHiddenIndices = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SortedHiddenIndices = %v, want %v", got, want)
		}
	}
}
