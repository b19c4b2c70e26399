package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cordwainer/xlsxrag/grid"
	"github.com/cordwainer/xlsxrag/model"
	"github.com/cordwainer/xlsxrag/render"
)

func sampleGrid(t *testing.T) *grid.Grid {
	t.Helper()
	coords := []model.Coordinate{
		{Row: 0, Col: 0}, {Row: 0, Col: 1},
		{Row: 1, Col: 0}, {Row: 1, Col: 1},
	}
	text := []string{"Header1", "Header2", "Data1", "Data2"}
	return grid.Build(coords, text, nil, grid.DataDuplication)
}

func TestRenderMarkdownTableS1(t *testing.T) {
	var buf bytes.Buffer
	if err := render.Render(&buf, sampleGrid(t), render.MarkdownTable); err != nil {
		t.Fatalf("Render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "| Header1 | Header2 |") {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.Contains(lines[1], strings.Repeat("-", 9)) {
		t.Errorf("separator line = %q, want 9 hyphens per column", lines[1])
	}
}

func TestRenderJSONS7Shape(t *testing.T) {
	var buf bytes.Buffer
	if err := render.Render(&buf, sampleGrid(t), render.JSON); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `{"rows":[{"A":"Header1","B":"Header2"},{"A":"Data1","B":"Data2"}]}`
	if buf.String() != want {
		t.Errorf("json = %q, want %q", buf.String(), want)
	}
}

func TestRenderJSONEmptyGrid(t *testing.T) {
	var buf bytes.Buffer
	g := grid.Build(nil, nil, nil, grid.DataDuplication)
	if err := render.Render(&buf, g, render.JSON); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.String() != "{}" {
		t.Errorf("json(empty) = %q, want {}", buf.String())
	}
}

func TestRenderCSVQuoting(t *testing.T) {
	coords := []model.Coordinate{{Row: 0, Col: 0}, {Row: 0, Col: 1}}
	text := []string{`has,comma`, "has\"quote"}
	g := grid.Build(coords, text, nil, grid.DataDuplication)

	var buf bytes.Buffer
	if err := render.Render(&buf, g, render.CSV); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "\"has,comma\",\"has\"\"quote\"\n"
	if buf.String() != want {
		t.Errorf("csv = %q, want %q", buf.String(), want)
	}
}

func TestRenderHTMLMergeRowspanColspan(t *testing.T) {
	coords := []model.Coordinate{{Row: 0, Col: 0}}
	text := []string{"Header"}
	r, err := model.NewRange(model.Coordinate{Row: 0, Col: 0}, model.Coordinate{Row: 0, Col: 2})
	if err != nil {
		t.Fatalf("NewRange: %v", err)
	}
	region := model.NewMergeRegion(r)
	g := grid.Build(coords, text, []model.MergeRegion{region}, grid.HtmlFallback)

	var buf bytes.Buffer
	if err := render.Render(&buf, g, render.HTML); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `colspan="3"`) {
		t.Errorf("html = %q, want colspan=3", out)
	}
	if !strings.Contains(out, "<table") || !strings.Contains(out, "</table") {
		t.Errorf("html = %q, want a table element", out)
	}
}

func TestSeparatorFirstSheetEmpty(t *testing.T) {
	if s := render.Separator(render.MarkdownTable, "Sheet1", true); s != "" {
		t.Errorf("Separator(first) = %q, want empty", s)
	}
	if s := render.Separator(render.CSV, "Sheet2", false); !strings.Contains(s, "Sheet2") {
		t.Errorf("Separator(csv) = %q, want to mention Sheet2", s)
	}
}
