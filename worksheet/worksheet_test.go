package worksheet_test

import (
	"testing"

	"github.com/cordwainer/xlsxrag/model"
	"github.com/cordwainer/xlsxrag/sharedstrings"
	"github.com/cordwainer/xlsxrag/worksheet"
)

const sampleSST = `<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><si><t>Header1</t></si><si><t>Header2</t></si></sst>`

const sampleSheet = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"
           xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <cols>
    <col min="3" max="3" width="10" hidden="1"/>
  </cols>
  <sheetData>
    <row r="1">
      <c r="A1" t="s"><v>0</v></c>
      <c r="B1" t="s"><v>1</v></c>
    </row>
    <row r="2" hidden="1">
      <c r="A2"><v>42</v></c>
    </row>
    <row r="3">
      <c r="A3"><f>SUM(A1:A2)</f><v>42</v></c>
      <c r="B3" t="b"><v>1</v></c>
      <c r="C3" t="e"><v>#REF!</v></c>
    </row>
  </sheetData>
  <mergeCells count="1">
    <mergeCell ref="A1:C1"/>
  </mergeCells>
  <hyperlinks>
    <hyperlink ref="A3" r:id="rId1"/>
  </hyperlinks>
</worksheet>`

const sampleRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com" TargetMode="External"/>
</Relationships>`

func TestParse(t *testing.T) {
	sst, err := sharedstrings.Parse([]byte(sampleSST))
	if err != nil {
		t.Fatalf("sharedstrings.Parse: %v", err)
	}
	p, err := worksheet.Parse([]byte(sampleSheet), sst, []byte(sampleRels))
	if err != nil {
		t.Fatalf("worksheet.Parse: %v", err)
	}

	if !p.HiddenRows[1] {
		t.Error("row index 1 (r=2) should be hidden")
	}
	if !p.HiddenCols[2] {
		t.Error("col index 2 (C) should be hidden")
	}
	if len(p.MergeRegions) != 1 {
		t.Fatalf("len(MergeRegions) = %d, want 1", len(p.MergeRegions))
	}
	region := p.MergeRegions[0]
	if region.Parent != (model.Coordinate{Row: 0, Col: 0}) {
		t.Errorf("merge parent = %v, want (0,0)", region.Parent)
	}
	if region.ColSpan() != 3 {
		t.Errorf("merge colspan = %d, want 3", region.ColSpan())
	}

	var a3, b3, c3 *model.RawCell
	for i := range p.Cells {
		c := &p.Cells[i]
		switch c.Coord {
		case model.Coordinate{Row: 2, Col: 0}:
			a3 = c
		case model.Coordinate{Row: 2, Col: 1}:
			b3 = c
		case model.Coordinate{Row: 2, Col: 2}:
			c3 = c
		}
	}
	if a3 == nil || a3.Formula != "SUM(A1:A2)" || a3.Value.Number != 42 {
		t.Fatalf("A3 = %+v, want formula SUM(A1:A2) value 42", a3)
	}
	if a3.Hyperlink != "https://example.com" {
		t.Errorf("A3 hyperlink = %q, want https://example.com", a3.Hyperlink)
	}
	if b3 == nil || b3.Value.Kind != model.KindBoolean || !b3.Value.Bool {
		t.Fatalf("B3 = %+v, want boolean true", b3)
	}
	if c3 == nil || c3.Value.Kind != model.KindErrorText || c3.Value.Text != "#REF!" {
		t.Fatalf("C3 = %+v, want error text #REF!", c3)
	}
}
