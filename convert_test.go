package xlsxrag_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/cordwainer/xlsxrag"
	"github.com/cordwainer/xlsxrag/render"
)

func buildXLSX(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip.Create(%q): %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %q: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip.Close: %v", err)
	}
	return buf.Bytes()
}

const threeSheetWorkbookXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"
          xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <sheets>
    <sheet name="Sheet1" sheetId="1" r:id="rId1"/>
    <sheet name="Sheet2" sheetId="2" r:id="rId2"/>
    <sheet name="Sheet3" sheetId="3" r:id="rId3"/>
  </sheets>
</workbook>`

const threeSheetRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet2.xml"/>
  <Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet3.xml"/>
</Relationships>`

func sheetDataXML(text string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheetData>
    <row r="1"><c r="A1" t="str"><v>` + text + `</v></c></row>
  </sheetData>
</worksheet>`
}

func TestConvertS2ThreeSheetsInOrder(t *testing.T) {
	data := buildXLSX(t, map[string]string{
		"xl/workbook.xml":            threeSheetWorkbookXML,
		"xl/_rels/workbook.xml.rels": threeSheetRelsXML,
		"xl/worksheets/sheet1.xml":   sheetDataXML("Sheet1_Data"),
		"xl/worksheets/sheet2.xml":   sheetDataXML("Sheet2_Data"),
		"xl/worksheets/sheet3.xml":   sheetDataXML("Sheet3_Data"),
	})

	var out bytes.Buffer
	if err := xlsxrag.Convert(bytes.NewReader(data), &out); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	s := out.String()
	i1 := strings.Index(s, "# Sheet1")
	i2 := strings.Index(s, "# Sheet2")
	i3 := strings.Index(s, "# Sheet3")
	if i1 < 0 || i2 < 0 || i3 < 0 {
		t.Fatalf("missing sheet header in output: %q", s)
	}
	if !(i1 < i2 && i2 < i3) {
		t.Errorf("sheet headers out of order: Sheet1@%d Sheet2@%d Sheet3@%d", i1, i2, i3)
	}
}

func TestConvertSheetNameNotFound(t *testing.T) {
	data := buildXLSX(t, map[string]string{
		"xl/workbook.xml":            threeSheetWorkbookXML,
		"xl/_rels/workbook.xml.rels": threeSheetRelsXML,
		"xl/worksheets/sheet1.xml":   sheetDataXML("x"),
		"xl/worksheets/sheet2.xml":   sheetDataXML("x"),
		"xl/worksheets/sheet3.xml":   sheetDataXML("x"),
	})

	var out bytes.Buffer
	err := xlsxrag.Convert(bytes.NewReader(data), &out, xlsxrag.WithSheetName("NoSuchSheet"))
	if err == nil {
		t.Fatal("Convert with unknown sheet name: want error, got nil")
	}
	var cfgErr *xlsxrag.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("error = %v, want *ConfigError", err)
	}
}

func TestConvertJSONOutputFormat(t *testing.T) {
	data := buildXLSX(t, map[string]string{
		"xl/workbook.xml":            threeSheetWorkbookXML,
		"xl/_rels/workbook.xml.rels": threeSheetRelsXML,
		"xl/worksheets/sheet1.xml":   sheetDataXML("Hello"),
		"xl/worksheets/sheet2.xml":   sheetDataXML("x"),
		"xl/worksheets/sheet3.xml":   sheetDataXML("x"),
	})

	var out bytes.Buffer
	err := xlsxrag.Convert(bytes.NewReader(data), &out,
		xlsxrag.WithSheetIndex(0), xlsxrag.WithOutputFormat(render.JSON))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !strings.Contains(out.String(), `"A":"Hello"`) {
		t.Errorf("json output = %q, want A:Hello", out.String())
	}
}

