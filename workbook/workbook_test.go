package workbook_test

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/cordwainer/xlsxrag/internal/security"
	"github.com/cordwainer/xlsxrag/workbook"
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

const workbookXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"
          xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <sheets>
    <sheet name="Sheet1" sheetId="1" r:id="rId1"/>
    <sheet name="Sheet2" sheetId="2" r:id="rId2" state="hidden"/>
  </sheets>
</workbook>`

const workbookRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet2.xml"/>
</Relationships>`

const sheet1XML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheetData>
    <row r="1"><c r="A1" t="s"><v>0</v></c></row>
  </sheetData>
</worksheet>`

const sharedStringsXML = `<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><si><t>Header1</t></si></sst>`

func TestOpenBytesJoinsSheetNames(t *testing.T) {
	data := buildXLSX(t, map[string]string{
		"xl/workbook.xml":             workbookXML,
		"xl/_rels/workbook.xml.rels":  workbookRelsXML,
		"xl/worksheets/sheet1.xml":    sheet1XML,
		"xl/worksheets/sheet2.xml":    sheet1XML,
		"xl/sharedStrings.xml":        sharedStringsXML,
	})

	wb, err := workbook.OpenBytes(data, security.DefaultConfig())
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	infos := wb.Sheets()
	if len(infos) != 2 {
		t.Fatalf("len(Sheets()) = %d, want 2", len(infos))
	}
	if infos[0].Name != "Sheet1" || infos[1].Name != "Sheet2" {
		t.Fatalf("sheet names = %v, want [Sheet1 Sheet2]", infos)
	}
	if infos[1].Visibility != workbook.Hidden {
		t.Errorf("Sheet2 visibility = %v, want Hidden", infos[1].Visibility)
	}

	cells, meta, err := wb.Sheet(0)
	if err != nil {
		t.Fatalf("Sheet(0): %v", err)
	}
	if meta.Name != "Sheet1" {
		t.Errorf("meta.Name = %q, want Sheet1", meta.Name)
	}
	if len(cells) != 1 {
		t.Fatalf("len(cells) = %d, want 1", len(cells))
	}
}

func TestOpenBytesRejectsMaliciousMember(t *testing.T) {
	data := buildXLSX(t, map[string]string{
		"../etc/passwd":   "pwned",
		"xl/workbook.xml": workbookXML,
	})
	if _, err := workbook.OpenBytes(data, security.DefaultConfig()); err == nil {
		t.Error("OpenBytes with a path-traversal member: want error, got nil")
	}
}
