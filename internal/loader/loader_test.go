package loader

import (
	"archive/zip"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadCSV(t *testing.T) {
	p := writeFile(t, "customer_activity.csv", "\ufeffmonth,region,bounce_rates,revenue\nFeb,Europe,0.2,False\nMar,,NA,True\n")
	tbl, err := LoadFile(p, Options{})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if diff := cmp.Diff([]string{"month", "region", "bounce_rates", "revenue"}, tbl.Names()); diff != "" {
		t.Fatalf("names (-want +got):\n%s", diff)
	}
	br, _ := tbl.Column("bounce_rates")
	if br.Kind != table.Numeric || !br.IsMissing(1) {
		t.Fatalf("bounce_rates = %+v", br)
	}
	rev, _ := tbl.Column("revenue")
	if rev.Kind != table.Boolean {
		t.Fatalf("revenue kind = %v", rev.Kind)
	}
}

func TestLoadTSVSniffsTab(t *testing.T) {
	p := writeFile(t, "sessions.tsv", "browser\tweekend\nChrome\tTrue\nSafari\tFalse\n")
	tbl, err := LoadFile(p, Options{})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if tbl.NumCols() != 2 || tbl.NumRows() != 2 {
		t.Fatalf("shape = %dx%d", tbl.NumRows(), tbl.NumCols())
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := LoadFile(writeFile(t, "notes.txt", "x"), Options{}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.csv"), Options{}); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := LoadFile(writeFile(t, "wide.csv", "a,b\n1,2,3\n"), Options{}); err == nil {
		t.Fatal("expected schema error for wide row")
	}
	if _, err := LoadFile(writeFile(t, "empty.csv", ""), Options{}); err == nil {
		t.Fatal("expected error for empty file")
	}
}

const workbookXML = `<?xml version="1.0" encoding="UTF-8"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <sheets>
    <sheet name="Notes" sheetId="1" r:id="rId1"/>
    <sheet name="Sessions" sheetId="2" r:id="rId2"/>
  </sheets>
</workbook>`

const relsXML = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Target="worksheets/sheet1.xml"/>
  <Relationship Id="rId2" Target="/xl/worksheets/sheet2.xml"/>
</Relationships>`

const sharedXML = `<?xml version="1.0" encoding="UTF-8"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <si><t>region</t></si>
  <si><t>North America</t></si>
</sst>`

const sheet1XML = `<worksheet><sheetData><row r="1"><c r="A1" t="inlineStr"><is><t>placeholder</t></is></c></row></sheetData></worksheet>`

const sheet2XML = `<worksheet><sheetData>
  <row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="inlineStr"><is><t>bounce_rates</t></is></c><c r="C1" t="inlineStr"><is><t>weekend</t></is></c></row>
  <row r="2"><c r="A2" t="s"><v>1</v></c><c r="B2"><v>0.25</v></c><c r="C2" t="b"><v>1</v></c></row>
  <row r="3"><c r="A3" t="inlineStr"><is><t>Europe</t></is></c><c r="C3" t="b"><v>0</v></c></row>
</sheetData></worksheet>`

func writeXLSX(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "sessions.xlsx")
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, body := range map[string]string{
		"xl/workbook.xml":            workbookXML,
		"xl/_rels/workbook.xml.rels": relsXML,
		"xl/sharedStrings.xml":       sharedXML,
		"xl/worksheets/sheet1.xml":   sheet1XML,
		"xl/worksheets/sheet2.xml":   sheet2XML,
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return p
}

func TestLoadXLSXSheetSelection(t *testing.T) {
	p := writeXLSX(t)
	want := [][]string{{"North America", "0.25", "True"}, {"Europe", "", "False"}}
	for _, opt := range []Options{{Sheet: "sessions"}, {SheetIndex: 2}} {
		tbl, err := LoadFile(p, opt)
		if err != nil {
			t.Fatalf("LoadFile(%+v): %v", opt, err)
		}
		if diff := cmp.Diff([]string{"region", "bounce_rates", "weekend"}, tbl.Names()); diff != "" {
			t.Fatalf("names (-want +got):\n%s", diff)
		}
		got := [][]string{tbl.Record(0), tbl.Record(1)}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("records (-want +got):\n%s", diff)
		}
	}

	first, err := LoadFile(p, Options{})
	if err != nil {
		t.Fatalf("LoadFile default: %v", err)
	}
	if first.NumRows() != 0 || first.Names()[0] != "placeholder" {
		t.Fatalf("default sheet = %v", first.Names())
	}

	_, err = LoadFile(p, Options{Sheet: "Revenue"})
	if err == nil || !strings.Contains(err.Error(), "available: Notes, Sessions") {
		t.Fatalf("err = %v", err)
	}
}

func TestNormalizeRelPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/xl/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"xl/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"styles.xml", "xl/styles.xml"},
	}
	for _, tt := range tests {
		if got := normalizeRelPath(tt.input); got != tt.expected {
			t.Errorf("normalizeRelPath(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestColIndexFromRef(t *testing.T) {
	for ref, want := range map[string]int{"A1": 0, "C12": 2, "Z3": 25, "AA10": 26, "ab2": 27, "": -1} {
		if got := colIndexFromRef(ref); got != want {
			t.Errorf("colIndexFromRef(%q) = %d, want %d", ref, got, want)
		}
	}
}

func cleanedTable(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New()
	for _, c := range []*table.Column{
		table.NewCategorical("region", []string{"Europe", "Asia"}, nil),
		table.NewNumeric("bounce_rates", []float64{0.125, 1e6}, []bool{true, false}),
		table.NewBoolean("revenue", []bool{true, false}, nil),
	} {
		if err := tbl.AddColumn(c); err != nil {
			t.Fatalf("AddColumn: %v", err)
		}
	}
	return tbl
}

func TestWriteCSV(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out", "cleaned.csv")
	if err := WriteCSV(p, cleanedTable(t)); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "region,bounce_rates,revenue\nEurope,0.125,True\nAsia,,False\n"
	if diff := cmp.Diff(want, string(b)); diff != "" {
		t.Fatalf("csv (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestWriteSQLite(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sessions.db")
	ctx := context.Background()
	// Writing twice replaces the table rather than appending.
	for i := 0; i < 2; i++ {
		if err := WriteSQLite(ctx, p, "customer_activity", cleanedTable(t)); err != nil {
			t.Fatalf("WriteSQLite: %v", err)
		}
	}
	db, err := sql.Open("sqlite", p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM customer_activity`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("rows = %d, want 2", n)
	}
	var region string
	var bounce sql.NullFloat64
	var revenue int
	if err := db.QueryRow(`SELECT region, bounce_rates, revenue FROM customer_activity WHERE region = 'Asia'`).Scan(&region, &bounce, &revenue); err != nil {
		t.Fatalf("select: %v", err)
	}
	if bounce.Valid || revenue != 0 {
		t.Fatalf("asia row = %v %v", bounce, revenue)
	}
}
