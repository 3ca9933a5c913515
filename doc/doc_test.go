package doc

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/midbel/gnumeric/formula/eval"
	"github.com/midbel/gnumeric/gnumeric"
	"github.com/midbel/gnumeric/grid"
	"github.com/midbel/gnumeric/layout"
	"github.com/midbel/gnumeric/value"
)

func TestDetectFormat(t *testing.T) {
	dir := t.TempDir()
	book := grid.NewWorkbook()
	book.CreateSheet("Sheet1")

	compressed := filepath.Join(dir, "book.bin")
	if err := gnumeric.Save(compressed, book); err != nil {
		t.Fatalf("fail to save workbook: %s", err)
	}
	var plain bytes.Buffer
	if err := gnumeric.WriteXML(&plain, book); err != nil {
		t.Fatalf("fail to write workbook: %s", err)
	}
	uncompressed := filepath.Join(dir, "book.xml")
	if err := os.WriteFile(uncompressed, plain.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		File string
		Want Format
	}{
		{File: compressed, Want: Gnumeric},
		{File: uncompressed, Want: Gnumeric},
		{File: "testdata/sample.yaml", Want: YAML},
		{File: "testdata/sample.csv", Want: CSV},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.File)
		if err != nil {
			t.Errorf("%s: unexpected error: %s", tt.File, err)
			continue
		}
		if got != tt.Want {
			t.Errorf("%s: format mismatched! want %s, got %s", tt.File, tt.Want, got)
		}
	}
}

func TestOpenFixture(t *testing.T) {
	wb, err := Open("testdata/sample.yaml")
	if err != nil {
		t.Fatalf("fail to open fixture: %s", err)
	}
	if got := wb.Active().Name(); got != "Report" {
		t.Errorf("active sheet should be Report, got %s", got)
	}
	engine := eval.NewEngine()
	tests := []struct {
		Sheet string
		Addr  string
		Want  value.Value
	}{
		{Sheet: "Data", Addr: "A1", Want: value.Int(10)},
		{Sheet: "Data", Addr: "B2", Want: value.Boolean(true)},
		{Sheet: "Data", Addr: "A3", Want: value.Float(25)},
		{Sheet: "Report", Addr: "A1", Want: value.Float(26)},
		{Sheet: "Report", Addr: "A2", Want: value.Int(5)},
	}
	for _, tt := range tests {
		sh, err := wb.Find(tt.Sheet)
		if err != nil {
			t.Fatalf("%s: sheet not found", tt.Sheet)
		}
		c, ok := sh.Lookup(layout.ParsePosition(tt.Addr))
		if !ok {
			t.Errorf("%s!%s: cell not found", tt.Sheet, tt.Addr)
			continue
		}
		if got := c.Result(engine); got != tt.Want {
			t.Errorf("%s!%s: results mismatched! want %v, got %v", tt.Sheet, tt.Addr, tt.Want, got)
		}
	}
}

func TestSaveFixture(t *testing.T) {
	wb, err := Open("testdata/sample.yaml")
	if err != nil {
		t.Fatalf("fail to open fixture: %s", err)
	}
	file := filepath.Join(t.TempDir(), "copy.yml")
	if err := Save(file, wb); err != nil {
		t.Fatalf("fail to save fixture: %s", err)
	}
	other, err := Open(file)
	if err != nil {
		t.Fatalf("fail to open saved fixture: %s", err)
	}
	for _, sh := range wb.Sheets() {
		dup, err := other.Find(sh.Name())
		if err != nil {
			t.Fatalf("%s: sheet not found", sh.Name())
		}
		for _, c := range sh.Cells() {
			d, ok := dup.Lookup(c.Position())
			if !ok || d.Text() != c.Text() {
				t.Errorf("%s: content mismatched after saving", c)
			}
		}
	}
}

func TestOpenCSV(t *testing.T) {
	wb, err := Open("testdata/sample.csv")
	if err != nil {
		t.Fatalf("fail to open csv: %s", err)
	}
	sh := wb.Active()
	c, ok := sh.Lookup(layout.ParsePosition("B2"))
	if !ok {
		t.Fatalf("B2: cell not found")
	}
	if got := c.Result(eval.NewEngine()); got != value.Int(2) {
		t.Errorf("B2: want 2, got %v", got)
	}
}
