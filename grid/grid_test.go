package grid

import (
	"errors"
	"slices"
	"testing"

	"github.com/midbel/gnumeric/formula/eval"
	"github.com/midbel/gnumeric/layout"
	"github.com/midbel/gnumeric/value"
)

func TestWorkbook(t *testing.T) {
	wb := NewWorkbook()
	if wb.Active() != nil {
		t.Fatalf("empty workbook should not have an active sheet")
	}
	for _, name := range []string{"first", "second", "third"} {
		if _, err := wb.CreateSheet(name); err != nil {
			t.Fatalf("%s: fail to create sheet: %s", name, err)
		}
	}
	if _, err := wb.CreateSheet("SECOND"); !errors.Is(err, ErrExist) {
		t.Fatalf("duplicate sheet: expected ErrExist, got %v", err)
	}
	if _, err := wb.InsertSheet("zero", 0); err != nil {
		t.Fatalf("fail to insert sheet: %s", err)
	}
	want := []string{"zero", "first", "second", "third"}
	if got := wb.Names(); !slices.Equal(got, want) {
		t.Fatalf("names mismatched! want %v, got %v", want, got)
	}
	last, err := wb.SheetAt(-1)
	if err != nil || last.Name() != "third" {
		t.Fatalf("last sheet should be third, got %v (%v)", last, err)
	}
	if _, err := wb.SheetAt(4); !errors.Is(err, ErrNotFound) {
		t.Fatalf("index out of range: expected ErrNotFound, got %v", err)
	}
	sh, err := wb.Find("Second")
	if err != nil {
		t.Fatalf("sheet lookup should ignore case: %s", err)
	}
	if ix := wb.Index(sh); ix != 2 {
		t.Errorf("second sheet should be at index 2, got %d", ix)
	}
	if err := wb.SetActive("third"); err != nil {
		t.Fatalf("fail to set active sheet: %s", err)
	}
	if err := wb.RemoveSheet("first"); err != nil {
		t.Fatalf("fail to remove sheet: %s", err)
	}
	if got := wb.Active().Name(); got != "third" {
		t.Errorf("active sheet should still be third, got %s", got)
	}
	if err := wb.RemoveSheet("first"); !errors.Is(err, ErrNotFound) {
		t.Errorf("removing unknown sheet: expected ErrNotFound, got %v", err)
	}
	if _, err := wb.Sheet("nowhere"); err == nil {
		t.Errorf("unknown sheet should give an error")
	}
}

func TestCellSet(t *testing.T) {
	tests := []struct {
		Input string
		Want  value.Value
		Text  string
	}{
		{
			Input: "",
			Want:  value.Empty(),
			Text:  "",
		},
		{
			Input: "42",
			Want:  value.Int(42),
			Text:  "42",
		},
		{
			Input: "-3.5",
			Want:  value.Float(-3.5),
			Text:  "-3.5",
		},
		{
			Input: "true",
			Want:  value.Boolean(true),
			Text:  "TRUE",
		},
		{
			Input: "#N/A",
			Want:  value.ErrNA,
			Text:  "#N/A",
		},
		{
			Input: "hello world",
			Want:  value.Text("hello world"),
			Text:  "hello world",
		},
		{
			Input: "inf",
			Want:  value.Text("inf"),
			Text:  "inf",
		},
	}
	sh := NewSheet("sheet")
	for _, c := range tests {
		cell, err := sh.Cell(layout.ParsePosition("A1"))
		if err != nil {
			t.Fatalf("fail to get cell: %s", err)
		}
		if err := cell.Set(c.Input); err != nil {
			t.Errorf("%q: unexpected error: %s", c.Input, err)
			continue
		}
		if got := cell.Value(); got != c.Want {
			t.Errorf("%q: value mismatched! want %v, got %v", c.Input, c.Want, got)
		}
		if got := cell.Text(); got != c.Text {
			t.Errorf("%q: text mismatched! want %q, got %q", c.Input, c.Text, got)
		}
		if _, ok := cell.Formula(); ok {
			t.Errorf("%q: cell should not have formula", c.Input)
		}
	}
}

func TestCellFormula(t *testing.T) {
	sh := NewSheet("sheet")
	cell, _ := sh.Cell(layout.ParsePosition("B2"))
	cell.Set("5")
	if err := cell.Set("=A1+1"); err != nil {
		t.Fatalf("fail to set formula: %s", err)
	}
	origin, ok := cell.Formula()
	if !ok {
		t.Fatalf("cell should have a formula")
	}
	if origin.Text != "=A1+1" || origin.Line != 2 || origin.Column != 2 {
		t.Errorf("unexpected origin: %+v", origin)
	}
	if got := cell.Value(); got != value.Int(5) {
		t.Errorf("previous literal should be kept, got %v", got)
	}
	if err := cell.Set("=1+"); !errors.Is(err, ErrFormula) {
		t.Errorf("invalid formula: expected ErrFormula, got %v", err)
	}
	if cell.Text() != "=A1+1" {
		t.Errorf("invalid formula should not replace the current one")
	}
	cell.SetValue(value.Text("x"))
	if _, ok := cell.Formula(); ok {
		t.Errorf("formula should be removed by a value")
	}
	if n := len(sh.Expressions()); n != 0 {
		t.Errorf("no expression expected, got %d", n)
	}
}

func TestSharedFormula(t *testing.T) {
	sh := NewSheet("sheet")
	origin, _ := sh.Cell(layout.ParsePosition("B1"))
	if err := origin.SetFormula("=A1*$A$1+SUM(A1:A2)"); err != nil {
		t.Fatalf("fail to set formula: %s", err)
	}
	for _, addr := range []string{"B2", "C3"} {
		c, _ := sh.Cell(layout.ParsePosition(addr))
		if err := c.Share(origin); err != nil {
			t.Fatalf("%s: fail to share formula: %s", addr, err)
		}
	}
	tests := []struct {
		Addr string
		Want string
	}{
		{
			Addr: "B1",
			Want: "=A1*$A$1+SUM(A1:A2)",
		},
		{
			Addr: "B2",
			Want: "=A2*$A$1+SUM(A2:A3)",
		},
		{
			Addr: "C3",
			Want: "=B3*$A$1+SUM(B3:B4)",
		},
	}
	for _, c := range tests {
		cell, ok := sh.Lookup(layout.ParsePosition(c.Addr))
		if !ok {
			t.Errorf("%s: cell not found", c.Addr)
			continue
		}
		if got := cell.FormulaText(); got != c.Want {
			t.Errorf("%s: formula mismatched! want %s, got %s", c.Addr, c.Want, got)
		}
		if cell.Expression() != origin.Expression() {
			t.Errorf("%s: expression id mismatched", c.Addr)
		}
	}
	if n := len(sh.CellsWithExpression(origin.Expression())); n != 3 {
		t.Errorf("expected 3 cells sharing the expression, got %d", n)
	}
	if err := sh.RemoveCell(layout.ParsePosition("B1")); !errors.Is(err, ErrShared) {
		t.Errorf("removing origin of shared expression: expected ErrShared, got %v", err)
	}
	if err := sh.RemoveCell(layout.ParsePosition("B2")); err != nil {
		t.Errorf("fail to remove cell: %s", err)
	}
	if err := sh.RemoveCell(layout.ParsePosition("C3")); err != nil {
		t.Errorf("fail to remove cell: %s", err)
	}
	if err := sh.RemoveCell(layout.ParsePosition("B1")); err != nil {
		t.Errorf("origin should be removable once not shared: %s", err)
	}
	if n := len(sh.Expressions()); n != 0 {
		t.Errorf("no expression expected, got %d", n)
	}

	other := NewSheet("other")
	c, _ := other.Cell(layout.ParsePosition("A1"))
	if err := c.Share(origin); err == nil {
		t.Errorf("sharing across sheets should fail")
	}
}

func TestSheetCells(t *testing.T) {
	sh := NewSheet("sheet")
	data := map[string]string{
		"A1": "1",
		"C1": "3",
		"B2": "=A1",
		"A3": "text",
	}
	for addr, input := range data {
		c, _ := sh.Cell(layout.ParsePosition(addr))
		if err := c.Set(input); err != nil {
			t.Fatalf("%s: fail to set cell: %s", addr, err)
		}
	}
	sh.Cell(layout.ParsePosition("Z100"))

	if dim := sh.Dimension(); dim.Lines != 3 || dim.Columns != 3 {
		t.Errorf("dimension mismatched! want 3x3, got %dx%d", dim.Lines, dim.Columns)
	}
	if rg, ok := sh.Bounds(); !ok || rg.String() != "sheet!A1:C3" {
		t.Errorf("bounds mismatched! want sheet!A1:C3, got %s", rg)
	}
	if _, ok := NewSheet("empty").Bounds(); ok {
		t.Errorf("empty sheet should not have bounds")
	}
	var got []string
	for _, c := range sh.Cells() {
		got = append(got, c.Position().Addr())
	}
	want := []string{"A1", "C1", "B2", "A3"}
	if !slices.Equal(got, want) {
		t.Errorf("cells mismatched! want %v, got %v", want, got)
	}
	if n := len(sh.Row(1)); n != 2 {
		t.Errorf("row 1: expected 2 cells, got %d", n)
	}
	if n := len(sh.Column(1)); n != 2 {
		t.Errorf("column A: expected 2 cells, got %d", n)
	}

	cells, err := sh.Collect(layout.ParsePosition("A1"), layout.ParsePosition("C2"), false, false)
	if err != nil {
		t.Fatalf("fail to collect cells: %s", err)
	}
	if len(cells) != 3 {
		t.Errorf("expected 3 non empty cells, got %d", len(cells))
	}
	cells, err = sh.Range(layout.ParsePosition("C2"), layout.ParsePosition("A1"))
	if err != nil {
		t.Fatalf("fail to get range: %s", err)
	}
	if len(cells) != 6 || cells[0].Position().Addr() != "A1" || cells[5].Position().Addr() != "C2" {
		t.Errorf("range should give 6 cells from A1 to C2")
	}
	if _, err := sh.Cell(layout.Position{Line: MaxRows + 1, Column: 1}); !errors.Is(err, ErrBounds) {
		t.Errorf("out of bounds cell: expected ErrBounds, got %v", err)
	}
	if _, err := sh.Cell(layout.Position{Line: 1, Column: MaxColumns + 1}); !errors.Is(err, ErrBounds) {
		t.Errorf("out of bounds cell: expected ErrBounds, got %v", err)
	}

	var rows int
	for r := range sh.Rows() {
		rows++
		if r.Line == 2 && !r.Sparse() {
			t.Errorf("row 2 should be sparse")
		}
		if r.Line == 1 {
			vs := r.Values()
			if vs[0] != value.Int(1) || vs[1] != value.Empty() || vs[2] != value.Int(3) {
				t.Errorf("row 1: unexpected values %v", vs)
			}
		}
	}
	if rows != 3 {
		t.Errorf("expected 3 rows, got %d", rows)
	}
}

func TestCopy(t *testing.T) {
	sh := NewSheet("sheet")
	src, _ := sh.Cell(layout.ParsePosition("A2"))
	src.Set("=A1*2")

	if err := sh.Copy(layout.ParsePosition("A2"), layout.ParsePosition("B3"), CopyAll); err != nil {
		t.Fatalf("fail to copy cell: %s", err)
	}
	dst, _ := sh.Lookup(layout.ParsePosition("B3"))
	if got := dst.FormulaText(); got != "=B2*2" {
		t.Errorf("copied formula mismatched! want =B2*2, got %s", got)
	}
	if err := sh.Copy(layout.ParsePosition("Z1"), layout.ParsePosition("B3"), CopyAll); !errors.Is(err, ErrNotFound) {
		t.Errorf("copy from unknown cell: expected ErrNotFound, got %v", err)
	}
	mode, err := CopyModeFromString("value")
	if err != nil || mode != CopyValue {
		t.Errorf("unexpected copy mode %v (%v)", mode, err)
	}
	if _, err := CopyModeFromString("style"); err == nil {
		t.Errorf("style is not a copy mode")
	}
}

func TestCellResult(t *testing.T) {
	wb := NewWorkbook()
	sh, _ := wb.CreateSheet("sheet")
	a1, _ := sh.Cell(layout.ParsePosition("A1"))
	a1.Set("20")
	a2, _ := sh.Cell(layout.ParsePosition("A2"))
	a2.Set("=A1+22")

	engine := eval.NewEngine()
	if got := a2.Result(engine); got != value.Int(42) {
		t.Errorf("result mismatched! want 42, got %v", got)
	}
	if got := a1.Result(engine); got != value.Int(20) {
		t.Errorf("result mismatched! want 20, got %v", got)
	}
}
