package eval_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/midbel/gnumeric/formula/eval"
	"github.com/midbel/gnumeric/formula/parse"
	"github.com/midbel/gnumeric/grid"
	"github.com/midbel/gnumeric/layout"
	"github.com/midbel/gnumeric/value"
)

type cellData struct {
	Addr  string
	Input string
}

func createWorkbook(t *testing.T, data map[string][]cellData) *grid.Workbook {
	t.Helper()
	wb := grid.NewWorkbook()
	for _, name := range []string{"Sheet1", "Title", "My Sheet"} {
		if _, err := wb.CreateSheet(name); err != nil {
			t.Fatalf("%s: fail to create sheet: %s", name, err)
		}
	}
	for name, cells := range data {
		sh, err := wb.Find(name)
		if err != nil {
			t.Fatalf("%s: sheet not found", name)
		}
		for _, c := range cells {
			cell, err := sh.Cell(layout.ParsePosition(c.Addr))
			if err != nil {
				t.Fatalf("%s: fail to get cell: %s", c.Addr, err)
			}
			if err := cell.Set(c.Input); err != nil {
				t.Fatalf("%s: fail to set cell: %s", c.Addr, err)
			}
		}
	}
	return wb
}

func anchorAt(t *testing.T, wb *grid.Workbook, sheet, addr string) *grid.Cell {
	t.Helper()
	sh, err := wb.Find(sheet)
	if err != nil {
		t.Fatalf("%s: sheet not found", sheet)
	}
	cell, err := sh.Cell(layout.ParsePosition(addr))
	if err != nil {
		t.Fatalf("%s: fail to get cell: %s", addr, err)
	}
	return cell
}

func TestEvaluate(t *testing.T) {
	data := map[string][]cellData{
		"Sheet1": {
			{Addr: "B1", Input: "10"},
			{Addr: "B2", Input: "hello"},
			{Addr: "B3", Input: "=B1*2"},
			{Addr: "B4", Input: "#DIV/0!"},
			{Addr: "B5", Input: "true"},
		},
		"Title": {
			{Addr: "A1", Input: "1"},
			{Addr: "A2", Input: "2"},
			{Addr: "A3", Input: "3"},
			{Addr: "A4", Input: "4"},
			{Addr: "A5", Input: "5"},
		},
		"My Sheet": {
			{Addr: "C3", Input: "2.5"},
		},
	}
	tests := []struct {
		Formula string
		Want    value.Value
	}{
		{Formula: "=54", Want: value.Int(54)},
		{Formula: "+54", Want: value.Int(54)},
		{Formula: "=1.5", Want: value.Float(1.5)},
		{Formula: "=+-2*3", Want: value.Int(-6)},
		{Formula: "=2*(8-3)^2^3", Want: value.Int(781250)},
		{Formula: "=TRUE+4", Want: value.Int(5)},
		{Formula: "=7/2", Want: value.Float(3.5)},
		{Formula: "=1/0", Want: value.ErrDiv0},
		{Formula: "=#REF!+1", Want: value.ErrRef},
		{Formula: "=1+#N/A", Want: value.ErrNA},
		{Formula: "=\"a\"+1", Want: value.ErrValue},
		{Formula: "=-\"a\"", Want: value.ErrValue},
		{Formula: "=10^10000000000", Want: value.ErrNum},
		{Formula: "=10000000000^1000", Want: value.ErrNum},
		{Formula: "=0^-1", Want: value.ErrDiv0},
		{Formula: "=1<\"a\"", Want: value.Boolean(true)},
		{Formula: "=\"z\"<TRUE", Want: value.Boolean(true)},
		{Formula: "=\"ABC\"=\"abc\"", Want: value.Boolean(true)},
		{Formula: "=2>=2", Want: value.Boolean(true)},
		{Formula: "=1<>1", Want: value.Boolean(false)},
		{Formula: "=FALSE<TRUE", Want: value.Boolean(true)},
		{Formula: "=TRUE&\"cat\"", Want: value.Text("TRUEcat")},
		{Formula: "=2&\"cat\"", Want: value.Text("2cat")},
		{Formula: "=(4/2)&\"x\"", Want: value.Text("2x")},
		{Formula: "=1+2&3", Want: value.Text("33")},
		{Formula: "=A1", Want: value.Int(0)},
		{Formula: "=A1&\"x\"", Want: value.Text("x")},
		{Formula: "=A1=\"\"", Want: value.Boolean(true)},
		{Formula: "=A1+1", Want: value.ErrValue},
		{Formula: "=B1+B3", Want: value.Int(30)},
		{Formula: "=B2", Want: value.Text("hello")},
		{Formula: "=B2+1", Want: value.ErrValue},
		{Formula: "=B4+1", Want: value.ErrDiv0},
		{Formula: "=B5*3", Want: value.Int(3)},
		{Formula: "=$B$1+B$1+$B1", Want: value.Int(30)},
		{Formula: "=Title!A5", Want: value.Int(5)},
		{Formula: "=title!A5", Want: value.Int(5)},
		{Formula: "='My Sheet'!C3*2", Want: value.Float(5)},
		{Formula: "=NoSheet!A1", Want: value.ErrRef},
		{Formula: "=IW1", Want: value.ErrRef},
		{Formula: "=A65537", Want: value.ErrRef},
		{Formula: "=SUM(Title!A1:A5)", Want: value.Int(15)},
		{Formula: "=SUM(Title!A5:A1)", Want: value.Int(15)},
		{Formula: "=MAX(Title!A1:A5)-MIN(Title!A1:A5)", Want: value.Int(4)},
		{Formula: "=PRODUCT(Title!A1:A4)", Want: value.Int(24)},
		{Formula: "=AVERAGE(Title!A1:A4)", Want: value.Float(2.5)},
		{Formula: "=COUNT(B1:B5)", Want: value.ErrDiv0},
		{Formula: "=COUNT(B1:B3,B5)", Want: value.Int(3)},
		{Formula: "=SUM(B1:B3)", Want: value.Int(30)},
		{Formula: "=SUM(NoSheet!A1:A2)", Want: value.ErrRef},
		{Formula: "=sum(1,2,3)", Want: value.Int(6)},
		{Formula: "=A1:A5", Want: value.ErrValue},
		{Formula: "=1+", Want: value.ErrValue},
		{Formula: "1+1", Want: value.ErrValue},
		{Formula: "=NAMEDOESNOTEXIST()", Want: value.ErrName},
		{Formula: "=ABS", Want: value.ErrName},
		{Formula: "=foo+1", Want: value.ErrName},
		{Formula: "=ABS(TRUE)", Want: value.Int(1)},
		{Formula: "=ABS(-B1)", Want: value.Int(10)},
		{Formula: "=ABS(\"string\")", Want: value.ErrValue},
		{Formula: "=ABS(A1)", Want: value.ErrValue},
		{Formula: "=ABS(#REF!)", Want: value.ErrRef},
		{Formula: "=ABS()", Want: value.ErrNA},
		{Formula: "=ABS(1,2)", Want: value.ErrNA},
		{Formula: "=LEN(TRUE)", Want: value.Int(4)},
		{Formula: "=LEN(12/5)", Want: value.Int(3)},
		{Formula: "=LEN(5/3)", Want: value.Int(18)},
		{Formula: "=LEN(A1)", Want: value.Int(0)},
		{Formula: "=LEN(B1:B2)", Want: value.ErrValue},
	}
	var (
		wb     = createWorkbook(t, data)
		anchor = anchorAt(t, wb, "Sheet1", "Z1")
		engine = eval.NewEngine()
	)
	for _, c := range tests {
		got := engine.Evaluate(c.Formula, anchor.Anchor())
		if got != c.Want {
			t.Errorf("%s: result mismatched! want %v (%s), got %v (%s)", c.Formula, c.Want, c.Want.Type(), got, got.Type())
		}
	}
}

func TestReferencedCells(t *testing.T) {
	data := map[string][]cellData{
		"Sheet1": {
			{Addr: "B1", Input: "=C1"},
			{Addr: "C1", Input: "=D1"},
		},
	}
	tests := []struct {
		Formula string
		Want    []string
	}{
		{
			Formula: "=SUM(A1:A3,A5)+A10",
			Want:    []string{"Sheet1!A1", "Sheet1!A2", "Sheet1!A3", "Sheet1!A5", "Sheet1!A10"},
		},
		{
			Formula: "=B1",
			Want:    []string{"Sheet1!B1"},
		},
		{
			Formula: "=Title!B2+'My Sheet'!A1",
			Want:    []string{"'My Sheet'!A1", "Title!B2"},
		},
		{
			Formula: "=1+2",
		},
		{
			Formula: "=#REF!+A1",
		},
		{
			Formula: "=A1+#REF!",
			Want:    []string{"Sheet1!A1"},
		},
	}
	var (
		wb     = createWorkbook(t, data)
		anchor = anchorAt(t, wb, "Sheet1", "Z1")
		engine = eval.NewEngine()
	)
	for _, c := range tests {
		refs, err := engine.ReferencedCells(c.Formula, anchor.Anchor())
		if err != nil {
			t.Errorf("%s: unexpected error: %s", c.Formula, err)
			continue
		}
		var got []string
		for _, p := range refs.Positions() {
			got = append(got, p.Addr())
		}
		if !slices.Equal(got, c.Want) {
			t.Errorf("%s: references mismatched! want %v, got %v", c.Formula, c.Want, got)
		}
	}
	sh, _ := wb.Find("Sheet1")
	for _, addr := range []string{"A1", "A2", "A3", "A5", "A10"} {
		if _, ok := sh.Lookup(layout.ParsePosition(addr)); !ok {
			t.Errorf("%s: referenced cell should have been created", addr)
		}
	}
	if dim := sh.Dimension(); dim.Lines != 1 || dim.Columns != 3 {
		t.Errorf("created cells should not change sheet dimension, got %dx%d", dim.Lines, dim.Columns)
	}
	_, err := engine.ReferencedCells("=1+", anchor.Anchor())
	if !errors.Is(err, parse.ErrSyntax) {
		t.Errorf("invalid formula: syntax error expected, got %v", err)
	}
}

func TestEvaluateWithReferences(t *testing.T) {
	data := map[string][]cellData{
		"Sheet1": {
			{Addr: "A1", Input: "2"},
			{Addr: "A2", Input: "3"},
		},
	}
	var (
		wb     = createWorkbook(t, data)
		anchor = anchorAt(t, wb, "Sheet1", "C1")
		engine = eval.NewEngine()
	)
	val, refs := engine.EvaluateWithReferences("=A1*A2", anchor.Anchor())
	if val != value.Int(6) {
		t.Errorf("result mismatched! want 6, got %v", val)
	}
	if refs.Len() != 2 || !refs.Has(layout.Position{Sheet: "Sheet1", Line: 1, Column: 1}) {
		t.Errorf("unexpected references: %v", refs.Positions())
	}
	expr, err := parse.Parse("=A1+A2")
	if err != nil {
		t.Fatalf("fail to parse formula: %s", err)
	}
	if got := engine.EvaluateExpr(expr, anchor.Anchor()); got != value.Int(5) {
		t.Errorf("result mismatched! want 5, got %v", got)
	}
}

func TestCircularReferences(t *testing.T) {
	t.Run("mutual", func(t *testing.T) {
		data := map[string][]cellData{
			"Sheet1": {
				{Addr: "A1", Input: "=B1"},
				{Addr: "B1", Input: "=A1"},
			},
		}
		var (
			wb     = createWorkbook(t, data)
			engine = eval.NewEngine()
		)
		for _, addr := range []string{"A1", "B1"} {
			got := anchorAt(t, wb, "Sheet1", addr).Result(engine)
			if got != value.Int(0) {
				t.Errorf("%s: result mismatched! want 0, got %v", addr, got)
			}
		}
	})
	t.Run("previous-value", func(t *testing.T) {
		data := map[string][]cellData{
			"Sheet1": {
				{Addr: "A1", Input: "5"},
				{Addr: "B1", Input: "=A1"},
				{Addr: "A1", Input: "=B1+5"},
			},
		}
		var (
			wb     = createWorkbook(t, data)
			engine = eval.NewEngine()
		)
		b1 := anchorAt(t, wb, "Sheet1", "B1")
		if got := b1.Result(engine); got != value.Int(5) {
			t.Errorf("B1: result mismatched! want 5, got %v", got)
		}
		if got := engine.Evaluate(b1.Text(), b1.Anchor()); got != value.Int(5) {
			t.Errorf("B1: evaluated text mismatched! want 5, got %v", got)
		}
		if got := anchorAt(t, wb, "Sheet1", "A1").Result(engine); got != value.Int(10) {
			t.Errorf("A1: result mismatched! want 10, got %v", got)
		}
	})
	t.Run("self", func(t *testing.T) {
		data := map[string][]cellData{
			"Sheet1": {
				{Addr: "A1", Input: "=A1+1"},
			},
		}
		var (
			wb     = createWorkbook(t, data)
			engine = eval.NewEngine()
		)
		if got := anchorAt(t, wb, "Sheet1", "A1").Result(engine); got != value.Int(1) {
			t.Errorf("A1: result mismatched! want 1, got %v", got)
		}
	})
}

func TestMaxDepth(t *testing.T) {
	data := map[string][]cellData{
		"Sheet1": {
			{Addr: "A1", Input: "=A2"},
			{Addr: "A2", Input: "=A3"},
			{Addr: "A3", Input: "=A4"},
			{Addr: "A4", Input: "=A5"},
			{Addr: "A5", Input: "1"},
		},
	}
	wb := createWorkbook(t, data)

	cfg := eval.DefaultConfig()
	cfg.MaxDepth = 3
	engine := eval.NewEngine(eval.WithConfig(cfg))
	if got := anchorAt(t, wb, "Sheet1", "A1").Result(engine); got != value.ErrNum {
		t.Errorf("depth exceeded: want #NUM!, got %v", got)
	}
	engine = eval.NewEngine()
	if got := anchorAt(t, wb, "Sheet1", "A1").Result(engine); got != value.Int(1) {
		t.Errorf("result mismatched! want 1, got %v", got)
	}
}

func TestSharedFormula(t *testing.T) {
	data := map[string][]cellData{
		"Sheet1": {
			{Addr: "A1", Input: "1"},
			{Addr: "A2", Input: "5"},
			{Addr: "B1", Input: "=A1*2"},
			{Addr: "C2", Input: "=B2"},
		},
	}
	var (
		wb     = createWorkbook(t, data)
		engine = eval.NewEngine()
	)
	sh, _ := wb.Find("Sheet1")
	b1 := anchorAt(t, wb, "Sheet1", "B1")
	b2 := anchorAt(t, wb, "Sheet1", "B2")
	if err := b2.Share(b1); err != nil {
		t.Fatalf("fail to share formula: %s", err)
	}
	if got := b2.Result(engine); got != value.Int(10) {
		t.Errorf("B2: result mismatched! want 10, got %v", got)
	}
	origin, _ := b2.Formula()
	val, refs := engine.EvaluateWithReferences(origin.Text, b2.Anchor())
	if val != value.Int(10) {
		t.Errorf("B2: evaluated text mismatched! want 10, got %v", val)
	}
	want := []layout.Position{{Sheet: "Sheet1", Line: 2, Column: 1}}
	if got := refs.Positions(); !slices.Equal(got, want) {
		t.Errorf("B2: references mismatched! want %v, got %v", want, got)
	}
	cells, err := engine.ReferencedCells(origin.Text, b2.Anchor())
	if err != nil || !cells.Has(want[0]) || cells.Len() != 1 {
		t.Errorf("B2: referenced cells mismatched! want %v, got %v (%v)", want, cells.Positions(), err)
	}
	if got := anchorAt(t, wb, "Sheet1", "C2").Result(engine); got != value.Int(10) {
		t.Errorf("C2: result mismatched! want 10, got %v", got)
	}
	if err := sh.Copy(layout.ParsePosition("B1"), layout.ParsePosition("A3"), grid.CopyFormula); err != nil {
		t.Fatalf("fail to copy formula: %s", err)
	}
	if got := anchorAt(t, wb, "Sheet1", "A3").Result(engine); got != value.ErrRef {
		t.Errorf("A3: reference before column A expected #REF!, got %v", got)
	}
}

func TestEvaluateTwice(t *testing.T) {
	data := map[string][]cellData{
		"Sheet1": {
			{Addr: "A1", Input: "1"},
			{Addr: "A2", Input: "=A1+1"},
			{Addr: "A3", Input: "3"},
		},
		"Title": {
			{Addr: "B2", Input: "10"},
		},
	}
	var (
		wb     = createWorkbook(t, data)
		anchor = anchorAt(t, wb, "Sheet1", "C1")
		engine = eval.NewEngine()
	)
	const formula = "=SUM(A1:A3)+Title!B2"

	val1, refs1 := engine.EvaluateWithReferences(formula, anchor.Anchor())
	val2, refs2 := engine.EvaluateWithReferences(formula, anchor.Anchor())
	if val1 != value.Int(16) {
		t.Errorf("result mismatched! want 16, got %v", val1)
	}
	if val1 != val2 {
		t.Errorf("results differ between evaluations: %v and %v", val1, val2)
	}
	if !slices.Equal(refs1.Positions(), refs2.Positions()) {
		t.Errorf("references differ between evaluations: %v and %v", refs1.Positions(), refs2.Positions())
	}
	if refs1.Len() != 4 {
		t.Errorf("expected 4 references, got %v", refs1.Positions())
	}
}

func TestRegister(t *testing.T) {
	engine := eval.NewEngine()
	engine.Register("double", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, value.ErrNA
		}
		return value.Mul(args[0], value.Int(2))
	})
	wb := createWorkbook(t, nil)
	anchor := anchorAt(t, wb, "Sheet1", "A1")
	if got := engine.Evaluate("=DOUBLE(21)", anchor.Anchor()); got != value.Int(42) {
		t.Errorf("result mismatched! want 42, got %v", got)
	}
	if got := engine.Evaluate("=DOUBLE()", anchor.Anchor()); got != value.ErrNA {
		t.Errorf("result mismatched! want #N/A, got %v", got)
	}
}

func TestConfig(t *testing.T) {
	const doc = `
[engine]
depth = 12

[engine.aliases]
total = "sum"
somme = "SUM"

[log]
level = "DEBUG"
format = "json"
`
	cfg, err := eval.ReadConfig(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("fail to read config: %s", err)
	}
	if cfg.MaxDepth != 12 {
		t.Errorf("depth mismatched! want 12, got %d", cfg.MaxDepth)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.Aliases["total"] != "sum" {
		t.Errorf("alias not found: %v", cfg.Aliases)
	}
	engine := eval.NewEngine(eval.WithConfig(cfg))
	anchor := anchorAt(t, createWorkbook(t, nil), "Sheet1", "A1")
	if got := engine.Evaluate("=TOTAL(1,2)+SOMME(3)", anchor.Anchor()); got != value.Int(6) {
		t.Errorf("result mismatched! want 6, got %v", got)
	}
	if names := engine.Functions().Complete("so"); !slices.Equal(names, []string{"SOMME"}) {
		t.Errorf("completion mismatched: %v", names)
	}

	invalid := []string{
		"[engine]\nunknown = 1",
		"[engine]\ndepth = \"deep\"",
		"[engine]\ndepth = 0",
		"[log]\nlevel = \"loud\"",
		"[log]\nformat = \"xml\"",
		"verbose = true",
	}
	for _, str := range invalid {
		if _, err := eval.ReadConfig(strings.NewReader(str)); !errors.Is(err, eval.ErrOption) {
			t.Errorf("%q: expected invalid option, got %v", str, err)
		}
	}
}
