package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/midbel/cli"
	"github.com/midbel/gnumeric/csv"
	"github.com/midbel/gnumeric/doc"
	"github.com/midbel/gnumeric/format"
	"github.com/midbel/gnumeric/grid"
	"github.com/midbel/gnumeric/layout"
	"github.com/midbel/gnumeric/repl"
)

var evalCmd = cli.Command{
	Name:    "eval",
	Alias:   []string{"calc"},
	Summary: "evaluate a formula against a spreadsheet",
	Usage:   "eval [-s sheet] [-c cell] [-n pattern] [<spreadsheet>] <formula>",
	Handler: &EvalFormulaCommand{},
}

var refsCmd = cli.Command{
	Name:    "refs",
	Summary: "list the cells read by a formula",
	Usage:   "refs [-s sheet] [-c cell] [<spreadsheet>] <formula>",
	Handler: &ReferencesCommand{},
}

var printCmd = cli.Command{
	Name:    "print",
	Alias:   []string{"view", "show"},
	Summary: "print the computed content of a sheet",
	Usage:   "print [-s sheet] [-r rows] [-c columns] [-n pattern] [-d] <spreadsheet>",
	Handler: &PrintSheetCommand{},
}

var infoCmd = cli.Command{
	Name:    "info",
	Summary: "get informations about sheets in given file",
	Usage:   "info <spreadsheet>",
	Handler: &GetInfoCommand{},
}

var textCmd = cli.Command{
	Name:    "text",
	Summary: "print the content of a cell as a user would type it",
	Usage:   "text <spreadsheet> <cell>",
	Handler: &CellTextCommand{},
}

var exportCmd = cli.Command{
	Name:    "export",
	Alias:   []string{"extract"},
	Summary: "export the computed values of a sheet as csv",
	Usage:   "export [-s sheet] [-o file] [-c delimiter] [-f] <spreadsheet>",
	Handler: &ExportSheetCommand{},
}

var convertCmd = cli.Command{
	Name:    "convert",
	Summary: "convert spreadsheet to another format",
	Usage:   "convert <spreadsheet> <file.gnumeric|file.yaml|file.csv>",
	Handler: &ConvertFileCommand{},
}

var funcsCmd = cli.Command{
	Name:    "funcs",
	Alias:   []string{"functions"},
	Summary: "list available functions",
	Usage:   "funcs [prefix]",
	Handler: &ListFunctionsCommand{},
}

var replCmd = cli.Command{
	Name:    "repl",
	Summary: "evaluate formulas interactively",
	Usage:   "repl [-s sheet] [-n pattern] [<spreadsheet>]",
	Handler: &ReplCommand{},
}

type EvalFormulaCommand struct {
	Sheet   string
	Cell    string
	Pattern string
}

func (c EvalFormulaCommand) Run(args []string) error {
	set := cli.NewFlagSet("eval")
	set.StringVar(&c.Sheet, "s", "", "sheet where the formula is evaluated")
	set.StringVar(&c.Cell, "c", "A1", "cell where the formula is evaluated")
	set.StringVar(&c.Pattern, "n", "", "number pattern")
	if err := set.Parse(args); err != nil {
		return err
	}
	file, formula, err := splitFormulaArgs(set.Args())
	if err != nil {
		return err
	}
	session, err := openSession(file, c.Sheet, c.Pattern)
	if err != nil {
		return err
	}
	if _, err := session.Exec(":cell " + c.Cell); err != nil {
		return err
	}
	res, err := session.Exec(formula)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, res)
	return nil
}

type ReferencesCommand struct {
	Sheet string
	Cell  string
}

func (c ReferencesCommand) Run(args []string) error {
	set := cli.NewFlagSet("refs")
	set.StringVar(&c.Sheet, "s", "", "sheet where the formula is evaluated")
	set.StringVar(&c.Cell, "c", "A1", "cell where the formula is evaluated")
	if err := set.Parse(args); err != nil {
		return err
	}
	file, formula, err := splitFormulaArgs(set.Args())
	if err != nil {
		return err
	}
	session, err := openSession(file, c.Sheet, "")
	if err != nil {
		return err
	}
	if _, err := session.Exec(":cell " + c.Cell); err != nil {
		return err
	}
	res, err := session.Exec(":refs " + formula)
	if err != nil {
		return err
	}
	for _, addr := range strings.Fields(res) {
		fmt.Fprintln(os.Stdout, addr)
	}
	return nil
}

type PrintSheetCommand struct {
	Sheet   string
	Rows    int
	Columns int
	Pattern string
	Debug   bool
}

func (c PrintSheetCommand) Run(args []string) error {
	set := cli.NewFlagSet("print")
	set.StringVar(&c.Sheet, "s", "", "sheet to print")
	set.IntVar(&c.Rows, "r", repl.DefaultRows, "maximum number of rows")
	set.IntVar(&c.Columns, "c", repl.DefaultCols, "maximum number of columns")
	set.StringVar(&c.Pattern, "n", "", "number pattern")
	set.BoolVar(&c.Debug, "d", false, "print the content of the cells")
	if err := set.Parse(args); err != nil {
		return err
	}
	wb, err := doc.Open(set.Arg(0))
	if err != nil {
		return err
	}
	sh, err := selectSheet(wb, c.Sheet)
	if err != nil {
		return err
	}
	engine, err := setupEngine()
	if err != nil {
		return err
	}
	var printer repl.Printer
	if c.Debug {
		printer = repl.DebugValue(os.Stdout, c.Rows, c.Columns)
	} else {
		vf := format.FormatValue()
		if c.Pattern != "" {
			if err := vf.Number(c.Pattern); err != nil {
				return err
			}
		}
		printer = repl.PrintValue(os.Stdout, c.Rows, c.Columns, vf)
	}
	printer.PrintSheet(sh, engine)
	return nil
}

type GetInfoCommand struct{}

func (c GetInfoCommand) Run(args []string) error {
	set := cli.NewFlagSet("info")
	if err := set.Parse(args); err != nil {
		return err
	}
	wb, err := doc.Open(set.Arg(0))
	if err != nil {
		return err
	}
	const pattern = "%3d %s %-20s %5d x %-5d %-12s %6d cells %4d formulas"
	for i, sh := range wb.Sheets() {
		var (
			dim    = sh.Dimension()
			active = " "
			used   = "-"
		)
		if sh == wb.Active() {
			active = "*"
		}
		if rg, ok := sh.Bounds(); ok {
			rg.Starts.Sheet = ""
			used = rg.String()
		}
		fmt.Fprintf(os.Stdout, pattern, i+1, active, sh.Name(), dim.Lines, dim.Columns, used, len(sh.Cells()), len(sh.Expressions()))
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

type CellTextCommand struct{}

func (c CellTextCommand) Run(args []string) error {
	set := cli.NewFlagSet("text")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() != 2 {
		return fmt.Errorf("spreadsheet and cell expected")
	}
	wb, err := doc.Open(set.Arg(0))
	if err != nil {
		return err
	}
	pos, err := layout.ParseAddress(set.Arg(1))
	if err != nil {
		return err
	}
	sh, err := selectSheet(wb, pos.Sheet)
	if err != nil {
		return err
	}
	cell, ok := sh.Lookup(pos)
	if !ok {
		return nil
	}
	fmt.Fprintln(os.Stdout, cell.Text())
	return nil
}

type ExportSheetCommand struct {
	Sheet     string
	OutFile   string
	Delimiter string
	Formulas  bool
}

func (c ExportSheetCommand) Run(args []string) error {
	set := cli.NewFlagSet("export")
	set.StringVar(&c.Sheet, "s", "", "sheet to export")
	set.StringVar(&c.OutFile, "o", "", "write result to output file")
	set.StringVar(&c.Delimiter, "c", ",", "delimiter to use")
	set.BoolVar(&c.Formulas, "f", false, "write formulas instead of their results")
	if err := set.Parse(args); err != nil {
		return err
	}
	if len(c.Delimiter) != 1 {
		return fmt.Errorf("%q: delimiter should be a single character", c.Delimiter)
	}
	wb, err := doc.Open(set.Arg(0))
	if err != nil {
		return err
	}
	sh, err := selectSheet(wb, c.Sheet)
	if err != nil {
		return err
	}
	engine, err := setupEngine()
	if err != nil {
		return err
	}
	if c.Formulas {
		engine = nil
	}
	var w io.Writer = os.Stdout
	if c.OutFile != "" {
		f, err := os.Create(c.OutFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return csv.Export(w, sh, engine, c.Delimiter[0])
}

type ConvertFileCommand struct{}

func (c ConvertFileCommand) Run(args []string) error {
	set := cli.NewFlagSet("convert")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() != 2 {
		return fmt.Errorf("input and output files expected")
	}
	wb, err := doc.Open(set.Arg(0))
	if err != nil {
		return err
	}
	return doc.Save(set.Arg(1), wb)
}

type ListFunctionsCommand struct{}

func (c ListFunctionsCommand) Run(args []string) error {
	set := cli.NewFlagSet("funcs")
	if err := set.Parse(args); err != nil {
		return err
	}
	engine, err := setupEngine()
	if err != nil {
		return err
	}
	for _, name := range engine.Functions().Complete(set.Arg(0)) {
		fmt.Fprintln(os.Stdout, name)
	}
	return nil
}

type ReplCommand struct {
	Sheet   string
	Pattern string
}

func (c ReplCommand) Run(args []string) error {
	set := cli.NewFlagSet("repl")
	set.StringVar(&c.Sheet, "s", "", "initial sheet")
	set.StringVar(&c.Pattern, "n", "", "number pattern")
	if err := set.Parse(args); err != nil {
		return err
	}
	session, err := openSession(set.Arg(0), c.Sheet, c.Pattern)
	if err != nil {
		return err
	}
	return repl.Run(session)
}

func splitFormulaArgs(args []string) (string, string, error) {
	switch len(args) {
	case 1:
		return "", args[0], nil
	case 2:
		return args[0], args[1], nil
	default:
		return "", "", fmt.Errorf("formula expected")
	}
}

// openSession loads file or starts from an empty workbook when no file is
// given.
func openSession(file, sheet, pattern string) (*repl.Session, error) {
	wb := grid.NewWorkbook()
	if file != "" {
		w, err := doc.Open(file)
		if err != nil {
			return nil, err
		}
		wb = w
	}
	if sheet != "" {
		if err := wb.SetActive(sheet); err != nil {
			return nil, err
		}
	}
	engine, err := setupEngine()
	if err != nil {
		return nil, err
	}
	session, err := repl.NewSession(wb, engine)
	if err != nil {
		return nil, err
	}
	if pattern != "" {
		if err := session.SetNumberPattern(pattern); err != nil {
			return nil, err
		}
	}
	return session, nil
}

func selectSheet(wb *grid.Workbook, name string) (*grid.Sheet, error) {
	if name == "" {
		sh := wb.Active()
		if sh == nil {
			return nil, fmt.Errorf("no sheet in workbook")
		}
		return sh, nil
	}
	return wb.Find(name)
}
