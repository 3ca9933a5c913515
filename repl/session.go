package repl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/midbel/gnumeric/format"
	"github.com/midbel/gnumeric/formula/eval"
	"github.com/midbel/gnumeric/grid"
	"github.com/midbel/gnumeric/layout"
)

var (
	ErrQuit    = errors.New("quit")
	ErrCommand = errors.New("unknown command")
	ErrUsage   = errors.New("invalid usage")
)

const helpText = `formula          evaluate formula at the current cell (leading = optional)
:cell [sheet!]A1 move the current cell
:set A1 input    assign a value or a formula to a cell
:text A1         show the formula of a cell relocated to it
:refs formula    list the cells read by a formula
:copy A1 B1 [all|value|formula]
:sheet name      change the current sheet
:sheets          list the sheets
:print           print the current sheet
:funcs [prefix]  list the functions
:quit            leave`

// Session evaluates the lines typed by a user against a workbook. Formulas
// are evaluated as if they were written in the current cell.
type Session struct {
	book   *grid.Workbook
	sheet  *grid.Sheet
	anchor layout.Position

	engine    *eval.Engine
	formatter *format.ValueFormatter
}

func NewSession(book *grid.Workbook, engine *eval.Engine) (*Session, error) {
	if book == nil {
		book = grid.NewWorkbook()
	}
	if book.Len() == 0 {
		if _, err := book.CreateSheet("Sheet1"); err != nil {
			return nil, err
		}
	}
	if engine == nil {
		engine = eval.NewEngine()
	}
	s := Session{
		book:      book,
		sheet:     book.Active(),
		anchor:    layout.Position{Line: 1, Column: 1},
		engine:    engine,
		formatter: format.FormatValue(),
	}
	return &s, nil
}

// SetNumberPattern changes how numbers are written by the session.
func (s *Session) SetNumberPattern(pattern string) error {
	return s.formatter.Number(pattern)
}

func (s *Session) Sheet() *grid.Sheet {
	return s.sheet
}

// Anchor is the qualified address of the current cell.
func (s *Session) Anchor() layout.Position {
	pos := s.anchor
	pos.Sheet = s.sheet.Name()
	return pos
}

func (s *Session) Prompt() string {
	return s.Anchor().Addr() + "> "
}

// Exec runs a command when line starts with a colon and evaluates it as a
// formula otherwise. ErrQuit is returned when the user asks to leave.
func (s *Session) Exec(line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil
	}
	if !strings.HasPrefix(line, ":") {
		return s.evaluate(line)
	}
	name, rest, _ := strings.Cut(line[1:], " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(name) {
	case "q", "quit", "exit":
		return "", ErrQuit
	case "h", "help":
		return helpText, nil
	case "cell":
		return s.moveTo(rest)
	case "set":
		return s.set(rest)
	case "text":
		return s.text(rest)
	case "refs":
		return s.refs(rest)
	case "copy":
		return s.copy(rest)
	case "sheet":
		return s.switchSheet(rest)
	case "sheets":
		return s.sheets(), nil
	case "print":
		var str strings.Builder
		PrintValue(&str, DefaultRows, DefaultCols, s.formatter).PrintSheet(s.sheet, s.engine)
		return strings.TrimRight(str.String(), "\n"), nil
	case "funcs":
		return strings.Join(s.engine.Functions().Complete(rest), " "), nil
	default:
		return "", fmt.Errorf("%s: %w", name, ErrCommand)
	}
}

// Complete gives the candidates for the function name being typed at the
// end of line. Each candidate is the full line with the name completed.
func (s *Session) Complete(line string) []string {
	start := len(line)
	for start > 0 && isNameChar(line[start-1]) {
		start--
	}
	prefix := line[start:]
	if prefix == "" || strings.HasPrefix(line, ":") && !strings.HasPrefix(line, ":refs") {
		return nil
	}
	var list []string
	for _, name := range s.engine.Functions().Complete(prefix) {
		list = append(list, line[:start]+name+"(")
	}
	return list
}

func (s *Session) evaluate(line string) (string, error) {
	if line[0] != '=' && line[0] != '+' {
		line = "=" + line
	}
	cell, err := s.sheet.Cell(s.anchor)
	if err != nil {
		return "", err
	}
	res := s.engine.Evaluate(line, cell.Anchor())
	return s.formatter.Format(res)
}

func (s *Session) moveTo(addr string) (string, error) {
	if addr == "" {
		return s.Anchor().Addr(), nil
	}
	pos, err := layout.ParseAddress(addr)
	if err != nil {
		return "", err
	}
	sheet := s.sheet
	if pos.Sheet != "" {
		if sheet, err = s.book.Find(pos.Sheet); err != nil {
			return "", err
		}
	}
	if _, err := sheet.Cell(pos); err != nil {
		return "", err
	}
	s.sheet = sheet
	s.anchor = layout.Position{Line: pos.Line, Column: pos.Column}
	return s.Anchor().Addr(), nil
}

func (s *Session) set(args string) (string, error) {
	addr, input, ok := strings.Cut(args, " ")
	if !ok || addr == "" {
		return "", fmt.Errorf("%w: :set A1 input", ErrUsage)
	}
	cell, err := s.lookup(addr)
	if err != nil {
		return "", err
	}
	if err := cell.Set(strings.TrimSpace(input)); err != nil {
		return "", err
	}
	return s.formatter.Format(cell.Result(s.engine))
}

func (s *Session) text(addr string) (string, error) {
	cell, err := s.lookup(addr)
	if err != nil {
		return "", err
	}
	return cell.Text(), nil
}

func (s *Session) refs(formula string) (string, error) {
	if formula == "" {
		return "", fmt.Errorf("%w: :refs formula", ErrUsage)
	}
	if formula[0] != '=' && formula[0] != '+' {
		formula = "=" + formula
	}
	cell, err := s.sheet.Cell(s.anchor)
	if err != nil {
		return "", err
	}
	set, err := s.engine.ReferencedCells(formula, cell.Anchor())
	if err != nil {
		return "", err
	}
	var list []string
	for _, pos := range set.Positions() {
		list = append(list, pos.Addr())
	}
	return strings.Join(list, " "), nil
}

func (s *Session) copy(args string) (string, error) {
	parts := strings.Fields(args)
	if len(parts) < 2 || len(parts) > 3 {
		return "", fmt.Errorf("%w: :copy A1 B1 [all|value|formula]", ErrUsage)
	}
	var mode string
	if len(parts) == 3 {
		mode = parts[2]
	}
	cm, err := grid.CopyModeFromString(mode)
	if err != nil {
		return "", err
	}
	from, err := layout.ParseAddress(parts[0])
	if err != nil {
		return "", err
	}
	to, err := layout.ParseAddress(parts[1])
	if err != nil {
		return "", err
	}
	if err := s.sheet.Copy(from, to, cm); err != nil {
		return "", err
	}
	return s.text(parts[1])
}

func (s *Session) switchSheet(name string) (string, error) {
	sh, err := s.book.Find(name)
	if err != nil {
		return "", err
	}
	s.sheet = sh
	return s.Anchor().Addr(), nil
}

func (s *Session) sheets() string {
	var list []string
	for _, sh := range s.book.Sheets() {
		name := sh.Name()
		if sh == s.sheet {
			name = "*" + name
		}
		list = append(list, name)
	}
	return strings.Join(list, " ")
}

func (s *Session) lookup(addr string) (*grid.Cell, error) {
	pos, err := layout.ParseAddress(addr)
	if err != nil {
		return nil, err
	}
	sheet := s.sheet
	if pos.Sheet != "" {
		if sheet, err = s.book.Find(pos.Sheet); err != nil {
			return nil, err
		}
	}
	return sheet.Cell(pos)
}

func isNameChar(c byte) bool {
	return c == '_' || c == '.' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
