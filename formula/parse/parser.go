package parse

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/midbel/gnumeric/formula/op"
	"github.com/midbel/gnumeric/layout"
	"github.com/midbel/gnumeric/value"
)

var ErrSyntax = errors.New("syntax error")

const (
	maxColumnLetters = 3
	maxRowDigits     = 5
)

var binaryOperators = []op.Op{
	op.Add,
	op.Sub,
	op.Mul,
	op.Div,
	op.Pow,
	op.Concat,
	op.Eq,
	op.Ne,
	op.Lt,
	op.Le,
	op.Gt,
	op.Ge,
}

func FormulaGrammar() *Grammar {
	g := NewGrammar("formula")

	g.RegisterPrefix(op.Ident, parseIdent)
	g.RegisterPrefix(op.Sheet, parseQualifiedAddress)
	g.RegisterPrefix(op.Number, parseNumber)
	g.RegisterPrefix(op.Literal, parseLiteral)
	g.RegisterPrefix(op.ErrorLit, parseErrorLit)
	g.RegisterPrefix(op.Sub, parseUnary)
	g.RegisterPrefix(op.Add, parseUnary)
	g.RegisterPrefix(op.BegGrp, parseGroup)

	for _, kind := range binaryOperators {
		g.RegisterInfix(kind, parseBinary)
	}

	return g
}

// ArgumentGrammar is used for the arguments of a function call, the only
// place where a range is accepted.
func ArgumentGrammar() *Grammar {
	g := FormulaGrammar()
	g.name = "argument"

	g.RegisterInfix(op.RangeRef, parseRangeAddress)

	return g
}

type Parser struct {
	scan *Scanner
	curr Token
	peek Token

	formula  *Grammar
	argument *Grammar
	stack    *GrammarStack
}

// Parse parses the text of a formula. The text must start with = or +.
func Parse(str string) (Expr, error) {
	return NewParser().ParseString(str)
}

func NewParser() *Parser {
	p := Parser{
		formula:  FormulaGrammar(),
		argument: ArgumentGrammar(),
		stack:    new(GrammarStack),
	}
	p.pushGrammar(p.formula)
	return &p
}

func (p *Parser) ParseString(str string) (Expr, error) {
	return p.Parse(strings.NewReader(str))
}

func (p *Parser) Parse(r io.Reader) (Expr, error) {
	input, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(input) == 0 || (input[0] != equal && input[0] != plus) {
		return nil, fmt.Errorf("%w: formula should start with '=' or '+'", ErrSyntax)
	}
	p.Init(ScanBytes(input[1:]))
	return p.parseFormula()
}

func (p *Parser) Init(scan *Scanner) {
	p.scan = scan
	*p.stack = (*p.stack)[:0]
	p.pushGrammar(p.formula)
	p.next()
	p.next()
}

func (p *Parser) parseFormula() (Expr, error) {
	if p.done() {
		return nil, p.makeError("empty formula")
	}
	expr, err := p.parse(powLowest)
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, p.makeError("invalid formula given")
	}
	return expr, nil
}

func (p *Parser) parse(pow int) (Expr, error) {
	fn, err := p.prefix()
	if err != nil {
		return nil, err
	}
	left, err := fn(p)
	if err != nil {
		return nil, err
	}
	for !p.done() && pow < p.pow(p.curr.Type) {
		fn, err := p.infix()
		if err != nil {
			return nil, err
		}
		left, err = fn(p, left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) next() {
	p.curr = p.peek
	p.peek = p.scan.Scan()
}

func (p *Parser) done() bool {
	return p.is(op.EOF)
}

func (p *Parser) is(kind op.Op) bool {
	return p.curr.Type == kind
}

func (p *Parser) currentLiteral() string {
	return p.curr.Literal
}

func (p *Parser) pow(kind op.Op) int {
	return p.stack.Pow(kind)
}

func (p *Parser) prefix() (PrefixFunc, error) {
	return p.stack.Prefix(p.curr)
}

func (p *Parser) infix() (InfixFunc, error) {
	return p.stack.Infix(p.curr)
}

func (p *Parser) pushGrammar(g *Grammar) {
	p.stack.Push(g)
}

func (p *Parser) popGrammar() {
	p.stack.Pop()
}

func (p *Parser) makeError(msg string) error {
	return fmt.Errorf("(%d) %w: %s: %s (%s)", p.curr.Offset, ErrSyntax, p.stack.Context(), msg, p.curr)
}

func parseCall(p *Parser, name string) (Expr, error) {
	p.next()
	p.next()

	p.pushGrammar(p.argument)
	defer p.popGrammar()

	var args []Expr
	for !p.done() && !p.is(op.EndGrp) {
		arg, err := p.parse(powLowest)
		if err != nil {
			return nil, err
		}
		switch p.curr.Type {
		case op.Comma:
			p.next()
			if p.is(op.EndGrp) {
				return nil, p.makeError("missing argument after comma")
			}
		case op.EndGrp:
		default:
			return nil, p.makeError("unexpected character in function call")
		}
		args = append(args, arg)
	}
	if !p.is(op.EndGrp) {
		return nil, p.makeError("missing ')' at end of function call")
	}
	p.next()
	return NewCall(name, args), nil
}

func parseBinary(p *Parser, left Expr) (Expr, error) {
	oper := p.curr.Type
	p.next()
	pow := p.pow(oper)
	if oper == op.Pow {
		pow--
	}
	right, err := p.parse(pow)
	if err != nil {
		return nil, err
	}
	return NewBinary(left, right, oper), nil
}

func parseUnary(p *Parser) (Expr, error) {
	oper := p.curr.Type
	p.next()
	right, err := p.parse(powUnary)
	if err != nil {
		return nil, err
	}
	return NewUnary(right, oper), nil
}

func parseGroup(p *Parser) (Expr, error) {
	p.next()

	p.pushGrammar(p.formula)
	defer p.popGrammar()

	expr, err := p.parse(powLowest)
	if err != nil {
		return nil, err
	}
	if !p.is(op.EndGrp) {
		return nil, p.makeError("missing ')' at end of expression")
	}
	p.next()
	return NewGroup(expr), nil
}

func parseNumber(p *Parser) (Expr, error) {
	defer p.next()

	str := p.currentLiteral()
	if !strings.ContainsAny(str, ".eE") {
		if n, err := strconv.ParseInt(str, 10, 64); err == nil {
			return NewInteger(n), nil
		}
	}
	x, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return nil, p.makeError("invalid number")
	}
	return Number{
		value: value.Float(x),
		raw:   str,
	}, nil
}

func parseLiteral(p *Parser) (Expr, error) {
	defer p.next()
	return NewLiteral(p.currentLiteral()), nil
}

func parseErrorLit(p *Parser) (Expr, error) {
	defer p.next()
	code, ok := value.ParseError(p.currentLiteral())
	if !ok {
		return nil, p.makeError("unknown error code")
	}
	return NewError(code), nil
}

// parseIdent classifies a bare word once its context is known: a function
// name when followed by a parenthesis, a sheet name when followed by a bang,
// a boolean, a cell address or an unresolved name otherwise.
func parseIdent(p *Parser) (Expr, error) {
	ident := p.currentLiteral()
	switch p.peek.Type {
	case op.BegGrp:
		return parseCall(p, ident)
	case op.SheetRef:
		return parseQualifiedAddress(p)
	default:
	}
	defer p.next()
	switch strings.ToUpper(ident) {
	case "TRUE":
		return NewBoolean(true), nil
	case "FALSE":
		return NewBoolean(false), nil
	default:
	}
	if addr, err := parseCellAddr(ident); err == nil {
		return addr, nil
	}
	return NewName(ident), nil
}

func parseQualifiedAddress(p *Parser) (Expr, error) {
	sheet := p.currentLiteral()
	p.next()
	if !p.is(op.SheetRef) {
		return nil, p.makeError("'!' expected after sheet name")
	}
	p.next()
	if sheet == "" {
		return nil, p.makeError("empty sheet name")
	}
	addr, err := parseAddress(p)
	if err != nil {
		return nil, err
	}
	addr.Sheet = sheet
	return addr, nil
}

func parseRangeAddress(p *Parser, left Expr) (Expr, error) {
	p.next()

	start, ok := left.(CellAddr)
	if !ok {
		return nil, p.makeError("range: address expected")
	}
	var (
		end CellAddr
		err error
	)
	switch {
	case (p.is(op.Ident) || p.is(op.Sheet)) && p.peek.Type == op.SheetRef:
		var expr Expr
		expr, err = parseQualifiedAddress(p)
		if err == nil {
			end = expr.(CellAddr)
			if !strings.EqualFold(end.Sheet, start.Sheet) {
				return nil, p.makeError("range: both ends should be on the same sheet")
			}
			end.Sheet = ""
		}
	default:
		end, err = parseAddress(p)
	}
	if err != nil {
		return nil, err
	}
	return NewRangeAddr(start, end), nil
}

func parseAddress(p *Parser) (CellAddr, error) {
	if !p.is(op.Ident) {
		return CellAddr{}, p.makeError("address expected")
	}
	addr, err := parseCellAddr(p.currentLiteral())
	if err != nil {
		return addr, p.makeError(err.Error())
	}
	p.next()
	return addr, nil
}

// parseCellAddr recognizes $?[A-Za-z]{1,3}$?[0-9]{1,5}.
func parseCellAddr(str string) (CellAddr, error) {
	var (
		addr   CellAddr
		offset int
	)
	if offset < len(str) && str[offset] == dollar {
		addr.AbsCol = true
		offset++
	}
	start := offset
	for offset < len(str) && isAsciiLetter(str[offset]) {
		offset++
	}
	if n := offset - start; n == 0 || n > maxColumnLetters {
		return addr, fmt.Errorf("%s: invalid column", str)
	}
	addr.Column, _ = layout.ParseIndex(str[start:offset])
	if offset < len(str) && str[offset] == dollar {
		addr.AbsRow = true
		offset++
	}
	start = offset
	for offset < len(str) && isDigit(str[offset]) {
		offset++
	}
	if n := offset - start; n == 0 || n > maxRowDigits || offset != len(str) {
		return addr, fmt.Errorf("%s: invalid row", str)
	}
	addr.Line, _ = strconv.ParseInt(str[start:], 10, 64)
	if addr.Line == 0 {
		return addr, fmt.Errorf("%s: invalid row", str)
	}
	return addr, nil
}

func isAsciiLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
