package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/midbel/gnumeric/formula/op"
	"github.com/midbel/gnumeric/layout"
	"github.com/midbel/gnumeric/value"
)

type Expr interface {
	fmt.Stringer
}

type Clonable interface {
	CloneWithOffset(layout.Position) Expr
}

// CloneWithOffset moves every relative reference of expr by the given offset.
func CloneWithOffset(expr Expr, pos layout.Position) Expr {
	if c, ok := expr.(Clonable); ok {
		return c.CloneWithOffset(pos)
	}
	return expr
}

// Format renders expr as the text of a formula.
func Format(expr Expr) string {
	return "=" + expr.String()
}

type Binary struct {
	left  Expr
	right Expr
	op    op.Op
}

func NewBinary(left, right Expr, oper op.Op) Expr {
	return Binary{
		left:  left,
		right: right,
		op:    oper,
	}
}

func (b Binary) Left() Expr {
	return b.left
}

func (b Binary) Right() Expr {
	return b.right
}

func (b Binary) Op() op.Op {
	return b.op
}

func (b Binary) String() string {
	oper := op.Symbol(b.op)
	return fmt.Sprintf("%s%s%s", b.left.String(), oper, b.right.String())
}

func (b Binary) CloneWithOffset(pos layout.Position) Expr {
	x := Binary{
		left:  CloneWithOffset(b.left, pos),
		right: CloneWithOffset(b.right, pos),
		op:    b.op,
	}
	return x
}

type Unary struct {
	expr Expr
	op   op.Op
}

func NewUnary(expr Expr, oper op.Op) Expr {
	return Unary{
		expr: expr,
		op:   oper,
	}
}

func (u Unary) Expr() Expr {
	return u.expr
}

func (u Unary) Op() op.Op {
	return u.op
}

func (u Unary) String() string {
	oper := op.Symbol(u.op)
	return fmt.Sprintf("%s%s", oper, u.expr.String())
}

func (u Unary) CloneWithOffset(pos layout.Position) Expr {
	x := Unary{
		expr: CloneWithOffset(u.expr, pos),
		op:   u.op,
	}
	return x
}

type Group struct {
	expr Expr
}

func NewGroup(expr Expr) Expr {
	return Group{
		expr: expr,
	}
}

func (g Group) Expr() Expr {
	return g.expr
}

func (g Group) String() string {
	return fmt.Sprintf("(%s)", g.expr.String())
}

func (g Group) CloneWithOffset(pos layout.Position) Expr {
	return Group{
		expr: CloneWithOffset(g.expr, pos),
	}
}

type Literal struct {
	value string
}

func NewLiteral(value string) Expr {
	return Literal{
		value: value,
	}
}

func (i Literal) Text() string {
	return i.value
}

func (i Literal) String() string {
	return fmt.Sprintf("\"%s\"", i.value)
}

type Number struct {
	value value.ScalarValue
	raw   string
}

func NewNumber(x float64) Expr {
	return Number{
		value: value.Float(x),
		raw:   strconv.FormatFloat(x, 'f', -1, 64),
	}
}

func NewInteger(x int64) Expr {
	return Number{
		value: value.Int(x),
		raw:   strconv.FormatInt(x, 10),
	}
}

func (n Number) Value() value.ScalarValue {
	return n.value
}

func (n Number) String() string {
	return n.raw
}

type Boolean struct {
	value bool
}

func NewBoolean(b bool) Expr {
	return Boolean{
		value: b,
	}
}

func (b Boolean) Value() bool {
	return b.value
}

func (b Boolean) String() string {
	return value.Boolean(b.value).String()
}

type ErrorLit struct {
	code value.Error
}

func NewError(code value.Error) Expr {
	return ErrorLit{
		code: code,
	}
}

func (e ErrorLit) Code() value.Error {
	return e.code
}

func (e ErrorLit) String() string {
	return e.code.String()
}

// Name is a bare word that is neither a boolean nor a cell address.
type Name struct {
	name string
}

func NewName(name string) Expr {
	return Name{
		name: name,
	}
}

func (n Name) Ident() string {
	return n.name
}

func (n Name) String() string {
	return n.name
}

type Call struct {
	name string
	args []Expr
}

func NewCall(name string, args []Expr) Expr {
	return Call{
		name: name,
		args: args,
	}
}

func (c Call) Name() string {
	return c.name
}

func (c Call) Args() []Expr {
	return c.args
}

func (c Call) String() string {
	var args []string
	for i := range c.args {
		args = append(args, c.args[i].String())
	}
	return fmt.Sprintf("%s(%s)", c.name, strings.Join(args, ","))
}

func (c Call) CloneWithOffset(pos layout.Position) Expr {
	x := Call{
		name: c.name,
	}
	for i := range c.args {
		x.args = append(x.args, CloneWithOffset(c.args[i], pos))
	}
	return x
}

type CellAddr struct {
	layout.Position
	AbsCol bool
	AbsRow bool
}

func NewCellAddr(pos layout.Position, col, row bool) Expr {
	return CellAddr{
		Position: pos,
		AbsCol:   col,
		AbsRow:   row,
	}
}

func (a CellAddr) String() string {
	return formatCellAddr(a)
}

func (a CellAddr) CloneWithOffset(pos layout.Position) Expr {
	x := a
	if !x.AbsRow {
		x.Line += pos.Line
	}
	if !x.AbsCol {
		x.Column += pos.Column
	}
	return x
}

type RangeAddr struct {
	startAt CellAddr
	endAt   CellAddr
}

func NewRangeAddr(start, end CellAddr) Expr {
	return RangeAddr{
		startAt: start,
		endAt:   end,
	}
}

func (a RangeAddr) StartAt() CellAddr {
	return a.startAt
}

// EndAt returns the end of the range, qualified with the sheet of its start.
func (a RangeAddr) EndAt() CellAddr {
	end := a.endAt
	end.Sheet = a.startAt.Sheet
	return end
}

func (a RangeAddr) String() string {
	end := a.endAt
	end.Sheet = ""
	return fmt.Sprintf("%s:%s", formatCellAddr(a.startAt), formatCellAddr(end))
}

func (a RangeAddr) CloneWithOffset(pos layout.Position) Expr {
	return RangeAddr{
		startAt: a.startAt.CloneWithOffset(pos).(CellAddr),
		endAt:   a.endAt.CloneWithOffset(pos).(CellAddr),
	}
}

func formatCellAddr(a CellAddr) string {
	var buf strings.Builder
	if a.Sheet != "" {
		buf.WriteString(layout.QuoteSheet(a.Sheet))
		buf.WriteString("!")
	}
	if a.AbsCol {
		buf.WriteString("$")
	}
	buf.WriteString(layout.ColumnName(a.Column))
	if a.AbsRow {
		buf.WriteString("$")
	}
	buf.WriteString(strconv.FormatInt(a.Line, 10))
	return buf.String()
}
