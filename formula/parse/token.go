package parse

import (
	"fmt"

	"github.com/midbel/gnumeric/formula/op"
)

// Token is a lexeme of a formula. Offset is the position of its first byte
// in the text following the leading =.
type Token struct {
	Type    op.Op
	Literal string
	Offset  int
}

var tokenNames = map[op.Op]string{
	op.Add:      "add",
	op.Sub:      "subtract",
	op.Mul:      "multiply",
	op.Div:      "divide",
	op.Pow:      "power",
	op.Concat:   "concat",
	op.Eq:       "equal",
	op.Ne:       "notequal",
	op.Lt:       "lesser",
	op.Le:       "lesseq",
	op.Gt:       "greater",
	op.Ge:       "greateq",
	op.Comma:    "comma",
	op.BegGrp:   "beg-group",
	op.EndGrp:   "end-group",
	op.RangeRef: "range",
	op.SheetRef: "sheet",
	op.EOF:      "eof",
	op.Invalid:  "invalid",
}

var valueNames = map[op.Op]string{
	op.Ident:    "identifier",
	op.Number:   "number",
	op.Literal:  "literal",
	op.Sheet:    "sheet",
	op.ErrorLit: "error",
}

func (t Token) String() string {
	if name, ok := valueNames[t.Type]; ok {
		return fmt.Sprintf("%s(%s)", name, t.Literal)
	}
	if name, ok := tokenNames[t.Type]; ok {
		return "<" + name + ">"
	}
	return fmt.Sprintf("<%d>", t.Type)
}
