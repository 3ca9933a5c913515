package parse

import (
	"strings"

	"github.com/midbel/gnumeric/formula/op"
)

// DumpExpr gives the structure of a tree in a form suited for tests and
// debugging, eg binary(cell(A1), number(1), +).
func DumpExpr(expr Expr) string {
	var str strings.Builder
	dumpExpr(&str, expr)
	return str.String()
}

func dumpExpr(w *strings.Builder, expr Expr) {
	switch e := expr.(type) {
	case Name:
		dumpLeaf(w, "name", e.name)
	case Literal:
		dumpLeaf(w, "literal", e.value)
	case Number:
		dumpLeaf(w, "number", e.raw)
	case Boolean:
		dumpLeaf(w, "boolean", e.String())
	case ErrorLit:
		dumpLeaf(w, "error", e.code.String())
	case CellAddr:
		dumpLeaf(w, "cell", e.String())
	case RangeAddr:
		dumpLeaf(w, "range", e.String())
	case Group:
		dumpNode(w, "group", "", e.expr)
	case Unary:
		dumpNode(w, "unary", op.Symbol(e.op), e.expr)
	case Binary:
		dumpNode(w, "binary", op.Symbol(e.op), e.left, e.right)
	case Call:
		w.WriteString("call(")
		w.WriteString(e.name)
		for _, a := range e.args {
			w.WriteString(", ")
			dumpExpr(w, a)
		}
		w.WriteString(")")
	default:
		w.WriteString("<unknown>")
	}
}

func dumpLeaf(w *strings.Builder, kind, str string) {
	w.WriteString(kind)
	w.WriteString("(")
	w.WriteString(str)
	w.WriteString(")")
}

// dumpNode writes the children first and the operator, when given, last.
func dumpNode(w *strings.Builder, kind, oper string, list ...Expr) {
	w.WriteString(kind)
	w.WriteString("(")
	for i, e := range list {
		if i > 0 {
			w.WriteString(", ")
		}
		dumpExpr(w, e)
	}
	if oper != "" {
		w.WriteString(", ")
		w.WriteString(oper)
	}
	w.WriteString(")")
}
