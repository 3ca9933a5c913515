package parse

import (
	"fmt"

	"github.com/midbel/gnumeric/formula/op"
)

const (
	powLowest = iota
	powCmp
	powConcat
	powAdd
	powMul
	powPow
	powUnary
	powRange
)

var defaultBindings = map[op.Op]int{
	op.Add:      powAdd,
	op.Sub:      powAdd,
	op.Mul:      powMul,
	op.Div:      powMul,
	op.Pow:      powPow,
	op.Concat:   powConcat,
	op.Eq:       powCmp,
	op.Ne:       powCmp,
	op.Lt:       powCmp,
	op.Le:       powCmp,
	op.Gt:       powCmp,
	op.Ge:       powCmp,
	op.RangeRef: powRange,
}

type (
	PrefixFunc func(*Parser) (Expr, error)
	InfixFunc  func(*Parser, Expr) (Expr, error)
)

type Grammar struct {
	name string

	prefix   map[op.Op]PrefixFunc
	infix    map[op.Op]InfixFunc
	bindings map[op.Op]int
}

func NewGrammar(name string) *Grammar {
	g := Grammar{
		name:     name,
		prefix:   make(map[op.Op]PrefixFunc),
		infix:    make(map[op.Op]InfixFunc),
		bindings: make(map[op.Op]int),
	}
	for k, v := range defaultBindings {
		g.bindings[k] = v
	}
	return &g
}

func (g *Grammar) Context() string {
	return g.name
}

func (g *Grammar) Pow(kind op.Op) int {
	pow, ok := g.bindings[kind]
	if !ok {
		pow = powLowest
	}
	return pow
}

func (g *Grammar) Prefix(tok Token) (PrefixFunc, error) {
	fn, ok := g.prefix[tok.Type]
	if !ok {
		return nil, fmt.Errorf("(%d) %w: %s: unsupported prefix operator (%s)", tok.Offset, ErrSyntax, g.name, tok)
	}
	return fn, nil
}

func (g *Grammar) Infix(tok Token) (InfixFunc, error) {
	fn, ok := g.infix[tok.Type]
	if !ok {
		return nil, fmt.Errorf("(%d) %w: %s: unsupported infix operator (%s)", tok.Offset, ErrSyntax, g.name, tok)
	}
	return fn, nil
}

func (g *Grammar) RegisterInfix(kd op.Op, fn InfixFunc) {
	g.infix[kd] = fn
}

func (g *Grammar) RegisterPrefix(kd op.Op, fn PrefixFunc) {
	g.prefix[kd] = fn
}

func (g *Grammar) RegisterBinding(kd op.Op, pow int) {
	g.bindings[kd] = pow
}

// GrammarStack gives priority to the grammar on top. Bindings only apply
// when the top grammar knows how to handle the operator.
type GrammarStack []*Grammar

func (gs *GrammarStack) Top() *Grammar {
	n := len(*gs)
	return (*gs)[n-1]
}

func (gs *GrammarStack) Context() string {
	return gs.Top().Context()
}

func (gs *GrammarStack) Pow(kind op.Op) int {
	top := gs.Top()
	if _, ok := top.infix[kind]; !ok {
		return powLowest
	}
	return top.Pow(kind)
}

func (gs *GrammarStack) Prefix(tok Token) (PrefixFunc, error) {
	return gs.Top().Prefix(tok)
}

func (gs *GrammarStack) Infix(tok Token) (InfixFunc, error) {
	return gs.Top().Infix(tok)
}

func (gs *GrammarStack) Pop() {
	n := len(*gs)
	if n > 1 {
		*gs = (*gs)[:n-1]
	}
}

func (gs *GrammarStack) Push(g *Grammar) {
	*gs = append(*gs, g)
}
