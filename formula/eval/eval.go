package eval

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/midbel/gnumeric/formula/builtins"
	"github.com/midbel/gnumeric/formula/op"
	"github.com/midbel/gnumeric/formula/parse"
	"github.com/midbel/gnumeric/value"
)

var ErrEval = errors.New("expression can not be evaluated")

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.config = cfg
	}
}

type Engine struct {
	funcs  *builtins.Table
	logger *slog.Logger
	config Config
}

func NewEngine(options ...Option) *Engine {
	e := Engine{
		funcs:  builtins.NewTable(),
		logger: slog.New(slog.DiscardHandler),
		config: DefaultConfig(),
	}
	for _, o := range options {
		o(&e)
	}
	if e.config.MaxDepth <= 0 {
		e.config.MaxDepth = DefaultMaxDepth
	}
	for alias, target := range e.config.Aliases {
		if !e.funcs.Alias(alias, target) {
			e.logger.Warn("alias to unknown function", "alias", alias, "function", target)
		}
	}
	return &e
}

func (e *Engine) Register(name string, fn builtins.Func) {
	e.funcs.Register(name, fn)
}

func (e *Engine) Functions() *builtins.Table {
	return e.funcs
}

// Evaluate evaluates the formula text as if it was written in the anchor
// cell. Failures are reported as error values.
func (e *Engine) Evaluate(text string, anchor Cell) value.Value {
	val, _ := e.EvaluateWithReferences(text, anchor)
	return val
}

// EvaluateWithReferences evaluates the formula text and returns the cells
// read directly by the formula.
func (e *Engine) EvaluateWithReferences(text string, anchor Cell) (value.Value, CellSet) {
	expr, err := parse.Parse(text)
	if err != nil {
		e.logger.Debug("formula can not be parsed", "formula", text, "cell", anchor.Position(), "err", err)
		return value.ErrValue, make(CellSet)
	}
	ctx, done := enterContext(anchor)
	defer done()
	return e.result(ctx, expr), ctx.References()
}

func (e *Engine) ReferencedCells(text string, anchor Cell) (CellSet, error) {
	expr, err := parse.Parse(text)
	if err != nil {
		return nil, err
	}
	ctx, done := enterContext(anchor)
	defer done()
	e.result(ctx, expr)
	return ctx.References(), nil
}

func (e *Engine) EvaluateExpr(expr parse.Expr, anchor Cell) value.Value {
	ctx, done := enterContext(anchor)
	defer done()
	return e.result(ctx, expr)
}

// Result gives the value of a cell: its literal or the result of its formula
// evaluated from the cell.
func (e *Engine) Result(cell Cell) value.Value {
	origin, ok := cell.Formula()
	if !ok {
		val := cell.Value()
		if val == nil {
			val = value.Empty()
		}
		return val
	}
	expr, err := parse.Parse(origin.Text)
	if err != nil {
		e.logger.Debug("formula can not be parsed", "formula", origin.Text, "cell", cell.Position(), "err", err)
		return value.ErrValue
	}
	ctx, done := enterContext(cell)
	defer done()
	return e.result(ctx, expr)
}

func (e *Engine) result(ctx *EngineContext, expr parse.Expr) value.Value {
	val, err := e.eval(ctx, expr)
	return e.finalize(val, err)
}

func (e *Engine) finalize(val value.Value, err error) value.Value {
	if err != nil {
		var code value.Error
		if errors.As(err, &code) {
			return code
		}
		e.logger.Warn("evaluation failed", "err", err)
		return value.ErrValue
	}
	switch val.(type) {
	case nil, value.Blank:
		return value.Int(0)
	case value.ArrayValue:
		return value.ErrValue
	default:
		return val
	}
}

func (e *Engine) eval(ctx *EngineContext, expr parse.Expr) (value.Value, error) {
	switch x := expr.(type) {
	case parse.Number:
		return x.Value(), nil
	case parse.Literal:
		return value.Text(x.Text()), nil
	case parse.Boolean:
		return value.Boolean(x.Value()), nil
	case parse.ErrorLit:
		return nil, x.Code()
	case parse.Name:
		return nil, value.ErrName
	case parse.Group:
		return e.eval(ctx, x.Expr())
	case parse.Unary:
		return e.evalUnary(ctx, x)
	case parse.Binary:
		return e.evalBinary(ctx, x)
	case parse.Call:
		return e.evalCall(ctx, x)
	case parse.CellAddr:
		return e.evalCellAddr(ctx, x)
	case parse.RangeAddr:
		return nil, value.ErrValue
	default:
		return nil, fmt.Errorf("%w: %T", ErrEval, expr)
	}
}

func (e *Engine) evalUnary(ctx *EngineContext, expr parse.Unary) (value.Value, error) {
	val, err := e.eval(ctx, expr.Expr())
	if err != nil {
		return nil, err
	}
	switch expr.Op() {
	case op.Sub:
		return value.Neg(val)
	case op.Add:
		return value.Plus(val)
	default:
		return nil, fmt.Errorf("%w: unsupported unary operator %s", ErrEval, op.Symbol(expr.Op()))
	}
}

func (e *Engine) evalBinary(ctx *EngineContext, expr parse.Binary) (value.Value, error) {
	left, err := e.eval(ctx, expr.Left())
	if err != nil {
		return nil, err
	}
	right, err := e.eval(ctx, expr.Right())
	if err != nil {
		return nil, err
	}
	if op.IsComparison(expr.Op()) {
		return compare(left, right, expr.Op())
	}
	switch expr.Op() {
	case op.Add:
		return value.Add(left, right)
	case op.Sub:
		return value.Sub(left, right)
	case op.Mul:
		return value.Mul(left, right)
	case op.Div:
		return value.Div(left, right)
	case op.Pow:
		return value.Pow(left, right)
	case op.Concat:
		return value.Concat(left, right)
	default:
		return nil, fmt.Errorf("%w: unsupported binary operator %s", ErrEval, op.Symbol(expr.Op()))
	}
}

func compare(left, right value.Value, oper op.Op) (value.Value, error) {
	cmp, err := value.Compare(left, right)
	if err != nil {
		return nil, err
	}
	var res bool
	switch oper {
	case op.Eq:
		res = cmp == 0
	case op.Ne:
		res = cmp != 0
	case op.Lt:
		res = cmp < 0
	case op.Le:
		res = cmp <= 0
	case op.Gt:
		res = cmp > 0
	case op.Ge:
		res = cmp >= 0
	default:
	}
	return value.Boolean(res), nil
}

func (e *Engine) evalCall(ctx *EngineContext, expr parse.Call) (value.Value, error) {
	fn, ok := e.funcs.Lookup(expr.Name())
	if !ok {
		return nil, value.ErrName
	}
	var args []value.Value
	for _, a := range expr.Args() {
		var (
			arg value.Value
			err error
		)
		if rg, ok := a.(parse.RangeAddr); ok {
			arg, err = e.evalRangeAddr(ctx, rg)
		} else {
			arg, err = e.eval(ctx, a)
		}
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	res, err := fn(args)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, value.ErrValue
	}
	return res, nil
}

func (e *Engine) evalCellAddr(ctx *EngineContext, addr parse.CellAddr) (value.Value, error) {
	cell, err := resolveCell(ctx, addr)
	if err != nil {
		return nil, err
	}
	val, err := e.evalCell(ctx, cell)
	if err != nil {
		return nil, err
	}
	if code, ok := val.(value.Error); ok {
		return nil, code
	}
	return val, nil
}

func (e *Engine) evalRangeAddr(ctx *EngineContext, addr parse.RangeAddr) (value.Value, error) {
	cells, err := resolveRange(ctx, addr)
	if err != nil {
		return nil, err
	}
	data := make([][]value.ScalarValue, 0, len(cells))
	for _, row := range cells {
		values := make([]value.ScalarValue, 0, len(row))
		for _, c := range row {
			val, err := e.evalCell(ctx, c)
			if err != nil {
				var code value.Error
				if !errors.As(err, &code) {
					return nil, err
				}
				val = code
			}
			scalar, ok := val.(value.ScalarValue)
			if !ok {
				scalar = value.ErrValue
			}
			values = append(values, scalar)
		}
		data = append(data, values)
	}
	return value.NewArray(data), nil
}

// evalCell computes the value of a cell read by the formula being evaluated.
// A cell already under evaluation is not evaluated again: its previous
// literal is used instead.
func (e *Engine) evalCell(ctx *EngineContext, cell Cell) (value.Value, error) {
	origin, ok := cell.Formula()
	if !ok {
		val := cell.Value()
		if val == nil {
			val = value.Empty()
		}
		return val, nil
	}
	pos := cell.Position()
	if ctx.isVisiting(pos) {
		e.logger.Warn("circular reference", "cell", pos, "from", ctx.Anchor().Position())
		val := cell.Value()
		if val == nil || value.IsBlank(val) {
			val = value.Int(0)
		}
		return val, nil
	}
	if ctx.Depth() >= e.config.MaxDepth {
		e.logger.Warn("maximum evaluation depth reached", "cell", pos, "depth", ctx.Depth())
		return nil, value.ErrNum
	}
	expr, err := parse.Parse(origin.Text)
	if err != nil {
		e.logger.Debug("formula can not be parsed", "formula", origin.Text, "cell", pos, "err", err)
		return value.ErrValue, nil
	}
	ctx.enter(pos)
	defer ctx.leave(pos)

	e.logger.Debug("evaluate cell", "cell", pos, "formula", origin.Text, "depth", ctx.Depth())
	sub := ctx.Sub(cell, origin)
	return e.finalize(e.eval(sub, expr)), nil
}
