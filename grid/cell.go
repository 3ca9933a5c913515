package grid

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/midbel/gnumeric/formula/eval"
	"github.com/midbel/gnumeric/formula/parse"
	"github.com/midbel/gnumeric/layout"
	"github.com/midbel/gnumeric/value"
)

type Cell struct {
	pos   layout.Position
	sheet *Sheet

	// literal content. It is kept when the cell receives a formula.
	value value.ScalarValue
	expr  int
}

func (c *Cell) Position() layout.Position {
	pos := c.pos
	pos.Sheet = c.sheet.name
	return pos
}

func (c *Cell) Sheet() *Sheet {
	return c.sheet
}

func (c *Cell) IsEmpty() bool {
	return value.IsBlank(c.value) && c.expr == 0
}

// Set assigns the content of the cell from what a user would type in it.
func (c *Cell) Set(input string) error {
	if input == "" {
		c.SetValue(nil)
		return nil
	}
	if input[0] == '=' || input[0] == '+' {
		return c.SetFormula(input)
	}
	c.SetValue(inferValue(input))
	return nil
}

func (c *Cell) SetValue(val value.ScalarValue) {
	c.detach()
	if value.IsBlank(val) {
		val = nil
	}
	c.value = val
}

func (c *Cell) SetFormula(text string) error {
	if _, err := parse.Parse(text); err != nil {
		return fmt.Errorf("%s: %w: %w", c.pos.Addr(), ErrFormula, err)
	}
	c.detach()
	e := c.sheet.register(c.pos, text)
	c.expr = e.id
	return nil
}

// Share makes the cell use the formula of origin. References are relative
// to the position of the cell where the formula was written.
func (c *Cell) Share(origin *Cell) error {
	if origin.sheet != c.sheet {
		return fmt.Errorf("%s: formula can not be shared across sheets", c.pos.Addr())
	}
	if origin.expr == 0 {
		return fmt.Errorf("%s: %w: no formula to share", origin.pos.Addr(), ErrFormula)
	}
	if origin.expr == c.expr {
		return nil
	}
	c.detach()
	c.expr = origin.expr
	return nil
}

// Value is the literal of the cell. For a formula, it is the literal the
// cell held before the formula was assigned.
func (c *Cell) Value() value.Value {
	return c.literal()
}

func (c *Cell) Formula() (eval.Origin, bool) {
	e, ok := c.sheet.exprs[c.expr]
	if !ok {
		return eval.Origin{}, false
	}
	return c.sheet.originOf(e), true
}

func (c *Cell) Expression() int {
	return c.expr
}

// FormulaText is the formula of the cell with its relative references moved
// to the position of the cell.
func (c *Cell) FormulaText() string {
	origin, ok := c.Formula()
	if !ok {
		return ""
	}
	if origin.Position.Equal(c.pos) {
		return origin.Text
	}
	expr, err := parse.Parse(origin.Text)
	if err != nil {
		return origin.Text
	}
	return parse.Format(parse.CloneWithOffset(expr, origin.Offset(c.pos)))
}

// Text is what a user would type to obtain the content of the cell.
func (c *Cell) Text() string {
	if c.expr != 0 {
		return c.FormulaText()
	}
	return c.literal().String()
}

func (c *Cell) Result(engine *eval.Engine) value.Value {
	return engine.Result(c.Anchor())
}

// Anchor returns the cell as seen by the formula engine.
func (c *Cell) Anchor() eval.Cell {
	return cellRef{c}
}

func (c *Cell) String() string {
	return c.Position().Addr()
}

func (c *Cell) literal() value.ScalarValue {
	if c.value == nil {
		return value.Empty()
	}
	return c.value
}

func (c *Cell) detach() {
	id := c.expr
	c.expr = 0
	c.sheet.release(id)
}

func inferValue(input string) value.ScalarValue {
	switch strings.ToUpper(input) {
	case "TRUE":
		return value.Boolean(true)
	case "FALSE":
		return value.Boolean(false)
	default:
	}
	if e, ok := value.ParseError(input); ok {
		return e
	}
	if n, err := strconv.ParseInt(input, 10, 64); err == nil {
		return value.Int(n)
	}
	if f, err := strconv.ParseFloat(input, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return value.Float(f)
	}
	return value.Text(input)
}
