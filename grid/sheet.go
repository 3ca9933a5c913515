package grid

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/midbel/gnumeric/formula/eval"
	"github.com/midbel/gnumeric/layout"
	"github.com/midbel/gnumeric/value"
)

const (
	MaxRows    = 65536
	MaxColumns = 256
)

type expression struct {
	id     int
	origin layout.Position
	text   string
}

type Sheet struct {
	name string
	book *Workbook

	cells map[layout.Position]*Cell
	exprs map[int]*expression
	last  int
}

func createSheet(book *Workbook, name string) *Sheet {
	return &Sheet{
		name:  name,
		book:  book,
		cells: make(map[layout.Position]*Cell),
		exprs: make(map[int]*expression),
	}
}

// NewSheet creates a sheet that belongs to no workbook.
func NewSheet(name string) *Sheet {
	return createSheet(nil, name)
}

func (s *Sheet) Name() string {
	return s.name
}

func (s *Sheet) Workbook() *Workbook {
	return s.book
}

// Cell returns the cell at the given position, creating an empty cell when
// none exists yet.
func (s *Sheet) Cell(pos layout.Position) (*Cell, error) {
	key, err := s.key(pos)
	if err != nil {
		return nil, err
	}
	if c, ok := s.cells[key]; ok {
		return c, nil
	}
	c := &Cell{
		pos:   key,
		sheet: s,
	}
	s.cells[key] = c
	return c, nil
}

// Lookup returns the cell at the given position without creating it.
func (s *Sheet) Lookup(pos layout.Position) (*Cell, bool) {
	key, err := s.key(pos)
	if err != nil {
		return nil, false
	}
	c, ok := s.cells[key]
	return c, ok
}

func (s *Sheet) Range(start, end layout.Position) ([]*Cell, error) {
	return s.Collect(start, end, true, true)
}

// Collect returns the cells of the rectangle row by row. Missing cells are
// created when create is set. Empty cells are kept only when includeEmpty is
// set.
func (s *Sheet) Collect(start, end layout.Position, includeEmpty, create bool) ([]*Cell, error) {
	if _, err := s.key(start); err != nil {
		return nil, err
	}
	if _, err := s.key(end); err != nil {
		return nil, err
	}
	var (
		rg   = layout.NewRange(start, end)
		list []*Cell
	)
	for pos := range rg.Positions() {
		c, ok := s.Lookup(pos)
		if !ok && create {
			c, _ = s.Cell(pos)
			ok = true
		}
		if !ok || (!includeEmpty && c.IsEmpty()) {
			continue
		}
		list = append(list, c)
	}
	return list, nil
}

// Cells returns the non empty cells of the sheet row by row.
func (s *Sheet) Cells() []*Cell {
	var list []*Cell
	for _, c := range s.cells {
		if !c.IsEmpty() {
			list = append(list, c)
		}
	}
	slices.SortFunc(list, compareCells)
	return list
}

func (s *Sheet) Row(line int64) []*Cell {
	return slices.DeleteFunc(s.Cells(), func(c *Cell) bool {
		return c.pos.Line != line
	})
}

func (s *Sheet) Column(col int64) []*Cell {
	return slices.DeleteFunc(s.Cells(), func(c *Cell) bool {
		return c.pos.Column != col
	})
}

// Rows yields the rows of the sheet from A1 to the bottom right corner of
// its content. Missing cells are reported as nil.
func (s *Sheet) Rows() iter.Seq[*Row] {
	dim := s.Dimension()
	return func(yield func(*Row) bool) {
		for line := int64(1); line <= dim.Lines; line++ {
			row := Row{
				Line:  line,
				Cells: make([]*Cell, dim.Columns),
			}
			for col := int64(1); col <= dim.Columns; col++ {
				c, ok := s.cells[layout.Position{Line: line, Column: col}]
				if ok && !c.IsEmpty() {
					row.Cells[col-1] = c
				}
			}
			if !yield(&row) {
				return
			}
		}
	}
}

// Dimension gives the number of lines and columns from A1 to the last cell
// with content. Empty cells created by a lookup are ignored.
func (s *Sheet) Dimension() layout.Dimension {
	var dim layout.Dimension
	for _, c := range s.cells {
		if c.IsEmpty() {
			continue
		}
		dim.Lines = max(dim.Lines, c.pos.Line)
		dim.Columns = max(dim.Columns, c.pos.Column)
	}
	return dim
}

// Bounds is the smallest range containing every cell with content.
func (s *Sheet) Bounds() (*layout.Range, bool) {
	var (
		rg    layout.Range
		found bool
	)
	for _, c := range s.cells {
		if c.IsEmpty() {
			continue
		}
		if !found {
			rg.Starts, rg.Ends, found = c.pos, c.pos, true
			continue
		}
		rg.Starts.Line = min(rg.Starts.Line, c.pos.Line)
		rg.Starts.Column = min(rg.Starts.Column, c.pos.Column)
		rg.Ends.Line = max(rg.Ends.Line, c.pos.Line)
		rg.Ends.Column = max(rg.Ends.Column, c.pos.Column)
	}
	rg.Starts.Sheet = s.name
	rg.Ends.Sheet = s.name
	return &rg, found
}

// Expressions returns the origin of every expression used by the cells of
// the sheet keyed by their identifier.
func (s *Sheet) Expressions() map[int]eval.Origin {
	used := make(map[int]eval.Origin)
	for _, c := range s.cells {
		if e, ok := s.exprs[c.expr]; ok {
			used[e.id] = s.originOf(e)
		}
	}
	return used
}

func (s *Sheet) CellsWithExpression(id int) []*Cell {
	var list []*Cell
	for _, c := range s.cells {
		if id > 0 && c.expr == id {
			list = append(list, c)
		}
	}
	slices.SortFunc(list, compareCells)
	return list
}

// RemoveCell deletes a cell. The cell where a shared expression was written
// can not be removed while other cells still use the expression.
func (s *Sheet) RemoveCell(pos layout.Position) error {
	key, err := s.key(pos)
	if err != nil {
		return err
	}
	c, ok := s.cells[key]
	if !ok {
		return nil
	}
	if e, ok := s.exprs[c.expr]; ok && e.origin == key {
		if n := len(s.CellsWithExpression(e.id)); n > 1 {
			return fmt.Errorf("%s: %w (%d cells)", key.Addr(), ErrShared, n-1)
		}
	}
	c.detach()
	delete(s.cells, key)
	return nil
}

// Copy copies the content of a cell to another position. With CopyFormula,
// the target shares the formula of the source.
func (s *Sheet) Copy(from, to layout.Position, mode CopyMode) error {
	src, ok := s.Lookup(from)
	if !ok {
		return fmt.Errorf("%s: cell %w", from.Addr(), ErrNotFound)
	}
	dst, err := s.Cell(to)
	if err != nil {
		return err
	}
	if mode&CopyValue != 0 {
		dst.SetValue(src.value)
	}
	if _, ok := src.Formula(); ok && mode&CopyFormula != 0 {
		return dst.Share(src)
	}
	return nil
}

func (s *Sheet) register(origin layout.Position, text string) *expression {
	s.last++
	e := expression{
		id:     s.last,
		origin: origin,
		text:   text,
	}
	s.exprs[e.id] = &e
	return &e
}

// release forgets an expression once no cell uses it anymore.
func (s *Sheet) release(id int) {
	if _, ok := s.exprs[id]; !ok {
		return
	}
	for _, c := range s.cells {
		if c.expr == id {
			return
		}
	}
	delete(s.exprs, id)
}

func (s *Sheet) originOf(e *expression) eval.Origin {
	pos := e.origin
	pos.Sheet = s.name
	return eval.Origin{
		Position: pos,
		Text:     e.text,
	}
}

func (s *Sheet) key(pos layout.Position) (layout.Position, error) {
	if pos.Line < 1 || pos.Line > MaxRows || pos.Column < 1 || pos.Column > MaxColumns {
		return pos, fmt.Errorf("%s: position %w", pos.Addr(), ErrBounds)
	}
	pos.Sheet = ""
	return pos, nil
}

func compareCells(a, b *Cell) int {
	if c := cmp.Compare(a.pos.Line, b.pos.Line); c != 0 {
		return c
	}
	return cmp.Compare(a.pos.Column, b.pos.Column)
}

type Row struct {
	Line  int64
	Cells []*Cell
}

// Sparse reports whether some cells of the row are missing.
func (r *Row) Sparse() bool {
	return slices.Contains(r.Cells, nil)
}

func (r *Row) Values() []value.ScalarValue {
	var list []value.ScalarValue
	for _, c := range r.Cells {
		if c == nil {
			list = append(list, value.Empty())
			continue
		}
		list = append(list, c.literal())
	}
	return list
}
