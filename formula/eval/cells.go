package eval

import (
	"cmp"
	"slices"

	"github.com/midbel/gnumeric/layout"
	"github.com/midbel/gnumeric/value"
)

type Workbook interface {
	Sheet(string) (Sheet, error)
}

type Sheet interface {
	Name() string
	Workbook() Workbook
	// Cell returns the cell at the given position, creating an empty one
	// when needed.
	Cell(layout.Position) (Cell, error)
	// Range returns the cells of the rectangle row by row, creating the
	// missing ones.
	Range(layout.Position, layout.Position) ([]Cell, error)
}

type Cell interface {
	Position() layout.Position
	Sheet() Sheet
	// Value is the literal content of the cell. For a cell holding a formula,
	// it is the literal the cell held before receiving it, if any.
	Value() value.Value
	Formula() (Origin, bool)
}

// Origin is the cell where a formula was written. Cells sharing the formula
// evaluate it relative to this position.
type Origin struct {
	layout.Position
	Text string
}

func (o Origin) Offset(pos layout.Position) layout.Position {
	return pos.Offset(o.Position)
}

type CellSet map[layout.Position]struct{}

func (s CellSet) Add(pos layout.Position) {
	s[pos] = struct{}{}
}

func (s CellSet) Has(pos layout.Position) bool {
	_, ok := s[pos]
	return ok
}

func (s CellSet) Len() int {
	return len(s)
}

// Positions returns the positions of the set ordered by sheet then row by
// row.
func (s CellSet) Positions() []layout.Position {
	list := make([]layout.Position, 0, len(s))
	for p := range s {
		list = append(list, p)
	}
	slices.SortFunc(list, func(a, b layout.Position) int {
		if c := cmp.Compare(a.Sheet, b.Sheet); c != 0 {
			return c
		}
		if a.Less(b) {
			return -1
		}
		if b.Less(a) {
			return 1
		}
		return 0
	})
	return list
}
