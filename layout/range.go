package layout

import (
	"iter"
	"strings"
)

// Range is a rectangle of cells. Both ends are included.
type Range struct {
	Starts Position
	Ends   Position
}

func NewRange(starts, ends Position) *Range {
	return &Range{
		Starts: starts,
		Ends:   ends,
	}
}

// RangeFromString reads A1:B2 or a single address. The end of the range
// belongs to the sheet of its start unless it is qualified.
func RangeFromString(str string) *Range {
	first, last, ok := strings.Cut(str, ":")
	rg := Range{
		Starts: ParsePosition(first),
	}
	rg.Ends = rg.Starts
	if ok {
		rg.Ends = ParsePosition(last)
		if rg.Ends.Sheet == "" {
			rg.Ends.Sheet = rg.Starts.Sheet
		}
	}
	return &rg
}

func (r *Range) Dimension() Dimension {
	return Dimension{
		Lines:   r.Ends.Line - r.Starts.Line + 1,
		Columns: r.Ends.Column - r.Starts.Column + 1,
	}
}

func (r *Range) String() string {
	if r.Starts.Equal(r.Ends) {
		return r.Starts.Addr()
	}
	end := r.Ends
	end.Sheet = ""
	return r.Starts.Addr() + ":" + end.Addr()
}

// Normalize gives a range whose start is the top left corner.
func (r *Range) Normalize() *Range {
	rg := *r
	rg.Starts.Line, rg.Ends.Line = min(r.Starts.Line, r.Ends.Line), max(r.Starts.Line, r.Ends.Line)
	rg.Starts.Column, rg.Ends.Column = min(r.Starts.Column, r.Ends.Column), max(r.Starts.Column, r.Ends.Column)
	return &rg
}

// Positions yields every position of the range, row by row.
func (r *Range) Positions() iter.Seq[Position] {
	rg := r.Normalize()
	return func(yield func(Position) bool) {
		pos := Position{Sheet: rg.Starts.Sheet}
		for pos.Line = rg.Starts.Line; pos.Line <= rg.Ends.Line; pos.Line++ {
			for pos.Column = rg.Starts.Column; pos.Column <= rg.Ends.Column; pos.Column++ {
				if !yield(pos) {
					return
				}
			}
		}
	}
}
