package value

import (
	"fmt"
	"iter"

	"github.com/midbel/gnumeric/layout"
)

// Array holds the values of a range, row by row.
type Array struct {
	Data [][]ScalarValue
}

func NewArray(data [][]ScalarValue) Array {
	return Array{
		Data: data,
	}
}

func (a Array) Type() string {
	dim := a.Dimension()
	return fmt.Sprintf("array(%d, %d)", dim.Lines, dim.Columns)
}

func (Array) Kind() ValueKind {
	return KindArray
}

func (Array) String() string {
	return ""
}

func (a Array) Dimension() layout.Dimension {
	var (
		d layout.Dimension
		n = len(a.Data)
	)
	if n > 0 {
		d.Lines = int64(n)
		d.Columns = int64(len(a.Data[0]))
	}
	return d
}

func (a Array) At(row, col int) ScalarValue {
	if len(a.Data) == 0 || row >= len(a.Data) {
		return nil
	}
	v := a.Data[row]
	if len(v) == 0 || col >= len(v) {
		return nil
	}
	return a.Data[row][col]
}

func (a Array) Values() iter.Seq[ScalarValue] {
	return func(yield func(ScalarValue) bool) {
		for _, row := range a.Data {
			for _, v := range row {
				if !yield(v) {
					return
				}
			}
		}
	}
}
