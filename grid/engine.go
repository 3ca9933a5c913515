package grid

import (
	"github.com/midbel/gnumeric/formula/eval"
	"github.com/midbel/gnumeric/layout"
)

type sheetRef struct {
	*Sheet
}

func (s sheetRef) Workbook() eval.Workbook {
	if s.book == nil {
		return nil
	}
	return s.book
}

func (s sheetRef) Cell(pos layout.Position) (eval.Cell, error) {
	c, err := s.Sheet.Cell(pos)
	if err != nil {
		return nil, err
	}
	return cellRef{c}, nil
}

func (s sheetRef) Range(start, end layout.Position) ([]eval.Cell, error) {
	cells, err := s.Sheet.Range(start, end)
	if err != nil {
		return nil, err
	}
	list := make([]eval.Cell, 0, len(cells))
	for _, c := range cells {
		list = append(list, cellRef{c})
	}
	return list, nil
}

type cellRef struct {
	*Cell
}

func (c cellRef) Sheet() eval.Sheet {
	return sheetRef{c.sheet}
}
