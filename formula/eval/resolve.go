package eval

import (
	"github.com/midbel/gnumeric/formula/parse"
	"github.com/midbel/gnumeric/layout"
	"github.com/midbel/gnumeric/value"
)

func resolveSheet(ctx *EngineContext, name string) (Sheet, error) {
	sheet := ctx.Anchor().Sheet()
	if name == "" {
		return sheet, nil
	}
	wb := sheet.Workbook()
	if wb == nil {
		return nil, value.ErrRef
	}
	other, err := wb.Sheet(name)
	if err != nil || other == nil {
		return nil, value.ErrRef
	}
	return other, nil
}

// resolvePosition moves the relative axes of addr by the offset of the
// context.
func resolvePosition(ctx *EngineContext, addr parse.CellAddr) (layout.Position, error) {
	var (
		pos    = addr.Position
		offset = ctx.Offset()
	)
	if !addr.AbsRow {
		pos.Line += offset.Line
	}
	if !addr.AbsCol {
		pos.Column += offset.Column
	}
	if pos.Line < 1 || pos.Column < 1 {
		return pos, value.ErrRef
	}
	return pos, nil
}

func resolveCell(ctx *EngineContext, addr parse.CellAddr) (Cell, error) {
	sheet, err := resolveSheet(ctx, addr.Sheet)
	if err != nil {
		return nil, err
	}
	pos, err := resolvePosition(ctx, addr)
	if err != nil {
		return nil, err
	}
	pos.Sheet = sheet.Name()
	cell, err := sheet.Cell(pos)
	if err != nil {
		return nil, value.ErrRef
	}
	ctx.Record(cell)
	return cell, nil
}

// resolveRange returns the cells of the range grouped by rows.
func resolveRange(ctx *EngineContext, addr parse.RangeAddr) ([][]Cell, error) {
	sheet, err := resolveSheet(ctx, addr.StartAt().Sheet)
	if err != nil {
		return nil, err
	}
	start, err := resolvePosition(ctx, addr.StartAt())
	if err != nil {
		return nil, err
	}
	end, err := resolvePosition(ctx, addr.EndAt())
	if err != nil {
		return nil, err
	}
	start.Sheet = sheet.Name()
	end.Sheet = sheet.Name()

	cells, err := sheet.Range(start, end)
	if err != nil {
		return nil, value.ErrRef
	}
	dim := layout.NewRange(start, end).Normalize().Dimension()
	if int64(len(cells)) != dim.Lines*dim.Columns {
		return nil, value.ErrRef
	}
	rows := make([][]Cell, 0, dim.Lines)
	for i := int64(0); i < dim.Lines; i++ {
		row := cells[i*dim.Columns : (i+1)*dim.Columns]
		for _, c := range row {
			ctx.Record(c)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
