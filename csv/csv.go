package csv

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/midbel/gnumeric/formula/eval"
	"github.com/midbel/gnumeric/grid"
	"github.com/midbel/gnumeric/layout"
)

const DefaultSheetName = "Sheet1"

// Open reads file into a new workbook with a single sheet.
func Open(file string, comma byte) (*grid.Workbook, error) {
	r, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	wb := grid.NewWorkbook()
	sh, err := wb.CreateSheet(DefaultSheetName)
	if err != nil {
		return nil, err
	}
	return wb, Load(r, sh, comma)
}

// Load fills the sheet with the records of r. The first record goes in the
// first line of the sheet. Fields are typed like user input and empty fields
// are left blank.
func Load(r io.Reader, sh *grid.Sheet, comma byte) error {
	rs := NewReader(r)
	if comma != 0 {
		rs.Comma = comma
	}
	for line := int64(1); ; line++ {
		fields, err := rs.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		for col, f := range fields {
			if f == "" {
				continue
			}
			pos := layout.Position{
				Line:   line,
				Column: int64(col) + 1,
			}
			c, err := sh.Cell(pos)
			if err != nil {
				return err
			}
			if err := c.Set(f); err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
		}
	}
	return nil
}

// Export writes the sheet from A1 to its last cell. With an engine, the
// results of the formulas are written. Without, the formulas themselves.
func Export(w io.Writer, sh *grid.Sheet, engine *eval.Engine, comma byte) error {
	ws := NewWriter(w)
	if comma != 0 {
		ws.Comma = comma
	}
	for row := range sh.Rows() {
		line := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			switch {
			case c == nil:
			case engine == nil:
				line[i] = c.Text()
			default:
				line[i] = c.Result(engine).String()
			}
		}
		if err := ws.Write(line); err != nil {
			return err
		}
	}
	return ws.Flush()
}
