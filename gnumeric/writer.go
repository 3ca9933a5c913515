package gnumeric

import (
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/midbel/gnumeric/grid"
	"github.com/midbel/gnumeric/value"
)

// Save writes the workbook compressed to file.
func Save(file string, book *grid.Workbook) error {
	w, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := Write(w, book); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func Write(w io.Writer, book *grid.Workbook) error {
	z, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return err
	}
	if err := WriteXML(z, book); err != nil {
		z.Close()
		return err
	}
	return z.Close()
}

// WriteXML writes the uncompressed document of the workbook.
func WriteXML(w io.Writer, book *grid.Workbook) error {
	root := xmlWorkbook{
		Xmlns:     nsGnumeric,
		XmlnsXsi:  nsSchema,
		SchemaLoc: schemaLoc,
		Version: xmlVersion{
			Epoch: 1,
			Major: 12,
			Minor: 57,
			Full:  "1.12.57",
		},
	}
	for i, sh := range book.Sheets() {
		root.Names = append(root.Names, xmlSheetName{
			Cols: grid.MaxColumns,
			Rows: grid.MaxRows,
			Name: sh.Name(),
		})
		root.Sheets = append(root.Sheets, encodeSheet(sh))
		if sh == book.Active() {
			root.UI.SelectedTab = i
		}
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(&root); err != nil {
		return fmt.Errorf("%w: fail to write workbook", err)
	}
	return enc.Close()
}

// encodeSheet writes the formula text only on the first cell using an
// expression. The other cells refer to it by its identifier.
func encodeSheet(sh *grid.Sheet) xmlSheet {
	xs := xmlSheet{
		Visibility: visibleSheet,
		Name:       sh.Name(),
		MaxCol:     -1,
		MaxRow:     -1,
	}
	var (
		ids  = make(map[int]int)
		last int
	)
	for _, c := range sh.Cells() {
		pos := c.Position()
		xc := xmlCell{
			Row: pos.Line - 1,
			Col: pos.Column - 1,
		}
		xs.MaxRow = max(xs.MaxRow, xc.Row)
		xs.MaxCol = max(xs.MaxCol, xc.Col)

		if expr := c.Expression(); expr != 0 {
			id, seen := ids[expr]
			if !seen {
				last++
				id = last
				ids[expr] = id
				xc.Text = c.FormulaText()
			}
			if len(sh.CellsWithExpression(expr)) > 1 {
				xc.ExprID = id
			}
			xs.Cells = append(xs.Cells, xc)
			continue
		}
		xc.ValueType, xc.Text = encodeValue(c.Value())
		xs.Cells = append(xs.Cells, xc)
	}
	return xs
}

func encodeValue(val value.Value) (int, string) {
	switch v := val.(type) {
	case value.Boolean:
		return typeBool, v.String()
	case value.Int:
		return typeInt, v.String()
	case value.Float:
		return typeFloat, strconv.FormatFloat(float64(v), 'g', -1, 64)
	case value.Error:
		return typeError, v.String()
	case value.Text:
		return typeString, v.String()
	default:
		return typeEmpty, ""
	}
}
