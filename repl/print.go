package repl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/midbel/gnumeric/format"
	"github.com/midbel/gnumeric/formula/eval"
	"github.com/midbel/gnumeric/grid"
	"github.com/midbel/gnumeric/layout"
	"github.com/midbel/gnumeric/value"
)

const (
	DefaultRows = 25
	DefaultCols = 10
)

type Printer interface {
	Print(value.Value)
	PrintSheet(*grid.Sheet, *eval.Engine)
}

func PrintValue(w io.Writer, rows, cols int, f format.Formatter) Printer {
	if f == nil {
		f = format.FormatValue()
	}
	return valuePrinter{
		w:         w,
		rows:      rows,
		cols:      cols,
		formatter: f,
	}
}

func DebugValue(w io.Writer, rows, cols int) Printer {
	return debugPrinter{
		w:    w,
		rows: rows,
		cols: cols,
	}
}

type valuePrinter struct {
	w         io.Writer
	cols      int
	rows      int
	formatter format.Formatter
}

func (p valuePrinter) Print(v value.Value) {
	str, err := p.formatter.Format(v)
	if err != nil {
		str = v.String()
	}
	fmt.Fprintln(p.w, str)
}

func (p valuePrinter) PrintSheet(sh *grid.Sheet, engine *eval.Engine) {
	data, truncated := collectRows(sh, p.rows, p.cols, func(c *grid.Cell) string {
		res := c.Result(engine)
		if str, err := p.formatter.Format(res); err == nil {
			return str
		}
		return res.String()
	})
	writer := bufio.NewWriter(p.w)
	defer writer.Flush()

	writeView(writer, data, true)
	if truncated > 0 {
		writeTruncate(writer, truncated)
	}
}

type debugPrinter struct {
	w    io.Writer
	cols int
	rows int
}

func (p debugPrinter) Print(v value.Value) {
	fmt.Fprintf(p.w, "%s(%s)", v.Type(), v.String())
	fmt.Fprintln(p.w)
}

// PrintSheet writes the content of the cells: formulas are not computed.
func (p debugPrinter) PrintSheet(sh *grid.Sheet, _ *eval.Engine) {
	dim := sh.Dimension()
	data, truncated := collectRows(sh, p.rows, p.cols, func(c *grid.Cell) string {
		return c.Text()
	})
	writer := bufio.NewWriter(p.w)
	defer writer.Flush()

	fmt.Fprintf(writer, "sheet[name=%s, rows=%d, columns=%d] (\n", sh.Name(), dim.Lines, dim.Columns)
	writeView(writer, data, true)
	if truncated > 0 {
		writer.WriteString("  ")
		writeTruncate(writer, truncated)
	}
	writer.WriteString(")\n")
}

// collectRows gives the header and the rows of the sheet limited to the
// given size and the number of rows left out.
func collectRows(sh *grid.Sheet, rows, cols int, get func(*grid.Cell) string) ([][]string, int64) {
	dim := sh.Dimension()
	if dim.Lines == 0 || dim.Columns == 0 {
		return nil, 0
	}
	width := min(int(dim.Columns), cols)

	header := []string{""}
	for i := range int64(width) {
		header = append(header, layout.ColumnName(i+1))
	}
	data := [][]string{header}
	for r := range sh.Rows() {
		if len(data) > rows {
			break
		}
		line := []string{strconv.FormatInt(r.Line, 10)}
		for _, c := range r.Cells[:width] {
			var str string
			if c != nil {
				str = get(c)
			}
			line = append(line, str)
		}
		data = append(data, line)
	}
	return data, max(0, dim.Lines-int64(rows))
}

func writeTruncate(w io.Writer, count int64) {
	fmt.Fprintf(w, "... (%d more rows)\n", count)
}

// writeView aligns the columns of data on their widest value. The last
// column is never padded.
func writeView(w io.Writer, data [][]string, indent bool) {
	var widths []int
	for _, line := range data {
		for j, str := range line {
			if j == len(widths) {
				widths = append(widths, 0)
			}
			widths[j] = max(widths[j], len(str))
		}
	}
	prefix := ""
	if indent {
		prefix = "  "
	}
	for _, line := range data {
		cells := make([]string, len(line))
		for j, str := range line {
			if j < len(line)-1 {
				str += strings.Repeat(" ", widths[j]-len(str))
			}
			cells[j] = str
		}
		fmt.Fprintln(w, prefix+strings.Join(cells, " | "))
	}
}
