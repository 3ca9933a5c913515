package gnumeric

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	sax "github.com/midbel/codecs/xml"
	"github.com/midbel/gnumeric/grid"
	"github.com/midbel/gnumeric/layout"
	"github.com/midbel/gnumeric/value"
)

var ErrFormat = errors.New("invalid gnumeric file")

var gzipMagic = []byte{0x1f, 0x8b}

// Open reads the workbook stored in file. The file can be compressed or not.
func Open(file string) (*grid.Workbook, error) {
	r, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Read(r)
}

func Read(r io.Reader) (*grid.Workbook, error) {
	buf := bufio.NewReader(r)
	magic, _ := buf.Peek(len(gzipMagic))

	var in io.Reader = buf
	if bytes.Equal(magic, gzipMagic) {
		z, err := gzip.NewReader(buf)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFormat, err)
		}
		defer z.Close()
		in = z
	}
	rs := readWorkbook(in)
	return rs.Read()
}

type reader struct {
	reader *sax.Reader
	book   *grid.Workbook

	names    []string
	selected int

	sheet  *grid.Sheet
	shared map[string]*grid.Cell
}

func readWorkbook(r io.Reader) *reader {
	rs := reader{
		reader:   sax.NewReader(r),
		book:     grid.NewWorkbook(),
		selected: -1,
	}
	return &rs
}

func (r *reader) Read() (*grid.Workbook, error) {
	r.reader.Element(sax.LocalName("SheetName"), r.onSheetName)
	r.reader.Element(sax.LocalName("Sheet"), r.onSheet)
	r.reader.Element(sax.LocalName("Cell"), r.onCell)
	r.reader.Element(sax.LocalName("UIData"), r.onUIData)
	if err := r.reader.Start(); err != nil {
		if errors.Is(err, ErrFormat) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if r.selected >= 0 && r.selected < r.book.Len() {
		sh, _ := r.book.SheetAt(r.selected)
		r.book.SetActive(sh.Name())
	}
	return r.book, nil
}

func (r *reader) onSheetName(rs *sax.Reader, el sax.E) error {
	if el.SelfClosed {
		r.names = append(r.names, "")
		return nil
	}
	ix := len(r.names)
	r.names = append(r.names, "")
	rs.OnText(func(_ *sax.Reader, str string) error {
		r.names[ix] = strings.TrimSpace(str)
		return nil
	})
	return nil
}

func (r *reader) onUIData(_ *sax.Reader, el sax.E) error {
	if n, err := strconv.Atoi(el.GetAttributeValue("SelectedTab")); err == nil {
		r.selected = n
	}
	return nil
}

// onSheet creates the sheets in the order given by the sheet name index.
// Expression identifiers are scoped to a sheet.
func (r *reader) onSheet(_ *sax.Reader, _ sax.E) error {
	var (
		ix   = r.book.Len()
		name string
	)
	if ix < len(r.names) {
		name = r.names[ix]
	}
	if name == "" {
		name = fmt.Sprintf("Sheet%d", ix+1)
	}
	sh, err := r.book.CreateSheet(name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	r.sheet = sh
	r.shared = make(map[string]*grid.Cell)
	return nil
}

func (r *reader) onCell(rs *sax.Reader, el sax.E) error {
	if r.sheet == nil {
		return fmt.Errorf("%w: cell outside of a sheet", ErrFormat)
	}
	pos, err := cellPosition(el)
	if err != nil {
		return err
	}
	cell, err := r.sheet.Cell(pos)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	var (
		id   = el.GetAttributeValue("ExprID")
		kind = el.GetAttributeValue("ValueType")
	)
	if origin, ok := r.shared[id]; id != "" && ok {
		return cell.Share(origin)
	}
	if el.SelfClosed {
		if id != "" {
			return fmt.Errorf("%w: %s: expression %s without formula", ErrFormat, pos.Addr(), id)
		}
		return nil
	}
	rs.OnText(func(_ *sax.Reader, str string) error {
		if kind == "" && strings.HasPrefix(str, "=") {
			if err := cell.SetFormula(str); err != nil {
				return err
			}
			if id != "" {
				r.shared[id] = cell
			}
			return nil
		}
		val, err := parseValue(kind, str)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrFormat, pos.Addr(), err)
		}
		cell.SetValue(val)
		return nil
	})
	return nil
}

func cellPosition(el sax.E) (layout.Position, error) {
	var pos layout.Position
	row, err := strconv.ParseInt(el.GetAttributeValue("Row"), 10, 64)
	if err != nil {
		return pos, fmt.Errorf("%w: invalid row attribute", ErrFormat)
	}
	col, err := strconv.ParseInt(el.GetAttributeValue("Col"), 10, 64)
	if err != nil {
		return pos, fmt.Errorf("%w: invalid column attribute", ErrFormat)
	}
	pos.Line = row + 1
	pos.Column = col + 1
	return pos, nil
}

func parseValue(kind, str string) (value.ScalarValue, error) {
	if kind == "" {
		return inferValue(str), nil
	}
	vt, err := strconv.Atoi(kind)
	if err != nil {
		return nil, fmt.Errorf("invalid value type %q", kind)
	}
	switch vt {
	case typeEmpty:
		return nil, nil
	case typeBool:
		return value.Boolean(strings.EqualFold(strings.TrimSpace(str), "true")), nil
	case typeInt:
		n, err := strconv.ParseInt(strings.TrimSpace(str), 10, 64)
		if err != nil {
			return nil, err
		}
		return value.Int(n), nil
	case typeFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return nil, err
		}
		return value.Float(f), nil
	case typeError:
		code, ok := value.ParseError(strings.TrimSpace(str))
		if !ok {
			return nil, fmt.Errorf("unknown error code %q", str)
		}
		return code, nil
	case typeString:
		return value.Text(str), nil
	default:
		return nil, fmt.Errorf("unsupported value type %d", vt)
	}
}

func inferValue(str string) value.ScalarValue {
	if n, err := strconv.ParseInt(str, 10, 64); err == nil {
		return value.Int(n)
	}
	if f, err := strconv.ParseFloat(str, 64); err == nil {
		return value.Float(f)
	}
	return value.Text(str)
}
