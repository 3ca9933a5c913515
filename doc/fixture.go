package doc

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/midbel/gnumeric/grid"
	"github.com/midbel/gnumeric/layout"
	"gopkg.in/yaml.v3"
)

// Fixture is a workbook described in YAML. Cells are keyed by their address
// and hold what a user would type in them.
type Fixture struct {
	Active string         `yaml:"active,omitempty"`
	Sheets []FixtureSheet `yaml:"sheets"`
}

type FixtureSheet struct {
	Name  string         `yaml:"name"`
	Cells map[string]any `yaml:"cells"`
}

func OpenFixture(file string) (*grid.Workbook, error) {
	r, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ReadFixture(r)
}

func ReadFixture(r io.Reader) (*grid.Workbook, error) {
	var fx Fixture
	if err := yaml.NewDecoder(r).Decode(&fx); err != nil {
		return nil, err
	}
	return fx.Workbook()
}

func (fx Fixture) Workbook() (*grid.Workbook, error) {
	wb := grid.NewWorkbook()
	for _, fs := range fx.Sheets {
		sh, err := wb.CreateSheet(fs.Name)
		if err != nil {
			return nil, err
		}
		for addr, raw := range fs.Cells {
			pos := layout.ParsePosition(addr)
			c, err := sh.Cell(pos)
			if err != nil {
				return nil, fmt.Errorf("%s!%s: %w", fs.Name, addr, err)
			}
			if err := c.Set(inputOf(raw)); err != nil {
				return nil, fmt.Errorf("%s!%s: %w", fs.Name, addr, err)
			}
		}
	}
	if fx.Active != "" {
		if err := wb.SetActive(fx.Active); err != nil {
			return nil, err
		}
	}
	return wb, nil
}

func SaveFixture(file string, book *grid.Workbook) error {
	w, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := WriteFixture(w, book); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func WriteFixture(w io.Writer, book *grid.Workbook) error {
	var fx Fixture
	if sh := book.Active(); sh != nil {
		fx.Active = sh.Name()
	}
	for _, sh := range book.Sheets() {
		fs := FixtureSheet{
			Name:  sh.Name(),
			Cells: make(map[string]any),
		}
		for _, c := range sh.Cells() {
			pos := c.Position()
			pos.Sheet = ""
			fs.Cells[pos.Addr()] = c.Text()
		}
		fx.Sheets = append(fx.Sheets, fs)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&fx); err != nil {
		return err
	}
	return enc.Close()
}

func inputOf(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
