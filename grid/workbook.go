package grid

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/midbel/gnumeric/formula/eval"
)

var (
	ErrExist    = errors.New("already exists")
	ErrNotFound = errors.New("not found")
	ErrBounds   = errors.New("out of bounds")
	ErrShared   = errors.New("expression shared by other cells")
	ErrFormula  = errors.New("invalid formula")
)

type Workbook struct {
	sheets []*Sheet
	active int
}

func NewWorkbook() *Workbook {
	return &Workbook{}
}

func (w *Workbook) CreateSheet(title string) (*Sheet, error) {
	return w.InsertSheet(title, len(w.sheets))
}

// InsertSheet adds a sheet at the given index. A negative index counts from
// the end and an index beyond the number of sheets appends the sheet.
func (w *Workbook) InsertSheet(title string, index int) (*Sheet, error) {
	if title == "" {
		return nil, fmt.Errorf("empty sheet name")
	}
	if w.indexOf(title) >= 0 {
		return nil, fmt.Errorf("sheet %s %w", title, ErrExist)
	}
	if index < 0 {
		index += len(w.sheets) + 1
	}
	index = max(0, min(index, len(w.sheets)))

	sh := createSheet(w, title)
	w.sheets = slices.Insert(w.sheets, index, sh)
	if len(w.sheets) > 1 && index <= w.active {
		w.active++
	}
	return sh, nil
}

// Find returns the sheet with the given name. Names are compared without
// regard to case.
func (w *Workbook) Find(name string) (*Sheet, error) {
	ix := w.indexOf(name)
	if ix < 0 {
		return nil, fmt.Errorf("sheet %s %w", name, ErrNotFound)
	}
	return w.sheets[ix], nil
}

func (w *Workbook) Sheet(name string) (eval.Sheet, error) {
	sh, err := w.Find(name)
	if err != nil {
		return nil, err
	}
	return sheetRef{sh}, nil
}

func (w *Workbook) SheetAt(index int) (*Sheet, error) {
	if index < 0 {
		index += len(w.sheets)
	}
	if index < 0 || index >= len(w.sheets) {
		return nil, fmt.Errorf("sheet #%d %w", index, ErrNotFound)
	}
	return w.sheets[index], nil
}

func (w *Workbook) Sheets() []*Sheet {
	return slices.Clone(w.sheets)
}

func (w *Workbook) Names() []string {
	var list []string
	for _, s := range w.sheets {
		list = append(list, s.Name())
	}
	return list
}

func (w *Workbook) Len() int {
	return len(w.sheets)
}

func (w *Workbook) Index(sheet *Sheet) int {
	return slices.Index(w.sheets, sheet)
}

func (w *Workbook) RemoveSheet(name string) error {
	ix := w.indexOf(name)
	if ix < 0 {
		return fmt.Errorf("sheet %s %w", name, ErrNotFound)
	}
	w.sheets[ix].book = nil
	w.sheets = slices.Delete(w.sheets, ix, ix+1)
	if w.active > ix || w.active >= len(w.sheets) {
		w.active = max(0, w.active-1)
	}
	return nil
}

func (w *Workbook) Active() *Sheet {
	if len(w.sheets) == 0 {
		return nil
	}
	return w.sheets[w.active]
}

func (w *Workbook) SetActive(name string) error {
	ix := w.indexOf(name)
	if ix < 0 {
		return fmt.Errorf("sheet %s %w", name, ErrNotFound)
	}
	w.active = ix
	return nil
}

func (w *Workbook) indexOf(name string) int {
	return slices.IndexFunc(w.sheets, func(s *Sheet) bool {
		return strings.EqualFold(s.name, name)
	})
}
