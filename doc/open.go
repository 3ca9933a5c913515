package doc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/midbel/gnumeric/csv"
	"github.com/midbel/gnumeric/gnumeric"
	"github.com/midbel/gnumeric/grid"
)

var ErrSupported = errors.New("unsupported format")

type Format int

const (
	Unknown Format = iota
	CSV
	TSV
	Gnumeric
	YAML
)

func (f Format) String() string {
	switch f {
	case CSV:
		return "csv"
	case TSV:
		return "tsv"
	case Gnumeric:
		return "gnumeric"
	case YAML:
		return "yaml"
	default:
		return "unknown"
	}
}

func OpenFormat(file string, format Format) (*grid.Workbook, error) {
	switch format {
	case CSV:
		return csv.Open(file, ',')
	case TSV:
		return csv.Open(file, '\t')
	case Gnumeric:
		return gnumeric.Open(file)
	case YAML:
		return OpenFixture(file)
	default:
		return nil, fmt.Errorf("%s: %w", file, ErrSupported)
	}
}

// Open loads file after detecting its format from its first bytes or,
// failing that, from its extension.
func Open(file string) (*grid.Workbook, error) {
	format, err := DetectFormat(file)
	if err != nil {
		return nil, err
	}
	return OpenFormat(file, format)
}

// Save writes the workbook in the format given by the extension of file.
// Delimited formats only receive the active sheet.
func Save(file string, book *grid.Workbook) error {
	format := formatFromExt(file)
	switch format {
	case Gnumeric:
		return gnumeric.Save(file, book)
	case YAML:
		return SaveFixture(file, book)
	case CSV, TSV:
		sh := book.Active()
		if sh == nil {
			return fmt.Errorf("%s: %w", file, grid.ErrNotFound)
		}
		w, err := os.Create(file)
		if err != nil {
			return err
		}
		defer w.Close()

		comma := byte(',')
		if format == TSV {
			comma = '\t'
		}
		return csv.Export(w, sh, nil, comma)
	default:
		return fmt.Errorf("%s: %w", file, ErrSupported)
	}
}

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicXML  = []byte("<?xml")
)

func DetectFormat(file string) (Format, error) {
	r, err := os.Open(file)
	if err != nil {
		return Unknown, err
	}
	defer r.Close()

	magic := make([]byte, len(magicXML))
	n, err := io.ReadFull(r, magic)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Unknown, err
	}
	magic = magic[:n]
	if bytes.HasPrefix(magic, magicGzip) || bytes.HasPrefix(magic, magicXML) {
		return Gnumeric, nil
	}
	if f := formatFromExt(file); f != Unknown && f != Gnumeric {
		return f, nil
	}
	return CSV, nil
}

func formatFromExt(file string) Format {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".gnumeric", ".gnm":
		return Gnumeric
	case ".yaml", ".yml":
		return YAML
	case ".csv":
		return CSV
	case ".tsv", ".tab":
		return TSV
	default:
		return Unknown
	}
}
