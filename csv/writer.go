package csv

import (
	"bufio"
	"io"
	"strings"
)

type Writer struct {
	inner *bufio.Writer

	ForceQuote bool
	UseCRLF    bool
	Comma      byte
}

func NewWriter(w io.Writer) *Writer {
	ws := Writer{
		inner: bufio.NewWriter(w),
		Comma: ',',
	}
	return &ws
}

func (w *Writer) WriteAll(data [][]string) error {
	for _, d := range data {
		if err := w.Write(d); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Write writes one record. Fields are quoted when they contain the
// separator, a quote or a line break.
func (w *Writer) Write(record []string) error {
	for i, field := range record {
		if i > 0 {
			w.inner.WriteByte(w.Comma)
		}
		if w.needQuotes(field) {
			w.writeQuoted(field)
		} else {
			w.inner.WriteString(field)
		}
	}
	if w.UseCRLF {
		w.inner.WriteByte(cr)
	}
	return w.inner.WriteByte(nl)
}

func (w *Writer) Flush() error {
	return w.inner.Flush()
}

// writeQuoted doubles the quotes of the field and normalizes its line
// endings.
func (w *Writer) writeQuoted(field string) {
	eol := "\n"
	if w.UseCRLF {
		eol = "\r\n"
	}
	field = strings.ReplaceAll(field, "\r\n", "\n")
	field = strings.ReplaceAll(field, "\r", "")
	field = strings.ReplaceAll(field, `"`, `""`)

	w.inner.WriteByte(quote)
	w.inner.WriteString(strings.ReplaceAll(field, "\n", eol))
	w.inner.WriteByte(quote)
}

func (w *Writer) needQuotes(field string) bool {
	switch {
	case w.ForceQuote:
		return true
	case field == "":
		return false
	case field[0] == space:
		return true
	default:
		return strings.ContainsAny(field, string([]byte{w.Comma, quote, cr, nl}))
	}
}
