package csv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

const (
	quote = '"'
	nl    = '\n'
	cr    = '\r'
	space = ' '
)

var (
	ErrQuote  = errors.New("misplaced quote")
	ErrFields = errors.New("invalid number of fields")

	errUnterminated = errors.New("unterminated")
)

type Reader struct {
	inner         *bufio.Reader
	Comma         byte
	FieldsPerLine int

	line  int
	atEOF bool
}

func NewReader(r io.Reader) *Reader {
	rs := Reader{
		inner: bufio.NewReader(r),
		Comma: ',',
	}
	return &rs
}

func (r *Reader) Done() bool {
	return r.atEOF
}

// Line is the number of the last record read.
func (r *Reader) Line() int {
	return r.line
}

func (r *Reader) ReadAll() ([][]string, error) {
	var all [][]string
	for {
		rs, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		all = append(all, rs)
	}
	return all, nil
}

func (r *Reader) Read() ([]string, error) {
	if r.Done() {
		return nil, io.EOF
	}
	line, err := r.inner.ReadBytes(nl)
	if len(line) == 0 && errors.Is(err, io.EOF) {
		r.atEOF = true
		return nil, err
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	r.line++

	var res []string
	for i := 0; i < len(line); {
		var (
			field []byte
			size  int
			err   error
		)
		switch line[i] {
		case cr, nl:
			// empty last field after a trailing separator or an empty line
			res = append(res, "")
			return r.check(res)
		case quote:
			for {
				field, size, err = r.readQuotedField(line[i:])
				if !errors.Is(err, errUnterminated) {
					break
				}
				next, err1 := r.inner.ReadBytes(nl)
				if len(next) == 0 {
					return nil, fmt.Errorf("line %d: quoted field %w", r.line, err)
				}
				if err1 != nil && !errors.Is(err1, io.EOF) {
					return nil, err1
				}
				line = append(line, next...)
			}
		default:
			field, size, err = r.readDefaultField(line[i:])
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}
		res = append(res, string(field))
		i += size
		if i >= len(line) {
			break
		}
		switch line[i] {
		case r.Comma:
			i++
			if i == len(line) {
				res = append(res, "")
			}
		case cr:
			if i+1 < len(line) && line[i+1] != nl {
				return nil, fmt.Errorf("line %d: carriage return only allowed before newline", r.line)
			}
			return r.check(res)
		case nl:
			return r.check(res)
		default:
			return nil, fmt.Errorf("line %d: unexpected character after field", r.line)
		}
	}
	return r.check(res)
}

func (r *Reader) check(fields []string) ([]string, error) {
	if r.FieldsPerLine > 0 && len(fields) != r.FieldsPerLine {
		return nil, fmt.Errorf("line %d: %w (%d)", r.line, ErrFields, len(fields))
	}
	return fields, nil
}

func (r *Reader) readQuotedField(line []byte) ([]byte, int, error) {
	var (
		field  []byte
		offset = 1
	)
	for offset < len(line) {
		if line[offset] == quote {
			if offset+1 < len(line) && line[offset+1] == quote {
				field = append(field, quote)
				offset += 2
				continue
			}
			return field, offset + 1, nil
		}
		field = append(field, line[offset])
		offset++
	}
	return nil, 0, errUnterminated
}

func (r *Reader) readDefaultField(line []byte) ([]byte, int, error) {
	var offset int
	for offset < len(line) {
		switch line[offset] {
		case quote:
			return nil, 0, ErrQuote
		case r.Comma, cr, nl:
			return line[:offset], offset, nil
		default:
			offset++
		}
	}
	return line[:offset], offset, nil
}
