package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrAddress = errors.New("invalid address")

// Position is the address of a cell. Line and Column start at 1, the zero
// value means unset.
type Position struct {
	Sheet  string
	Line   int64
	Column int64
}

// ParsePosition reads an address like [sheet!]$A$1 without validating it:
// the parts that can not be read are left to zero.
func ParsePosition(addr string) Position {
	var pos Position
	pos.Sheet, addr = cutSheet(addr)

	addr = strings.ReplaceAll(addr, "$", "")
	col, n := ParseIndex(addr)
	pos.Column = col
	pos.Line, _ = strconv.ParseInt(addr[n:], 10, 64)
	return pos
}

// ParseAddress is the strict version of ParsePosition.
func ParseAddress(addr string) (Position, error) {
	_, rest := cutSheet(addr)
	if !isAddress(strings.ReplaceAll(rest, "$", "")) {
		return Position{}, fmt.Errorf("%w: %q", ErrAddress, addr)
	}
	return ParsePosition(addr), nil
}

// cutSheet splits the sheet name, unquoted, from the address.
func cutSheet(addr string) (string, string) {
	ix := strings.LastIndexByte(addr, '!')
	if ix < 0 {
		return "", addr
	}
	sheet := addr[:ix]
	if len(sheet) >= 2 && strings.HasPrefix(sheet, "'") && strings.HasSuffix(sheet, "'") {
		sheet = sheet[1 : len(sheet)-1]
	}
	return sheet, addr[ix+1:]
}

// Equal ignores the sheet.
func (p Position) Equal(other Position) bool {
	return p.Line == other.Line && p.Column == other.Column
}

func (p Position) Addr() string {
	var str strings.Builder
	if p.Sheet != "" {
		str.WriteString(QuoteSheet(p.Sheet))
		str.WriteByte('!')
	}
	str.WriteString(ColumnName(p.Column))
	str.WriteString(strconv.FormatInt(p.Line, 10))
	return str.String()
}

func (p Position) String() string {
	return p.Addr()
}

// Offset returns the distance to travel from other to p.
func (p Position) Offset(other Position) Position {
	return Position{
		Line:   p.Line - other.Line,
		Column: p.Column - other.Column,
	}
}

func (p Position) Move(delta Position) Position {
	p.Line += delta.Line
	p.Column += delta.Column
	return p
}

// Less orders positions row first then column.
func (p Position) Less(other Position) bool {
	if p.Line == other.Line {
		return p.Column < other.Column
	}
	return p.Line < other.Line
}

// QuoteSheet wraps name in single quotes when it is not only made of
// letters, digits and underscores.
func QuoteSheet(name string) string {
	plain := strings.IndexFunc(name, func(r rune) bool {
		return r > 0x7f || !isLetter(byte(r)) && !isDigit(byte(r)) && r != '_'
	}) < 0
	if plain {
		return name
	}
	return "'" + name + "'"
}

func isAddress(addr string) bool {
	col, n := ParseIndex(addr)
	if col == 0 || n == len(addr) || addr[n] == '0' {
		return false
	}
	for i := n; i < len(addr); i++ {
		if !isDigit(addr[i]) {
			return false
		}
	}
	return true
}

// ParseIndex gives the index of the column starting str, with A being 1,
// and the number of letters read.
func ParseIndex(str string) (int64, int) {
	var (
		index int64
		n     int
	)
	for n < len(str) && isLetter(str[n]) {
		index = index*26 + int64(str[n]|0x20-'a') + 1
		n++
	}
	return index, n
}

func ColumnName(ix int64) string {
	var buf []byte
	for ; ix > 0; ix = (ix - 1) / 26 {
		buf = append(buf, byte('A'+(ix-1)%26))
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

func isLetter(c byte) bool {
	c |= 0x20
	return c >= 'a' && c <= 'z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
