package parse

import (
	"strings"

	"github.com/midbel/gnumeric/formula/op"
	"github.com/midbel/gnumeric/value"
)

const (
	equal  = '='
	plus   = '+'
	minus  = '-'
	dot    = '.'
	dollar = '$'
	pound  = '#'
	squote = '\''
	dquote = '"'
	langle = '<'
	rangle = '>'
)

// single character operators and delimiters. The comparison operators
// made of two characters are handled apart.
var symbols = map[byte]op.Op{
	'+': op.Add,
	'-': op.Sub,
	'*': op.Mul,
	'/': op.Div,
	'^': op.Pow,
	'&': op.Concat,
	'=': op.Eq,
	':': op.RangeRef,
	'!': op.SheetRef,
	',': op.Comma,
	'(': op.BegGrp,
	')': op.EndGrp,
}

// Scanner splits the text of a formula into tokens. Formulas are made of
// ASCII characters except inside quoted literals.
type Scanner struct {
	input  string
	offset int
}

func ScanString(input string) *Scanner {
	return &Scanner{input: input}
}

func ScanBytes(input []byte) *Scanner {
	return ScanString(string(input))
}

func (s *Scanner) Scan() Token {
	for s.offset < len(s.input) && isBlank(s.input[s.offset]) {
		s.offset++
	}
	tok := Token{Offset: s.offset}
	if s.offset >= len(s.input) {
		tok.Type = op.EOF
		return tok
	}
	c := s.input[s.offset]
	switch {
	case c == langle || c == rangle:
		tok.Type, tok.Literal = s.comparison(c)
	case symbols[c] != 0:
		s.offset++
		tok.Type = symbols[c]
	case c == dquote || c == squote:
		tok.Type, tok.Literal = s.quoted(c)
	case isDigit(c) || c == dot && isDigit(s.at(s.offset+1)):
		tok.Type, tok.Literal = op.Number, s.number()
	case c == pound:
		tok.Type, tok.Literal = s.errorCode()
	case isLetter(c) || c == dollar:
		tok.Type, tok.Literal = op.Ident, s.ident()
	default:
		s.offset++
		tok.Type, tok.Literal = op.Invalid, string(c)
	}
	return tok
}

func (s *Scanner) at(i int) byte {
	if i < 0 || i >= len(s.input) {
		return 0
	}
	return s.input[i]
}

func (s *Scanner) comparison(c byte) (op.Op, string) {
	s.offset++
	next := s.at(s.offset)
	switch {
	case c == langle && next == equal:
		s.offset++
		return op.Le, ""
	case c == langle && next == rangle:
		s.offset++
		return op.Ne, ""
	case c == langle:
		return op.Lt, ""
	case next == equal:
		s.offset++
		return op.Ge, ""
	default:
		return op.Gt, ""
	}
}

// quoted reads a double quoted string or a single quoted sheet name. The
// content is taken as is: there is no escape sequence.
func (s *Scanner) quoted(quote byte) (op.Op, string) {
	start := s.offset + 1
	end := strings.IndexByte(s.input[start:], quote)
	if end < 0 {
		s.offset = len(s.input)
		return op.Invalid, s.input[start:]
	}
	s.offset = start + end + 1
	if quote == squote {
		return op.Sheet, s.input[start : start+end]
	}
	return op.Literal, s.input[start : start+end]
}

func (s *Scanner) number() string {
	start := s.offset
	s.skipDigits()
	if s.at(s.offset) == dot {
		s.offset++
		s.skipDigits()
	}
	if c := s.at(s.offset); c == 'e' || c == 'E' {
		i := s.offset + 1
		if c := s.at(i); c == plus || c == minus {
			i++
		}
		if isDigit(s.at(i)) {
			s.offset = i
			s.skipDigits()
		}
	}
	return s.input[start:s.offset]
}

func (s *Scanner) skipDigits() {
	for isDigit(s.at(s.offset)) {
		s.offset++
	}
}

// errorCode recognizes the error literals regardless of their case and
// gives them in their canonical form.
func (s *Scanner) errorCode() (op.Op, string) {
	rest := s.input[s.offset:]
	for _, e := range value.Codes() {
		code := e.String()
		if len(rest) >= len(code) && strings.EqualFold(rest[:len(code)], code) {
			s.offset += len(code)
			return op.ErrorLit, code
		}
	}
	s.offset++
	return op.Invalid, string(pound)
}

func (s *Scanner) ident() string {
	start := s.offset
	for s.offset < len(s.input) && isAlpha(s.input[s.offset]) {
		s.offset++
	}
	return s.input[start:s.offset]
}

func isLetter(c byte) bool {
	return c == '_' || (c|0x20) >= 'a' && (c|0x20) <= 'z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return isLetter(c) || isDigit(c) || c == dollar || c == dot
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
