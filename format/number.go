package format

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/midbel/gnumeric/value"
)

var ErrPattern = errors.New("invalid number pattern")

// digits gives the number of mandatory (0) and optional (#) digits of a
// part of a pattern.
type digits struct {
	required int
	optional int
}

func (d digits) total() int {
	return d.required + d.optional
}

type numberFormatter struct {
	integral   digits
	fractional digits

	plus    bool
	group   bool
	point   byte
	thousep byte
}

// ParseNumberFormatter reads patterns like "#,##0.00": 0 is a mandatory
// digit, # an optional one and a comma in the integral part enables the
// grouping of thousands. A leading + always writes the sign.
func ParseNumberFormatter(pattern string) (Formatter, error) {
	nf := numberFormatter{
		point:   '.',
		thousep: ',',
	}
	if strings.HasPrefix(pattern, "+") {
		nf.plus = true
		pattern = pattern[1:]
	}
	left, right, _ := strings.Cut(pattern, ".")
	if left == "" {
		return nil, fmt.Errorf("%q: %w", pattern, ErrPattern)
	}
	var err error
	if nf.fractional, err = countDigits(right, false); err != nil {
		return nil, err
	}
	if strings.Contains(left, ",") {
		nf.group = true
		left = strings.ReplaceAll(left, ",", "")
	}
	if nf.integral, err = countDigits(reverse(left), true); err != nil {
		return nil, err
	}
	return nf, nil
}

// countDigits expects the mandatory digits to come first: any 0 after a #
// is only an optional digit.
func countDigits(str string, integral bool) (digits, error) {
	var (
		d   digits
		opt bool
	)
	for _, c := range str {
		switch {
		case c == '0' && !opt:
			d.required++
		case c == '0' || c == '#':
			opt = true
			d.optional++
		default:
			part := "fractional"
			if integral {
				part = "integral"
			}
			return d, fmt.Errorf("%w: unexpected %q in %s part", ErrPattern, c, part)
		}
	}
	return d, nil
}

func (nf numberFormatter) Format(v value.Value) (string, error) {
	var num float64
	switch n := v.(type) {
	case value.Float:
		num = float64(n)
	case value.Int:
		num = float64(n)
	default:
		return "", fmt.Errorf("%s: value is not a number", v.Type())
	}
	var (
		prec  = nf.fractional.total()
		scale = math.Pow10(prec)
	)
	num = math.Round(num*scale) / scale

	var str strings.Builder
	switch {
	case num < 0:
		str.WriteByte('-')
	case nf.plus:
		str.WriteByte('+')
	}
	digits := strconv.FormatFloat(math.Abs(num), 'f', prec, 64)
	left, right, _ := strings.Cut(digits, ".")
	if n := nf.integral.required - len(left); n > 0 {
		left = strings.Repeat("0", n) + left
	}
	if nf.group {
		left = nf.groupThousands(left)
	}
	str.WriteString(left)

	right = strings.TrimRight(right, "0")
	if n := nf.fractional.required - len(right); n > 0 {
		right += strings.Repeat("0", n)
	}
	if right != "" {
		str.WriteByte(nf.point)
		str.WriteString(right)
	}
	return str.String(), nil
}

func (nf numberFormatter) groupThousands(str string) string {
	head := len(str) % 3
	if head == 0 {
		head = 3
	}
	var res strings.Builder
	res.WriteString(str[:min(head, len(str))])
	for i := head; i < len(str); i += 3 {
		res.WriteByte(nf.thousep)
		res.WriteString(str[i : i+3])
	}
	return res.String()
}

func reverse(str string) string {
	b := []byte(str)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
