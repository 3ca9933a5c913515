package value

import (
	"math"
	"strconv"
)

type Blank struct{}

func Empty() ScalarValue {
	return Blank{}
}

func (Blank) Type() string {
	return TypeBlank
}

func (Blank) Kind() ValueKind {
	return KindScalar
}

func (Blank) String() string {
	return ""
}

func (Blank) Scalar() any {
	return nil
}

type Int int64

func (Int) Type() string {
	return TypeNumber
}

func (Int) Kind() ValueKind {
	return KindScalar
}

func (i Int) String() string {
	return strconv.FormatInt(int64(i), 10)
}

func (i Int) Scalar() any {
	return int64(i)
}

type Float float64

func (Float) Type() string {
	return TypeNumber
}

func (Float) Kind() ValueKind {
	return KindScalar
}

func (f Float) String() string {
	return formatFloat(float64(f))
}

func (f Float) Scalar() any {
	return float64(f)
}

func formatFloat(f float64) string {
	if f == 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	exp := math.Abs(f)
	if exp >= 1e21 || exp < 1e-7 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

type Text string

func (Text) Type() string {
	return TypeText
}

func (Text) Kind() ValueKind {
	return KindScalar
}

func (t Text) String() string {
	return string(t)
}

func (t Text) Scalar() any {
	return string(t)
}

type Boolean bool

func (Boolean) Type() string {
	return TypeBool
}

func (Boolean) Kind() ValueKind {
	return KindScalar
}

func (b Boolean) String() string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func (b Boolean) Scalar() any {
	return bool(b)
}
