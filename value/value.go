package value

import (
	"fmt"

	"github.com/midbel/gnumeric/layout"
)

type ValueKind int8

const (
	KindScalar ValueKind = 1 << iota
	KindError
	KindArray
)

const (
	TypeBlank  = "blank"
	TypeNumber = "number"
	TypeText   = "text"
	TypeBool   = "boolean"
	TypeError  = "error"
)

type Value interface {
	Kind() ValueKind
	Type() string
	fmt.Stringer
}

type ScalarValue interface {
	Value
	Scalar() any
}

type ArrayValue interface {
	Value
	Dimension() layout.Dimension
	At(int, int) ScalarValue
}
