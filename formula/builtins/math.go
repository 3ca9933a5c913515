package builtins

import (
	"math"
	"unicode/utf8"

	"github.com/midbel/gnumeric/value"
)

func Abs(args []value.Value) (value.Value, error) {
	arg, err := single(args)
	if err != nil {
		return nil, err
	}
	switch arg.(type) {
	case value.Int, value.Float, value.Boolean:
	default:
		return nil, value.ErrValue
	}
	n, err := value.ToNumber(arg)
	if err != nil {
		return nil, err
	}
	switch v := n.(type) {
	case value.Int:
		if v == math.MinInt64 {
			return value.Float(math.Abs(float64(v))), nil
		}
		if v < 0 {
			v = -v
		}
		return v, nil
	case value.Float:
		return value.Float(math.Abs(float64(v))), nil
	default:
		return nil, value.ErrValue
	}
}

func Len(args []value.Value) (value.Value, error) {
	arg, err := single(args)
	if err != nil {
		return nil, err
	}
	if _, ok := arg.(value.Array); ok {
		return nil, value.ErrValue
	}
	str := value.ToText(arg)
	return value.Int(utf8.RuneCountInString(string(str))), nil
}
