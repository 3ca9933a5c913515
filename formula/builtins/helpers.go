package builtins

import (
	"github.com/midbel/gnumeric/value"
)

// Flatten expands the arrays given in args. An error found in the values
// stops the expansion and is returned.
func Flatten(args []value.Value) ([]value.ScalarValue, error) {
	var list []value.ScalarValue
	for _, a := range args {
		switch v := a.(type) {
		case value.Array:
			for x := range v.Values() {
				if e, ok := x.(value.Error); ok {
					return nil, e
				}
				list = append(list, x)
			}
		case value.Error:
			return nil, v
		case value.ScalarValue:
			list = append(list, v)
		default:
		}
	}
	return list, nil
}

// numbers keeps the numeric values of args. Values coming from a range are
// kept only when they are numbers; booleans given directly are coerced.
func numbers(args []value.Value) ([]value.Value, error) {
	var list []value.Value
	for _, a := range args {
		if arr, ok := a.(value.Array); ok {
			values, err := Flatten([]value.Value{arr})
			if err != nil {
				return nil, err
			}
			for _, v := range values {
				if value.IsNumber(v) {
					list = append(list, v)
				}
			}
			continue
		}
		switch v := a.(type) {
		case value.Error:
			return nil, v
		case value.Int, value.Float:
			list = append(list, v)
		case value.Boolean:
			n, _ := value.ToNumber(v)
			list = append(list, n)
		default:
		}
	}
	return list, nil
}

func single(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, value.ErrNA
	}
	if e, ok := args[0].(value.Error); ok {
		return nil, e
	}
	return args[0], nil
}
