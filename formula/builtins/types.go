package builtins

import (
	"github.com/midbel/gnumeric/value"
)

func TypeOf(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, value.ErrNA
	}
	return value.Text(args[0].Type()), nil
}
