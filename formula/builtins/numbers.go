package builtins

import (
	"github.com/midbel/gnumeric/value"
)

func Sum(args []value.Value) (value.Value, error) {
	values, err := numbers(args)
	if err != nil {
		return nil, err
	}
	return fold(values, value.Int(0), value.Add)
}

func Product(args []value.Value) (value.Value, error) {
	values, err := numbers(args)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return value.Int(0), nil
	}
	return fold(values, value.Int(1), value.Mul)
}

func Max(args []value.Value) (value.Value, error) {
	return pick(args, func(cmp int) bool {
		return cmp > 0
	})
}

func Min(args []value.Value) (value.Value, error) {
	return pick(args, func(cmp int) bool {
		return cmp < 0
	})
}

func Count(args []value.Value) (value.Value, error) {
	values, err := numbers(args)
	if err != nil {
		return nil, err
	}
	return value.Int(len(values)), nil
}

func Average(args []value.Value) (value.Value, error) {
	values, err := numbers(args)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, value.ErrDiv0
	}
	total, err := fold(values, value.Int(0), value.Add)
	if err != nil {
		return nil, err
	}
	return value.Div(total, value.Int(len(values)))
}

func fold(values []value.Value, init value.Value, do func(value.Value, value.Value) (value.Value, error)) (value.Value, error) {
	res := init
	for _, v := range values {
		var err error
		if res, err = do(res, v); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func pick(args []value.Value, keep func(int) bool) (value.Value, error) {
	values, err := numbers(args)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return value.Int(0), nil
	}
	res := values[0]
	for _, v := range values[1:] {
		cmp, err := value.Compare(v, res)
		if err != nil {
			return nil, err
		}
		if keep(cmp) {
			res = v
		}
	}
	return res, nil
}
