package value

import (
	"math"
)

// Arithmetic operations return an error operand unchanged as their result.
// Conditions detected by the operation itself (wrong operand type, division
// by zero, overflow) are reported through the returned error.

func Add(left, right Value) (Value, error) {
	return arithmetic(left, right, func(x, y int64) (int64, bool) {
		r := x + y
		return r, (x >= 0) == (y >= 0) && (r >= 0) != (x >= 0)
	}, func(x, y float64) (float64, error) {
		return x + y, nil
	})
}

func Sub(left, right Value) (Value, error) {
	return arithmetic(left, right, func(x, y int64) (int64, bool) {
		r := x - y
		return r, (x >= 0) != (y >= 0) && (r >= 0) != (x >= 0)
	}, func(x, y float64) (float64, error) {
		return x - y, nil
	})
}

func Mul(left, right Value) (Value, error) {
	return arithmetic(left, right, mulInt, func(x, y float64) (float64, error) {
		return x * y, nil
	})
}

func Div(left, right Value) (Value, error) {
	return arithmetic(left, right, nil, func(x, y float64) (float64, error) {
		if y == 0 {
			return 0, ErrDiv0
		}
		return x / y, nil
	})
}

func Pow(left, right Value) (Value, error) {
	return arithmetic(left, right, powInt, func(x, y float64) (float64, error) {
		if x == 0 && y < 0 {
			return 0, ErrDiv0
		}
		return math.Pow(x, y), nil
	})
}

func Neg(val Value) (Value, error) {
	if e, ok := val.(Error); ok {
		return e, nil
	}
	n, err := ToNumber(val)
	if err != nil {
		return nil, err
	}
	switch v := n.(type) {
	case Int:
		if v == math.MinInt64 {
			return Float(-float64(v)), nil
		}
		return -v, nil
	default:
		return Float(-asFloat(v)), nil
	}
}

// Plus is the unary plus: it checks that its operand is numeric.
func Plus(val Value) (Value, error) {
	if e, ok := val.(Error); ok {
		return e, nil
	}
	return ToNumber(val)
}

func Concat(left, right Value) (Value, error) {
	if e, ok := firstError(left, right); ok {
		return e, nil
	}
	return ToText(left) + ToText(right), nil
}

type (
	intFunc   func(int64, int64) (int64, bool)
	floatFunc func(float64, float64) (float64, error)
)

func arithmetic(left, right Value, doInt intFunc, doFloat floatFunc) (Value, error) {
	if e, ok := firstError(left, right); ok {
		return e, nil
	}
	x, err := ToNumber(left)
	if err != nil {
		return nil, err
	}
	y, err := ToNumber(right)
	if err != nil {
		return nil, err
	}
	if doInt != nil {
		a, ok1 := x.(Int)
		b, ok2 := y.(Int)
		if ok1 && ok2 {
			if r, overflow := doInt(int64(a), int64(b)); !overflow {
				return Int(r), nil
			}
		}
	}
	res, err := doFloat(asFloat(x), asFloat(y))
	if err != nil {
		return nil, err
	}
	if math.IsInf(res, 0) || math.IsNaN(res) {
		return nil, ErrNum
	}
	return Float(res), nil
}

func mulInt(x, y int64) (int64, bool) {
	if x == 0 || y == 0 {
		return 0, false
	}
	r := x * y
	if r/y != x || (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
		return 0, true
	}
	return r, false
}

func powInt(x, y int64) (int64, bool) {
	if y < 0 {
		return 0, true
	}
	var (
		res      int64 = 1
		overflow bool
	)
	for y > 0 {
		if y&1 == 1 {
			if res, overflow = mulInt(res, x); overflow {
				return 0, true
			}
		}
		y >>= 1
		if y > 0 {
			if x, overflow = mulInt(x, x); overflow {
				return 0, true
			}
		}
	}
	return res, false
}

func firstError(values ...Value) (Error, bool) {
	for _, v := range values {
		if e, ok := v.(Error); ok {
			return e, true
		}
	}
	return Error{}, false
}
