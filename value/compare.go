package value

import (
	"cmp"
	"strings"
)

const (
	rankNumber = iota
	rankText
	rankBoolean
)

// Compare orders two values. Values of different types are never
// incompatible: numbers sort before text and text before booleans. Text is
// compared case insensitively and a blank cell is seen as empty text.
func Compare(left, right Value) (int, error) {
	x, err := rankOf(left)
	if err != nil {
		return 0, err
	}
	y, err := rankOf(right)
	if err != nil {
		return 0, err
	}
	if x != y {
		return cmp.Compare(x, y), nil
	}
	switch x {
	case rankNumber:
		a, ok1 := left.(Int)
		b, ok2 := right.(Int)
		if ok1 && ok2 {
			return cmp.Compare(a, b), nil
		}
		return cmp.Compare(asFloat(left), asFloat(right)), nil
	case rankText:
		a := strings.ToLower(ToText(left).String())
		b := strings.ToLower(ToText(right).String())
		return strings.Compare(a, b), nil
	default:
		a, b := True(left), True(right)
		switch {
		case a == b:
			return 0, nil
		case b:
			return -1, nil
		default:
			return 1, nil
		}
	}
}

func Equal(left, right Value) (bool, error) {
	c, err := Compare(left, right)
	return c == 0, err
}

func Less(left, right Value) (bool, error) {
	c, err := Compare(left, right)
	return c < 0, err
}

func rankOf(val Value) (int, error) {
	switch v := val.(type) {
	case Int, Float:
		return rankNumber, nil
	case Text, Blank:
		return rankText, nil
	case Boolean:
		return rankBoolean, nil
	case Error:
		return 0, v
	default:
		return 0, ErrValue
	}
}
