package value

import (
	"errors"
	"math"
)

var ErrCast = errors.New("value can not be casted")

// ToNumber returns the numeric form of a value used by arithmetic: numbers
// are returned unchanged, booleans become 0 or 1. Everything else is
// rejected with ErrValue, except errors that are returned as is.
func ToNumber(val Value) (Value, error) {
	switch v := val.(type) {
	case Int, Float:
		return v, nil
	case Boolean:
		if v {
			return Int(1), nil
		}
		return Int(0), nil
	case Error:
		return nil, v
	default:
		return nil, ErrValue
	}
}

// ToText renders a value the way concatenation sees it.
func ToText(val Value) Text {
	if val == nil {
		return ""
	}
	return Text(val.String())
}

func IsNumber(val Value) bool {
	switch val.(type) {
	case Int, Float:
		return true
	default:
		return false
	}
}

func IsBlank(val Value) bool {
	_, ok := val.(Blank)
	return ok || val == nil
}

func True(val Value) bool {
	b, ok := val.(Boolean)
	if ok {
		return bool(b)
	}
	return false
}

func asFloat(val Value) float64 {
	switch v := val.(type) {
	case Int:
		return float64(v)
	case Float:
		return float64(v)
	default:
		return math.NaN()
	}
}
