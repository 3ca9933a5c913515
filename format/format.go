package format

import (
	"github.com/midbel/gnumeric/value"
)

const DefaultNumberPattern = "#,##0.##"

type Formatter interface {
	Format(value.Value) (string, error)
}

// ValueFormatter selects a formatter by the type of the value. Values
// without a formatter use their default representation.
type ValueFormatter struct {
	formatters map[string]Formatter
}

func FormatValue() *ValueFormatter {
	vf := ValueFormatter{
		formatters: make(map[string]Formatter),
	}
	return &vf
}

func (vf *ValueFormatter) Set(kind string, formatter Formatter) {
	vf.formatters[kind] = formatter
}

func (vf *ValueFormatter) Number(pattern string) error {
	f, err := ParseNumberFormatter(pattern)
	if err == nil {
		vf.Set(value.TypeNumber, f)
	}
	return err
}

func (vf *ValueFormatter) Format(v value.Value) (string, error) {
	if v == nil {
		return "", nil
	}
	if e, ok := v.(value.Error); ok {
		return e.String(), nil
	}
	f, ok := vf.formatters[v.Type()]
	if ok {
		return f.Format(v)
	}
	return v.String(), nil
}

type strFormatter struct{}

func FormatString() Formatter {
	return strFormatter{}
}

func (strFormatter) Format(v value.Value) (string, error) {
	return v.String(), nil
}

type boolFormatter struct {
	true  string
	false string
}

// FormatBool writes booleans with the given words.
func FormatBool(t, f string) Formatter {
	return boolFormatter{
		true:  t,
		false: f,
	}
}

func (f boolFormatter) Format(v value.Value) (string, error) {
	if value.True(v) {
		return f.true, nil
	}
	return f.false, nil
}
