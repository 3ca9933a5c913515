package builtins

import (
	"slices"
	"strings"

	"github.com/midbel/gnumeric/internal/ds"
	"github.com/midbel/gnumeric/value"
)

// Func receives its arguments already evaluated: ranges are given as
// value.Array. A value.Error returned as error is reported as the result of
// the call.
type Func func([]value.Value) (value.Value, error)

var Registry = map[string]Func{
	"abs":     Abs,
	"len":     Len,
	"sum":     Sum,
	"product": Product,
	"max":     Max,
	"min":     Min,
	"count":   Count,
	"average": Average,
	"typeof":  TypeOf,
}

func Lookup(name string) (Func, bool) {
	fn, ok := Registry[strings.ToLower(name)]
	return fn, ok
}

// Table is a mutable copy of the Registry with its names indexed for
// completion.
type Table struct {
	funcs map[string]Func
	names *ds.Trie[string]
}

func NewTable() *Table {
	t := Table{
		funcs: make(map[string]Func),
		names: ds.NewTrie[string](),
	}
	for name, fn := range Registry {
		t.Register(name, fn)
	}
	return &t
}

func (t *Table) Register(name string, fn Func) {
	name = strings.ToLower(name)
	if name == "" || fn == nil {
		return
	}
	t.funcs[name] = fn
	t.names.Register(splitName(name), strings.ToUpper(name))
}

// Alias makes fn available under another name. It reports false when the
// target is unknown.
func (t *Table) Alias(alias, target string) bool {
	fn, ok := t.Lookup(target)
	if ok {
		t.Register(alias, fn)
	}
	return ok
}

func (t *Table) Lookup(name string) (Func, bool) {
	fn, ok := t.funcs[strings.ToLower(name)]
	return fn, ok
}

func (t *Table) Names() []string {
	return t.Complete("")
}

// Complete returns the upper case names of the functions starting with
// prefix, sorted.
func (t *Table) Complete(prefix string) []string {
	var list []string
	t.names.Walk(splitName(strings.ToLower(prefix)), func(_ []string, name string) {
		list = append(list, name)
	})
	slices.Sort(list)
	return list
}

func splitName(name string) []string {
	var parts []string
	for _, c := range name {
		parts = append(parts, string(c))
	}
	return parts
}
