package ds

import (
	"maps"
	"slices"
)

type node[T any] struct {
	value    T
	set      bool
	children map[string]*node[T]
}

// Trie stores values under paths of names. A value can be registered at
// any depth, including under the path of another value.
type Trie[T any] struct {
	root node[T]
}

func NewTrie[T any]() *Trie[T] {
	return new(Trie[T])
}

func (t *Trie[T]) Register(path []string, value T) {
	if len(path) == 0 {
		return
	}
	curr := &t.root
	for _, name := range path {
		if curr.children == nil {
			curr.children = make(map[string]*node[T])
		}
		next, ok := curr.children[name]
		if !ok {
			next = new(node[T])
			curr.children[name] = next
		}
		curr = next
	}
	curr.value, curr.set = value, true
}

func (t *Trie[T]) Get(path []string) (T, bool) {
	var zero T
	n := t.lookup(path)
	if n == nil || !n.set {
		return zero, false
	}
	return n.value, true
}

// Walk calls fn for every value registered under the given prefix. Children
// are visited in lexical order.
func (t *Trie[T]) Walk(prefix []string, fn func(path []string, v T)) {
	if n := t.lookup(prefix); n != nil {
		walkNode(n, slices.Clone(prefix), fn)
	}
}

func walkNode[T any](n *node[T], path []string, fn func([]string, T)) {
	if n.set {
		fn(slices.Clone(path), n.value)
	}
	for _, name := range slices.Sorted(maps.Keys(n.children)) {
		walkNode(n.children[name], append(path, name), fn)
	}
}

func (t *Trie[T]) lookup(path []string) *node[T] {
	curr := &t.root
	for _, name := range path {
		next, ok := curr.children[name]
		if !ok {
			return nil
		}
		curr = next
	}
	return curr
}
