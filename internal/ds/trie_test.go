package ds

import (
	"slices"
	"strings"
	"testing"
)

func TestTrie(t *testing.T) {
	trie := NewTrie[int]()
	trie.Register([]string{"eval", "depth"}, 1)
	trie.Register([]string{"eval", "depth", "max"}, 2)
	trie.Register([]string{"log", "level"}, 3)
	trie.Register(nil, 4)

	if v, ok := trie.Get([]string{"eval", "depth"}); !ok || v != 1 {
		t.Errorf("eval.depth: unexpected value %d (%t)", v, ok)
	}
	if _, ok := trie.Get([]string{"eval"}); ok {
		t.Errorf("eval: intermediate node should not have a value")
	}
	if _, ok := trie.Get([]string{"nothing"}); ok {
		t.Errorf("nothing: unknown path should not have a value")
	}

	var got []string
	trie.Walk(nil, func(path []string, _ int) {
		got = append(got, strings.Join(path, "."))
	})
	want := []string{"eval.depth", "eval.depth.max", "log.level"}
	if !slices.Equal(got, want) {
		t.Errorf("walk mismatched! want %v, got %v", want, got)
	}

	got = got[:0]
	trie.Walk([]string{"log"}, func(path []string, _ int) {
		got = append(got, strings.Join(path, "."))
	})
	if !slices.Equal(got, []string{"log.level"}) {
		t.Errorf("walk with prefix mismatched: %v", got)
	}
}
