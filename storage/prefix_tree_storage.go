package storage

import (
	"sort"

	"github.com/s0rg/trie"
)

var _ Storage[any] = (*prefixTreeStorage[any])(nil)

func NewPrefixTreeStorage[V any]() *prefixTreeStorage[V] {
	return &prefixTreeStorage[V]{trie.New[V]()}
}

// Not safe for concurrent use.
type prefixTreeStorage[V any] struct {
	inner *trie.Trie[V]
}

func (s *prefixTreeStorage[V]) Get(key string) (V, bool) {
	return s.inner.Find(key)
}

func (s *prefixTreeStorage[V]) Set(key string, value V) {
	s.inner.Add(key, value)
}

func (s *prefixTreeStorage[V]) Del(key string) {
	s.inner.Del(key)
}

// the trie suggests keys in no particular order
func (s *prefixTreeStorage[V]) Range(prefix string) Range[string, V] {
	keys, _ := s.inner.Suggest(prefix)
	sort.Strings(keys)
	return &keysRange[V]{keys, 0, s}
}

func (s *prefixTreeStorage[V]) ToMap() map[string]V {
	keys, _ := s.inner.Suggest("")
	out := make(map[string]V)
	for _, k := range keys {
		v, _ := s.inner.Find(k)
		out[k] = v
	}

	return out
}
