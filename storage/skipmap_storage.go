package storage

import (
	"strings"

	"github.com/zhangyunhao116/skipmap"
)

var _ Storage[any] = (*skipMapStorage[any])(nil)

func NewSkipMapStorage[V any]() *skipMapStorage[V] {
	return &skipMapStorage[V]{skipmap.NewString[V]()}
}

// Sorted storage, safe for concurrent single key operations.
type skipMapStorage[V any] struct {
	inner *skipmap.StringMap[V]
}

func (s *skipMapStorage[V]) Get(key string) (V, bool) {
	return s.inner.Load(key)
}

func (s *skipMapStorage[V]) Set(key string, value V) {
	s.inner.Store(key, value)
}

func (s *skipMapStorage[V]) Del(key string) {
	s.inner.Delete(key)
}

func (s *skipMapStorage[V]) Range(prefix string) Range[string, V] {
	keys := make([]string, 0)
	s.inner.Range(func(k string, _ V) bool {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
			return true
		}
		// keys are visited in order, nothing after the prefix block matches
		return k < prefix
	})
	return &keysRange[V]{keys, 0, s}
}

func (s *skipMapStorage[V]) ToMap() map[string]V {
	out := make(map[string]V, s.inner.Len())
	s.inner.Range(func(k string, v V) bool {
		out[k] = v
		return true
	})
	return out
}
