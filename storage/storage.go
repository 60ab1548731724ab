// Ordered key/value storages keyed by strings.
package storage

type Storage[V any] interface {
	Get(string) (V, bool)
	Set(string, V)
	Del(string)
	// Range iterates over keys starting with prefix in ascending order.
	Range(prefix string) Range[string, V]
	ToMap() map[string]V
}

type Range[K comparable, V any] interface {
	Next() bool
	Value() (K, V)
}

// ByName returns an empty storage of the given kind ("trie" or "skipmap").
func ByName[V any](name string) (Storage[V], bool) {
	switch name {
	case "trie":
		return NewPrefixTreeStorage[V](), true
	case "skipmap":
		return NewSkipMapStorage[V](), true
	}
	return nil, false
}

// keysRange walks a snapshot of keys, reading values lazily.
type keysRange[V any] struct {
	keys       []string
	curr       int
	storageRef Storage[V]
}

func (r *keysRange[V]) Value() (string, V) {
	key := r.keys[r.curr]
	r.curr++

	// SAFETY: the key is from r.keys array which
	// the inner storage gave us, we can assume this key exists
	value, _ := r.storageRef.Get(key)
	return key, value
}

func (r *keysRange[V]) Next() bool {
	return r.curr < len(r.keys)
}
