package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(r Range[string, int]) ([]string, []int) {
	var keys []string
	var values []int
	for r.Next() {
		k, v := r.Value()
		keys = append(keys, k)
		values = append(values, v)
	}
	return keys, values
}

func TestStorages(t *testing.T) {
	for _, name := range []string{"trie", "skipmap"} {
		name := name
		t.Run(name, func(t *testing.T) {
			// arrange
			stg, ok := ByName[int](name)
			assert.True(t, ok)

			stg.Set("obj/Song/2", 2)
			stg.Set("obj/Song/1", 1)
			stg.Set("obj/Artist/1", 10)
			stg.Set("rel/Artist/1/songs/Song/1", 100)

			// act
			keys, values := collect(stg.Range("obj/Song/"))
			v, found := stg.Get("obj/Artist/1")
			stg.Del("obj/Artist/1")
			_, foundAfterDel := stg.Get("obj/Artist/1")

			// assert
			assert.Equal(t, []string{"obj/Song/1", "obj/Song/2"}, keys)
			assert.Equal(t, []int{1, 2}, values)
			assert.True(t, found)
			assert.Equal(t, 10, v)
			assert.False(t, foundAfterDel)
		})
	}
}

func TestRangeNoMatch(t *testing.T) {
	for _, name := range []string{"trie", "skipmap"} {
		stg, _ := ByName[int](name)
		stg.Set("obj/Song/1", 1)

		keys, _ := collect(stg.Range("obj/Artist/"))

		assert.Empty(t, keys, name)
	}
}

func TestByNameUnknown(t *testing.T) {
	_, ok := ByName[int]("btree")
	assert.False(t, ok)
}
