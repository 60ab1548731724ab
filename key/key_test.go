package key

import (
	"testing"

	bval "objrel/bvalue"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	// arrange
	k := Object("Song", bval.FromString("00000001"))

	// act
	s := k.String()
	parsed, err := FromString(s)

	// assert
	assert.Equal(t, "obj/Song/00000001", s)
	assert.NoError(t, err)
	assert.Equal(t, k, parsed)
	assert.Contains(t, s, ObjectPrefix("Song"))
}

func TestEdgeKey(t *testing.T) {
	// arrange
	src := bval.FromString("a1")
	k := Edge("Artist", src, "songs", "Song", bval.FromString("s1"))

	// act
	s := k.String()
	parsed, err := FromString(s)

	// assert
	assert.Equal(t, "rel/Artist/a1/songs/Song/s1", s)
	assert.NoError(t, err)
	assert.Equal(t, k, parsed)
	assert.Equal(t, "rel/Artist/a1/songs/", EdgePrefix("Artist", src, "songs"))
}

func TestKeyFromInvalidString(t *testing.T) {
	for _, s := range []string{"", "obj/Song", "rel/Artist/a1/songs", "idx/Song/name/Mean"} {
		_, err := FromString(s)
		assert.Error(t, err, s)
	}
}

func TestKeyEscapesIDs(t *testing.T) {
	// arrange
	k := Edge("Artist", bval.FromString("a/1"), "songs", "Song", bval.FromString("s%2"))

	// act
	s := k.String()
	parsed, err := FromString(s)

	// assert
	assert.Equal(t, "rel/Artist/a%2F1/songs/Song/s%252", s)
	assert.NoError(t, err)
	assert.Equal(t, k, parsed)
}
