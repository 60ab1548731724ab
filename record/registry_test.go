package record

import (
	"testing"

	"objrel/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type artist struct{ h *Handle }

func (a artist) Handle() *Handle { return a.h }

type song struct{ h *Handle }

func (s song) Handle() *Handle { return s.h }

func newRegistry(t *testing.T) *Registry {
	reg := NewRegistry()
	require.NoError(t, reg.Register("Artist", func(h *Handle) Model { return artist{h} }))
	require.NoError(t, reg.Register("Song", func(h *Handle) Model { return song{h} }))
	return reg
}

func TestRegistryMaterialize(t *testing.T) {
	// arrange
	reg := newRegistry(t)
	h := Resolved("Artist", "a1", map[string]any{"name": "Taylor Swift"})

	// act
	m, err := reg.Materialize(h)

	// assert
	require.NoError(t, err)
	assert.IsType(t, artist{}, m)
	assert.Same(t, h, m.Handle())
	assert.Equal(t, []string{"Artist", "Song"}, reg.ClassNames())
	assert.True(t, reg.Has("Song"))
}

func TestRegistryUnknownClass(t *testing.T) {
	// act
	_, err := newRegistry(t).Materialize(Stub("Album", "x"))

	// assert
	assert.ErrorIs(t, err, store.ErrValidation)
}

func TestRegistryRegisterTwice(t *testing.T) {
	// arrange
	reg := newRegistry(t)

	// act
	err := reg.Register("Song", func(h *Handle) Model { return song{h} })
	errName := reg.Register("not a class", func(h *Handle) Model { return song{h} })
	errNil := reg.Register("Album", nil)

	// assert
	assert.ErrorIs(t, err, store.ErrValidation)
	assert.ErrorIs(t, errName, store.ErrValidation)
	assert.ErrorIs(t, errNil, store.ErrValidation)
}

func TestAs(t *testing.T) {
	// arrange
	reg := newRegistry(t)
	h := Stub("Song", "s1")

	// act
	s, err := As[song](reg, h)
	_, errType := As[artist](reg, h)

	// assert
	require.NoError(t, err)
	assert.Same(t, h, s.Handle())
	assert.ErrorIs(t, errType, store.ErrValidation)
}
