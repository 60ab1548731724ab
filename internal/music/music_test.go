package music

import (
	"testing"

	"objrel/record"
	"objrel/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	// arrange
	reg := record.NewRegistry()

	// act
	err := Register(reg)
	song, errAs := record.As[Song](reg, record.Resolved(SongClass, "s1", map[string]any{"name": "Mean"}))

	// assert
	require.NoError(t, err)
	require.NoError(t, errAs)
	assert.Equal(t, []string{ArtistClass, SongClass}, reg.ClassNames())
	assert.Equal(t, "Mean", song.Name())
}

func TestSongArtist(t *testing.T) {
	// arrange
	taylor := NewArtist("Taylor Swift")
	mean := NewSong("Mean")

	// act
	errUnsaved := mean.SetArtist(taylor)
	taylor.Handle().Commit("a1")
	err := mean.SetArtist(taylor)
	got, ok := mean.Artist()

	// assert
	assert.ErrorIs(t, errUnsaved, store.ErrPrecondition)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Taylor Swift", got.Name())
}

func TestArtistSongs(t *testing.T) {
	// arrange
	kendrick := NewArtist("Kendrick Lamar")
	song := NewSong("Humble")
	song.Handle().Commit("s1")

	// act
	errUnsaved := kendrick.AddSong(song)
	kendrick.Handle().Commit("a1")
	err := kendrick.AddSong(song)

	// assert
	assert.ErrorIs(t, errUnsaved, store.ErrPrecondition)
	require.NoError(t, err)
	assert.Len(t, ArtistSongs.Pending(kendrick.Handle()), 1)
}
