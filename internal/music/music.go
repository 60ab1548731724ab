// Artist and Song records of the relation walkthrough.
package music

import (
	"objrel/record"
)

const (
	ArtistClass = "Artist"
	SongClass   = "Song"
)

var (
	// ArtistSongs links an artist to the songs it performs.
	ArtistSongs = record.RelationField{Name: "songs", TargetClass: SongClass}
	// SongArtist points a song at its artist.
	SongArtist = record.PointerField{Name: "artist", TargetClass: ArtistClass}
)

type Artist struct {
	h *record.Handle
}

func NewArtist(name string) Artist {
	return Artist{record.New(ArtistClass, map[string]any{"name": name})}
}

func (a Artist) Handle() *record.Handle {
	return a.h
}

func (a Artist) Name() string {
	name, _ := record.Get[string](a.h, "name")
	return name
}

func (a Artist) AddSong(s Song) error {
	return ArtistSongs.Add(a.h, s.h)
}

func (a Artist) RemoveSong(s Song) error {
	return ArtistSongs.Remove(a.h, s.h)
}

type Song struct {
	h *record.Handle
}

func NewSong(name string) Song {
	return Song{record.New(SongClass, map[string]any{"name": name})}
}

func (s Song) Handle() *record.Handle {
	return s.h
}

func (s Song) Name() string {
	name, _ := record.Get[string](s.h, "name")
	return name
}

// Artist returns the song's artist, a stub until resolved.
func (s Song) Artist() (Artist, bool) {
	h, ok := SongArtist.Get(s.h)
	if !ok {
		return Artist{}, false
	}
	return Artist{h}, true
}

func (s Song) SetArtist(a Artist) error {
	return SongArtist.Set(s.h, a.h)
}

// Register adds both classes to reg.
func Register(reg *record.Registry) error {
	if err := reg.Register(ArtistClass, func(h *record.Handle) record.Model { return Artist{h} }); err != nil {
		return err
	}
	return reg.Register(SongClass, func(h *record.Handle) record.Model { return Song{h} })
}
