package store

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"
	"time"

	"objrel/objid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFields(t *testing.T) {
	cases := []struct {
		name   string
		fields map[string]any
		ok     bool
	}{
		{"scalars", map[string]any{"name": "Mean", "plays": 3, "rating": 4.5, "live": false}, true},
		{"pointer", map[string]any{"artist": Pointer{"Artist", "a1"}}, true},
		{"nested", map[string]any{"tags": []any{"pop", 1}, "meta": map[string]any{"year": 2010}}, true},
		{"reserved", map[string]any{"objectId": "x"}, false},
		{"bad name", map[string]any{"1st": "x"}, false},
		{"unpersisted pointer", map[string]any{"artist": Pointer{ClassName: "Artist"}}, false},
		{"unsupported", map[string]any{"ch": make(chan int)}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidateFields(c.fields)
			if c.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrValidation)
			}
		})
	}
}

func TestEncodeDecodeFields(t *testing.T) {
	// arrange
	at := time.Date(2016, 4, 7, 12, 0, 0, 0, time.UTC)
	fields := map[string]any{
		"name":     "Mean",
		"artist":   Pointer{"Artist", objid.ID("a1")},
		"released": at,
		"plays":    int32(12),
		"tags":     []any{"country", Pointer{"Song", "s2"}},
	}

	// act
	encoded := EncodeFields(fields)
	decoded, err := DecodeFields(encoded)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"__type": "Pointer", "className": "Artist", "objectId": "a1"}, encoded["artist"])
	assert.Equal(t, Pointer{"Artist", "a1"}, decoded["artist"])
	assert.True(t, at.Equal(decoded["released"].(time.Time)))
	assert.Equal(t, int64(12), decoded["plays"])
	assert.Equal(t, []any{"country", Pointer{"Song", "s2"}}, decoded["tags"])
}

func TestDecodeFieldsRejectsUnknownTag(t *testing.T) {
	// act
	_, err := DecodeFields(map[string]any{"x": map[string]any{"__type": "Bytes"}})

	// assert
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMatch(t *testing.T) {
	// arrange
	fields := Canonical(map[string]any{
		"name":   "Mean",
		"plays":  3,
		"artist": Pointer{"Artist", "a1"},
	})

	// assert
	assert.True(t, Match(fields, nil))
	assert.True(t, Match(fields, []Filter{{"name", OpEqual, "Mean"}}))
	assert.True(t, Match(fields, []Filter{{"plays", OpEqual, 3.0}}))
	assert.True(t, Match(fields, []Filter{{"artist", OpEqual, Pointer{"Artist", "a1"}}}))
	assert.False(t, Match(fields, []Filter{{"artist", OpEqual, Pointer{"Artist", "a2"}}}))
	assert.False(t, Match(fields, []Filter{{"name", OpEqual, "Mean"}, {"plays", OpEqual, 4}}))
	assert.True(t, Match(fields, []Filter{{"name", OpNotEqual, "i"}}))
	assert.True(t, Match(fields, []Filter{{"missing", OpEqual, nil}}))
	assert.False(t, Match(fields, []Filter{{"missing", OpEqual, "x"}}))
}

func TestValidateEdits(t *testing.T) {
	// arrange
	good := []RelationEdit{{"songs", EditAdd, Pointer{"Song", "s1"}}}
	noID := []RelationEdit{{"songs", EditAdd, Pointer{ClassName: "Song"}}}
	badOp := []RelationEdit{{"songs", "toggle", Pointer{"Song", "s1"}}}

	// assert
	assert.NoError(t, ValidateEdits(good))
	assert.ErrorIs(t, ValidateEdits(noID), ErrValidation)
	assert.ErrorIs(t, ValidateEdits(badOp), ErrValidation)
}

func TestWholeFloatSurvivesTextCodecs(t *testing.T) {
	// arrange
	fields := map[string]any{"rating": 4.0, "score": 4.5, "weight": float32(2)}
	data, err := json.Marshal(EncodeFields(fields))
	require.NoError(t, err)
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&raw))

	// act
	decoded, err := DecodeFields(raw)

	// assert
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"rating": 4.0, "score": 4.5, "weight": 2.0}, decoded)
	assert.Equal(t, Canonical(fields), decoded)
}

func TestDecodeBadNumber(t *testing.T) {
	// act
	_, err := DecodeFields(map[string]any{"x": map[string]any{"__type": "Number", "float": "four"}})

	// assert
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEqualNumbers(t *testing.T) {
	assert.True(t, Equal(int64(1<<53+1), int64(1<<53+1)))
	assert.False(t, Equal(int64(1<<53), int64(1<<53+1)))
	assert.False(t, Equal(float64(1<<53), int64(1<<53+1)))
	assert.True(t, Equal(float64(1<<53), int64(1<<53)))
	assert.True(t, Equal(3, 3.0))
	assert.True(t, Equal(uint8(3), int64(3)))
	assert.False(t, Equal(3, 3.5))
	assert.False(t, Equal(3, "3"))
	assert.False(t, Equal(float64(1<<63), int64(math.MaxInt64)))
}
