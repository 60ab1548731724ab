package query

import (
	"errors"
	"testing"

	"objrel/store"

	"github.com/stretchr/testify/assert"
)

type ref struct {
	p   store.Pointer
	err error
}

func (r ref) Pointer() (store.Pointer, error) {
	return r.p, r.err
}

func TestBuilderIsImmutable(t *testing.T) {
	// arrange
	base := New("Song").WhereEqual("name", "Mean")

	// act
	a := base.WhereEqual("year", 2010)
	b := base.WhereNotEqual("year", 2012).Limit(1)

	// assert
	assert.Len(t, base.Filters(), 1)
	assert.Equal(t, 0, base.MaxResults())
	assert.Equal(t, []store.Filter{
		{Field: "name", Op: store.OpEqual, Value: "Mean"},
		{Field: "year", Op: store.OpEqual, Value: 2010},
	}, a.Filters())
	assert.Equal(t, []store.Filter{
		{Field: "name", Op: store.OpEqual, Value: "Mean"},
		{Field: "year", Op: store.OpNotEqual, Value: 2012},
	}, b.Filters())
	assert.Equal(t, 1, b.MaxResults())
	assert.NoError(t, a.Err())
}

func TestWhereEqualReference(t *testing.T) {
	// arrange
	taylor := store.Pointer{ClassName: "Artist", ObjectID: "a1"}

	// act
	q := New("Song").WhereEqual("artist", ref{p: taylor})

	// assert
	assert.NoError(t, q.Err())
	assert.Equal(t, taylor, q.Filters()[0].Value)
}

func TestWhereEqualUnpersistedReference(t *testing.T) {
	// act
	q := New("Song").
		WhereEqual("artist", ref{err: store.ErrPrecondition}).
		WhereEqual("name", "Mean")

	// assert
	assert.ErrorIs(t, q.Err(), store.ErrPrecondition)
	assert.Len(t, q.Filters(), 1)
}

func TestRelated(t *testing.T) {
	// arrange
	kendrick := store.Pointer{ClassName: "Artist", ObjectID: "k1"}

	// act
	q := Related(kendrick, "songs", "Song")
	source, relation, ok := q.Source()
	_, _, plainOk := New("Song").Source()

	// assert
	assert.True(t, ok)
	assert.Equal(t, kendrick, source)
	assert.Equal(t, "songs", relation)
	assert.Equal(t, "Song", q.ClassName())
	assert.False(t, plainOk)
}

func TestInvalidClassName(t *testing.T) {
	err := New("").Err()
	assert.True(t, errors.Is(err, store.ErrValidation))
}

func TestWhereEqualNilReference(t *testing.T) {
	// arrange
	var missing *ref

	// act
	q := New("Song").WhereEqual("artist", missing)

	// assert
	assert.ErrorIs(t, q.Err(), store.ErrPrecondition)
	assert.Empty(t, q.Filters())
}
