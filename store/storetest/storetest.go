// Contract tests every store.Store implementation runs.
package storetest

import (
	"context"
	"testing"
	"time"

	"objrel/objid"
	"objrel/store"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var none = mo.None[objid.ID]()

// Run runs the contract tests, newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	tests := []struct {
		name string
		run  func(t *testing.T, s store.Store)
	}{
		{"SaveFetch", testSaveFetch},
		{"SaveReplacesFields", testSaveReplacesFields},
		{"SaveUnknownID", testSaveUnknownID},
		{"FetchMissing", testFetchMissing},
		{"SaveInvalid", testSaveInvalid},
		{"QueryEqual", testQueryEqual},
		{"QueryByPointer", testQueryByPointer},
		{"ValueKinds", testValueKinds},
		{"QueryLargeInteger", testQueryLargeInteger},
		{"RelationMembership", testRelationMembership},
		{"RelationMissingMember", testRelationMissingMember},
		{"RelationSingleClass", testRelationSingleClass},
		{"QueryRelatedUnknownSource", testQueryRelatedUnknownSource},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tc.run(t, newStore(t))
		})
	}
}

func save(t *testing.T, s store.Store, className string, fields map[string]any) objid.ID {
	t.Helper()
	id, err := s.Save(context.Background(), className, none, fields, nil)
	require.NoError(t, err)
	require.False(t, id.IsZero())
	return id
}

func names(objs []store.Object) []string {
	out := make([]string, 0, len(objs))
	for _, o := range objs {
		name, _ := o.Fields["name"].(string)
		out = append(out, name)
	}
	return out
}

func testSaveFetch(t *testing.T, s store.Store) {
	// arrange
	fields := map[string]any{"name": "Taylor Swift", "albums": 10, "active": true}

	// act
	id := save(t, s, "Artist", fields)
	fetched, err := s.Fetch(context.Background(), "Artist", id)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, store.Canonical(fields), fetched)
}

func testValueKinds(t *testing.T, s store.Store) {
	// arrange
	ctx := context.Background()
	artist := store.Pointer{ClassName: "Artist", ObjectID: save(t, s, "Artist", map[string]any{"name": "Taylor Swift"})}
	fields := map[string]any{
		"name":     "Mean",
		"rating":   4.0,
		"score":    4.5,
		"plays":    int64(1<<53 + 1),
		"released": time.Date(2011, 3, 13, 8, 30, 0, 1000, time.UTC),
		"artist":   artist,
		"tags":     []any{"country", 2.0, int64(3), map[string]any{"live": true}},
		"chart":    map[string]any{"peak": 11, "weeks": 20.0, "nested": []any{artist}},
		"missing":  nil,
	}

	// act
	id := save(t, s, "Song", fields)
	fetched, err := s.Fetch(ctx, "Song", id)
	require.NoError(t, err)
	queried, errQuery := s.Query(ctx, "Song", nil, 0)

	// assert
	want := store.Canonical(fields)
	assert.Equal(t, want, fetched)
	assert.IsType(t, float64(0), fetched["rating"])
	assert.Equal(t, int64(1<<53+1), fetched["plays"])
	require.NoError(t, errQuery)
	require.Len(t, queried, 1)
	assert.Equal(t, want, queried[0].Fields)
}

func testQueryLargeInteger(t *testing.T, s store.Store) {
	// arrange
	ctx := context.Background()
	save(t, s, "Song", map[string]any{"name": "odd", "plays": int64(1<<53 + 1)})
	save(t, s, "Song", map[string]any{"name": "even", "plays": int64(1 << 53)})
	save(t, s, "Song", map[string]any{"name": "whole", "plays": 7.0})

	// act
	exact, err := s.Query(ctx, "Song", []store.Filter{{Field: "plays", Op: store.OpEqual, Value: int64(1 << 53)}}, 0)
	require.NoError(t, err)
	mixed, errMixed := s.Query(ctx, "Song", []store.Filter{{Field: "plays", Op: store.OpEqual, Value: 7}}, 0)

	// assert
	assert.Equal(t, []string{"even"}, names(exact))
	require.NoError(t, errMixed)
	assert.Equal(t, []string{"whole"}, names(mixed))
}

func testSaveReplacesFields(t *testing.T, s store.Store) {
	// arrange
	ctx := context.Background()
	id := save(t, s, "Artist", map[string]any{"name": "Taylor", "genre": "country"})

	// act
	savedID, err := s.Save(ctx, "Artist", mo.Some(id), map[string]any{"name": "Taylor Swift"}, nil)
	fetched, fetchErr := s.Fetch(ctx, "Artist", id)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, id, savedID)
	assert.NoError(t, fetchErr)
	assert.Equal(t, map[string]any{"name": "Taylor Swift"}, fetched)
}

func testSaveUnknownID(t *testing.T, s store.Store) {
	_, err := s.Save(context.Background(), "Artist", mo.Some(objid.ID("nope")), map[string]any{"name": "x"}, nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testFetchMissing(t *testing.T, s store.Store) {
	_, err := s.Fetch(context.Background(), "Artist", objid.ID("nope"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testSaveInvalid(t *testing.T, s store.Store) {
	// arrange
	ctx := context.Background()

	// act
	_, errClass := s.Save(ctx, "bad class", none, map[string]any{"name": "x"}, nil)
	_, errField := s.Save(ctx, "Artist", none, map[string]any{"objectId": "x"}, nil)
	_, errValue := s.Save(ctx, "Artist", none, map[string]any{"name": struct{}{}}, nil)
	all, err := s.Query(ctx, "Artist", nil, 0)

	// assert
	assert.ErrorIs(t, errClass, store.ErrValidation)
	assert.ErrorIs(t, errField, store.ErrValidation)
	assert.ErrorIs(t, errValue, store.ErrValidation)
	assert.NoError(t, err)
	assert.Empty(t, all)
}

func testQueryEqual(t *testing.T, s store.Store) {
	// arrange
	ctx := context.Background()
	for _, name := range []string{"We Are Never Ever Getting Back Together", "Mean", "i", "Bad Blood"} {
		save(t, s, "Song", map[string]any{"name": name})
	}
	save(t, s, "Artist", map[string]any{"name": "Mean"})

	// act
	mean, errMean := s.Query(ctx, "Song", []store.Filter{{Field: "name", Op: store.OpEqual, Value: "Mean"}}, 0)
	all, errAll := s.Query(ctx, "Song", nil, 0)
	notMean, errNot := s.Query(ctx, "Song", []store.Filter{{Field: "name", Op: store.OpNotEqual, Value: "Mean"}}, 2)
	_, errBad := s.Query(ctx, "Song", []store.Filter{{Field: "name", Op: "like", Value: "M%"}}, 0)

	// assert
	assert.NoError(t, errMean)
	assert.Equal(t, []string{"Mean"}, names(mean))
	assert.Equal(t, "Song", mean[0].ClassName)
	assert.NoError(t, errAll)
	assert.Equal(t, []string{"We Are Never Ever Getting Back Together", "Mean", "i", "Bad Blood"}, names(all))
	assert.NoError(t, errNot)
	assert.Equal(t, []string{"We Are Never Ever Getting Back Together", "i"}, names(notMean))
	assert.ErrorIs(t, errBad, store.ErrValidation)
}

func testQueryByPointer(t *testing.T, s store.Store) {
	// arrange
	ctx := context.Background()
	taylor := store.Pointer{ClassName: "Artist", ObjectID: save(t, s, "Artist", map[string]any{"name": "Taylor Swift"})}
	kendrick := store.Pointer{ClassName: "Artist", ObjectID: save(t, s, "Artist", map[string]any{"name": "Kendrick Lamar"})}
	save(t, s, "Song", map[string]any{"name": "Mean", "artist": taylor})
	save(t, s, "Song", map[string]any{"name": "i", "artist": kendrick})
	save(t, s, "Song", map[string]any{"name": "Bad Blood", "artist": taylor})

	// act
	songs, err := s.Query(ctx, "Song", []store.Filter{{Field: "artist", Op: store.OpEqual, Value: taylor}}, 0)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"Mean", "Bad Blood"}, names(songs))
	assert.Equal(t, taylor, songs[0].Fields["artist"])
}

func testRelationMembership(t *testing.T, s store.Store) {
	// arrange
	ctx := context.Background()
	kendrickID := save(t, s, "Artist", map[string]any{"name": "Kendrick Lamar"})
	kendrick := store.Pointer{ClassName: "Artist", ObjectID: kendrickID}
	i := store.Pointer{ClassName: "Song", ObjectID: save(t, s, "Song", map[string]any{"name": "i"})}
	badBlood := store.Pointer{ClassName: "Song", ObjectID: save(t, s, "Song", map[string]any{"name": "Bad Blood"})}
	fields := map[string]any{"name": "Kendrick Lamar"}

	// act
	_, errAdd := s.Save(ctx, "Artist", mo.Some(kendrickID), fields, []store.RelationEdit{
		{Relation: "songs", Op: store.EditAdd, Target: badBlood},
		{Relation: "songs", Op: store.EditAdd, Target: i},
		{Relation: "songs", Op: store.EditAdd, Target: i},
	})
	related, errRelated := s.QueryRelated(ctx, kendrick, "songs", nil, 0)
	filtered, errFiltered := s.QueryRelated(ctx, kendrick, "songs",
		[]store.Filter{{Field: "name", Op: store.OpEqual, Value: "Bad Blood"}}, 0)

	_, errRemove := s.Save(ctx, "Artist", mo.Some(kendrickID), fields, []store.RelationEdit{
		{Relation: "songs", Op: store.EditRemove, Target: i},
	})
	afterRemove, errAfter := s.QueryRelated(ctx, kendrick, "songs", nil, 0)
	other, errOther := s.QueryRelated(ctx, kendrick, "features", nil, 0)

	// assert
	assert.NoError(t, errAdd)
	assert.NoError(t, errRelated)
	assert.Equal(t, []string{"i", "Bad Blood"}, names(related))
	assert.NoError(t, errFiltered)
	assert.Equal(t, []string{"Bad Blood"}, names(filtered))
	assert.NoError(t, errRemove)
	assert.NoError(t, errAfter)
	assert.Equal(t, []string{"Bad Blood"}, names(afterRemove))
	assert.NoError(t, errOther)
	assert.Empty(t, other)
}

func testRelationMissingMember(t *testing.T, s store.Store) {
	// arrange
	ctx := context.Background()
	id := save(t, s, "Artist", map[string]any{"name": "Kendrick"})
	ghost := store.Pointer{ClassName: "Song", ObjectID: objid.ID("ghost")}

	// act
	_, err := s.Save(ctx, "Artist", mo.Some(id), map[string]any{"name": "Kendrick Lamar"}, []store.RelationEdit{
		{Relation: "songs", Op: store.EditAdd, Target: ghost},
	})
	fetched, fetchErr := s.Fetch(ctx, "Artist", id)

	// assert
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, fetchErr)
	assert.Equal(t, "Kendrick", fetched["name"])
}

func testRelationSingleClass(t *testing.T, s store.Store) {
	// arrange
	ctx := context.Background()
	id := save(t, s, "Artist", map[string]any{"name": "Kendrick Lamar"})
	song := store.Pointer{ClassName: "Song", ObjectID: save(t, s, "Song", map[string]any{"name": "i"})}
	artist := store.Pointer{ClassName: "Artist", ObjectID: save(t, s, "Artist", map[string]any{"name": "SZA"})}
	fields := map[string]any{"name": "Kendrick Lamar"}

	// act
	_, errFirst := s.Save(ctx, "Artist", mo.Some(id), fields, []store.RelationEdit{
		{Relation: "songs", Op: store.EditAdd, Target: song},
	})
	_, errSecond := s.Save(ctx, "Artist", mo.Some(id), fields, []store.RelationEdit{
		{Relation: "songs", Op: store.EditAdd, Target: artist},
	})

	// assert
	assert.NoError(t, errFirst)
	assert.ErrorIs(t, errSecond, store.ErrValidation)
}

func testQueryRelatedUnknownSource(t *testing.T, s store.Store) {
	source := store.Pointer{ClassName: "Artist", ObjectID: objid.ID("nope")}
	_, err := s.QueryRelated(context.Background(), source, "songs", nil, 0)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
