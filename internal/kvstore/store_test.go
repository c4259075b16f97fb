package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
		// sqlite connection opener
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

type testItem struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"`
}

func TestCollection_LoadMissingKey(t *testing.T) {
	c := NewCollection[testItem](NewMemoryStore(), KeyWorkouts)
	assert.Equal(t, KeyWorkouts, c.Key())

	items, err := c.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCollection_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewCollection[testItem](store, KeyPersonalRecords)

	require.NoError(t, c.Save(ctx, []testItem{
		{ID: "a", Weight: 80},
		{ID: "b", Weight: 42.5},
	}))

	raw, found, err := store.Read(ctx, KeyPersonalRecords)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `[{"id":"a","weight":80},{"id":"b","weight":42.5}]`, string(raw))

	items, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []testItem{
		{ID: "a", Weight: 80},
		{ID: "b", Weight: 42.5},
	}, items)
}

func TestCollection_SaveNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewCollection[testItem](store, KeyWorkoutTemplates)

	require.NoError(t, c.Save(ctx, nil))
	raw, found, err := store.Read(ctx, KeyWorkoutTemplates)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "[]", string(raw))
}

func TestCollection_LoadCorrupted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Write(ctx, KeyWorkouts, []byte(`{not json`)))

	c := NewCollection[testItem](store, KeyWorkouts)
	items, err := c.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal workouts")
	assert.Nil(t, items)
}

func TestCollection_LoadNullValue(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Write(ctx, KeyWorkouts, []byte(`null`)))

	items, err := NewCollection[testItem](store, KeyWorkouts).Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, items)
	assert.Empty(t, items)
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	value := []byte("abc")
	require.NoError(t, store.Write(ctx, "k", value))
	value[0] = 'x'

	got, found, err := store.Read(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, _, err := store.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))

	_, found, err = store.Read(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, store.Close())
}
