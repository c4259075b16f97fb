package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStore_ReadWrite(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "data")

	store, err := NewDiskStore(root)
	require.NoError(t, err)
	assert.Equal(t, root, store.RootPath())

	_, found, err := store.Read(ctx, KeyWorkouts)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Write(ctx, KeyWorkouts, []byte(`[1]`)))
	require.NoError(t, store.Write(ctx, KeyWorkouts, []byte(`[1,2]`)))

	value, found, err := store.Read(ctx, KeyWorkouts)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `[1,2]`, string(value))

	fileContent, err := os.ReadFile(filepath.Join(root, "workouts.json"))
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(fileContent))

	// no temp files left behind
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "workouts.json", entries[0].Name())

	assert.NoError(t, store.Close())
}

func TestDiskStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	store, err := NewDiskStore(root)
	require.NoError(t, err)
	require.NoError(t, store.Write(ctx, KeyWorkoutTemplates, []byte(`[{"id":"t1"}]`)))

	reopened, err := NewDiskStore(root)
	require.NoError(t, err)
	value, found, err := reopened.Read(ctx, KeyWorkoutTemplates)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `[{"id":"t1"}]`, string(value))
}

func TestDiskStore_InvalidKeys(t *testing.T) {
	ctx := context.Background()
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../escape", `a\b`, ".hidden"} {
		_, _, err := store.Read(ctx, key)
		assert.ErrorIs(t, err, ErrInvalidKey, key)
		assert.ErrorIs(t, store.Write(ctx, key, []byte("x")), ErrInvalidKey, key)
	}
}

func TestNewDiskStore_RootIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	store, err := NewDiskStore(file)
	require.Error(t, err)
	assert.Nil(t, store)
}
