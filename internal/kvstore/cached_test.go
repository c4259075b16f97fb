package kvstore

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	*MemoryStore
	reads    int
	writeErr error
}

func (s *countingStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	s.reads++
	return s.MemoryStore.Read(ctx, key)
}

func (s *countingStore) Write(ctx context.Context, key string, value []byte) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	return s.MemoryStore.Write(ctx, key, value)
}

func TestCachedStore_ReadThrough(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	require.NoError(t, inner.MemoryStore.Write(ctx, KeyWorkouts, []byte(`[1]`)))

	store := NewCachedStore(inner, 1024*1024)
	for i := 0; i < 3; i++ {
		value, found, err := store.Read(ctx, KeyWorkouts)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, `[1]`, string(value))
	}
	assert.Equal(t, 1, inner.reads)

	// misses are not cached
	for i := 0; i < 2; i++ {
		_, found, err := store.Read(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, found)
	}
	assert.Equal(t, 3, inner.reads)
	assert.NoError(t, store.Close())
}

func TestCachedStore_WriteRefreshesCache(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	store := NewCachedStore(inner, 1024*1024)

	require.NoError(t, store.Write(ctx, KeyWorkouts, []byte(`[1]`)))
	require.NoError(t, store.Write(ctx, KeyWorkouts, []byte(`[1,2]`)))

	value, found, err := store.Read(ctx, KeyWorkouts)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `[1,2]`, string(value))
	assert.Equal(t, 0, inner.reads)
}

func TestCachedStore_FailedWriteDropsEntry(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	store := NewCachedStore(inner, 1024*1024)

	require.NoError(t, store.Write(ctx, KeyWorkouts, []byte(`[1]`)))

	inner.writeErr = errors.New("disk full")
	assert.EqualError(t, store.Write(ctx, KeyWorkouts, []byte(`[1,2]`)), "disk full")

	// served from the inner store, which still has the old value
	value, found, err := store.Read(ctx, KeyWorkouts)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `[1]`, string(value))
	assert.Equal(t, 1, inner.reads)
}

func TestCachedStore_LargeValuesBypassCache(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	// freecache min size is 512KB, so the max entry is 512 bytes
	store := NewCachedStore(inner, 512*1024)

	large := []byte(strings.Repeat("x", 4096))
	require.NoError(t, store.Write(ctx, KeyWorkouts, large))

	for i := 0; i < 2; i++ {
		value, found, err := store.Read(ctx, KeyWorkouts)
		require.NoError(t, err)
		require.True(t, found)
		assert.Len(t, value, len(large))
	}
	assert.Equal(t, 2, inner.reads)
}
