package kvstore

import (
	"context"
	"errors"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

var _ Store = (*CachedStore)(nil)

// CachedStore is a read-through cache in front of another store.
// Writes go to the inner store first and then refresh the cached value.
// Values larger than 1/1024 of the cache size are never cached.
type CachedStore struct {
	inner Store
	cache *freecache.Cache
}

func NewCachedStore(inner Store, cacheSizeBytes int) *CachedStore {
	return &CachedStore{
		inner: inner,
		cache: freecache.NewCache(cacheSizeBytes),
	}
}

func (s *CachedStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if value, err := s.cache.Get([]byte(key)); err == nil {
		log.Tracef("kvstore cache hit: %s", key)
		return value, true, nil
	} else if !errors.Is(err, freecache.ErrNotFound) {
		log.Warnf("kvstore cache get %s: %s", key, err)
	}

	value, found, err := s.inner.Read(ctx, key)
	if err != nil || !found {
		return value, found, err
	}

	s.set(key, value)
	return value, true, nil
}

func (s *CachedStore) Write(ctx context.Context, key string, value []byte) error {
	if err := s.inner.Write(ctx, key, value); err != nil {
		s.cache.Del([]byte(key))
		return err
	}
	s.set(key, value)
	return nil
}

func (s *CachedStore) set(key string, value []byte) {
	if err := s.cache.Set([]byte(key), value, 0); err != nil {
		// stale entries must not survive a failed refresh
		s.cache.Del([]byte(key))
		log.Debugf("kvstore cache set %s (%d bytes): %s", key, len(value), err)
	}
}

func (s *CachedStore) Close() error {
	s.cache.Clear()
	return s.inner.Close()
}
