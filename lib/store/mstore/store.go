package mstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/Attumm/valkey-dict/lib/store"
)

type entry struct {
	value    string
	expireAt time.Time // zero means no expiration
}

func (e entry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && now.After(e.expireAt)
}

type storeImpl struct {
	data *xsync.MapOf[string, entry]
	mu   sync.Mutex // serializes composite read-modify-write commands
}

// New creates an empty in-memory store.
func New() store.IStore {
	return &storeImpl{
		data: xsync.NewMapOf[string, entry](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Set(_ context.Context, key, value string, expire time.Duration) error {
	s.data.Store(key, newEntry(value, expire))
	return nil
}

func (s *storeImpl) SetKeepTTL(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// An absent or expired key is written without a TTL, matching the
	// server's SET ... KEEPTTL behavior.
	deadline := time.Time{}
	if old, ok := s.data.Load(key); ok && !old.expired(time.Now()) {
		deadline = old.expireAt
	}
	s.data.Store(key, entry{value: value, expireAt: deadline})
	return nil
}

func (s *storeImpl) Delete(_ context.Context, keys ...string) (int64, error) {
	now := time.Now()
	var n int64
	for _, key := range keys {
		if e, ok := s.data.LoadAndDelete(key); ok && !e.expired(now) {
			n++
		}
	}
	return n, nil
}

func (s *storeImpl) Get(_ context.Context, key string) (string, bool, error) {
	e, ok := s.load(key)
	return e.value, ok, nil
}

func (s *storeImpl) MGet(_ context.Context, keys ...string) ([]*string, error) {
	values := make([]*string, len(keys))
	for i, key := range keys {
		if e, ok := s.load(key); ok {
			v := e.value
			values[i] = &v
		}
	}
	return values, nil
}

func (s *storeImpl) GetDel(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data.LoadAndDelete(key)
	if !ok || e.expired(time.Now()) {
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *storeImpl) SetIfAbsentGet(_ context.Context, key, value string, expire time.Duration, keepTTL bool) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.data.Load(key); ok && !old.expired(time.Now()) {
		return old.value, true, nil
	}
	// KEEPTTL on an absent key stores without expiration.
	if keepTTL {
		expire = 0
	}
	s.data.Store(key, newEntry(value, expire))
	return "", false, nil
}

func (s *storeImpl) Exists(_ context.Context, key string) (bool, error) {
	_, ok := s.load(key)
	return ok, nil
}

func (s *storeImpl) TTL(_ context.Context, key string) (time.Duration, bool, error) {
	e, ok := s.load(key)
	if !ok || e.expireAt.IsZero() {
		return 0, false, nil
	}
	return time.Until(e.expireAt), true, nil
}

func (s *storeImpl) Scan(_ context.Context, cursor uint64, match string, count int64) ([]string, uint64, error) {
	keys := s.matchingKeys(match)

	if cursor >= uint64(len(keys)) {
		return nil, 0, nil
	}
	rest := keys[cursor:]
	if count <= 0 || int64(len(rest)) <= count {
		return rest, 0, nil
	}
	return rest[:count], cursor + uint64(count), nil
}

func (s *storeImpl) Pipeline() store.Pipeline {
	return &pipeline{store: s}
}

func (s *storeImpl) SupportsFeature(feature store.Feature) bool {
	supported := store.FeatureScan | store.FeatureGetDel | store.FeatureConditionalSet | store.FeaturePipeline
	return feature&supported == feature
}

func (s *storeImpl) Close() error {
	s.data.Clear()
	return nil
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func newEntry(value string, expire time.Duration) entry {
	e := entry{value: value}
	if expire > 0 {
		e.expireAt = time.Now().Add(expire)
	}
	return e
}

// load returns the live entry for key, lazily removing it if expired.
func (s *storeImpl) load(key string) (entry, bool) {
	e, ok := s.data.Load(key)
	if !ok {
		return entry{}, false
	}
	if e.expired(time.Now()) {
		s.data.Delete(key)
		return entry{}, false
	}
	return e, true
}

// matchingKeys snapshots the live keys matching the glob pattern, sorted so
// the offset cursor pages deterministically.
func (s *storeImpl) matchingKeys(match string) []string {
	now := time.Now()
	var keys []string
	s.data.Range(func(key string, e entry) bool {
		if !e.expired(now) && matchGlob(match, key) {
			keys = append(keys, key)
		}
		return true
	})
	sort.Strings(keys)
	return keys
}
