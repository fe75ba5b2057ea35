package rstore

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Attumm/valkey-dict/lib/store"
	storetesting "github.com/Attumm/valkey-dict/lib/store/testing"
)

// The suite needs a reachable server and is skipped unless
// VDICT_TEST_REDIS_ADDR is set. Each factory invocation is isolated in its
// own key prefix so repeated runs do not interfere.
func Test(t *testing.T) {
	addr := os.Getenv("VDICT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("VDICT_TEST_REDIS_ADDR not set")
	}

	run := time.Now().UnixNano()
	var instance int
	storetesting.RunStoreTests(t, "RStore", func() store.IStore {
		instance++
		opts := DefaultOptions()
		opts.Address = addr
		return &prefixed{
			IStore: NewClient(opts),
			prefix: fmt.Sprintf("vdict-test:%d:%d:", run, instance),
		}
	})
}

// prefixed decorates an IStore with a key prefix, isolating suite runs from
// each other and from live data in the same database.
type prefixed struct {
	store.IStore
	prefix string
}

func (p *prefixed) Set(ctx context.Context, key, value string, expire time.Duration) error {
	return p.IStore.Set(ctx, p.prefix+key, value, expire)
}

func (p *prefixed) SetKeepTTL(ctx context.Context, key, value string) error {
	return p.IStore.SetKeepTTL(ctx, p.prefix+key, value)
}

func (p *prefixed) Delete(ctx context.Context, keys ...string) (int64, error) {
	return p.IStore.Delete(ctx, p.addAll(keys)...)
}

func (p *prefixed) Get(ctx context.Context, key string) (string, bool, error) {
	return p.IStore.Get(ctx, p.prefix+key)
}

func (p *prefixed) MGet(ctx context.Context, keys ...string) ([]*string, error) {
	return p.IStore.MGet(ctx, p.addAll(keys)...)
}

func (p *prefixed) GetDel(ctx context.Context, key string) (string, bool, error) {
	return p.IStore.GetDel(ctx, p.prefix+key)
}

func (p *prefixed) SetIfAbsentGet(ctx context.Context, key, value string, expire time.Duration, keepTTL bool) (string, bool, error) {
	return p.IStore.SetIfAbsentGet(ctx, p.prefix+key, value, expire, keepTTL)
}

func (p *prefixed) Exists(ctx context.Context, key string) (bool, error) {
	return p.IStore.Exists(ctx, p.prefix+key)
}

func (p *prefixed) TTL(ctx context.Context, key string) (time.Duration, bool, error) {
	return p.IStore.TTL(ctx, p.prefix+key)
}

func (p *prefixed) Scan(ctx context.Context, cursor uint64, match string, count int64) ([]string, uint64, error) {
	keys, next, err := p.IStore.Scan(ctx, cursor, p.prefix+match, count)
	for i, key := range keys {
		keys[i] = strings.TrimPrefix(key, p.prefix)
	}
	return keys, next, err
}

func (p *prefixed) Pipeline() store.Pipeline {
	return &prefixedPipe{Pipeline: p.IStore.Pipeline(), prefix: p.prefix}
}

type prefixedPipe struct {
	store.Pipeline
	prefix string
}

func (pp *prefixedPipe) Set(ctx context.Context, key, value string, expire time.Duration) error {
	return pp.Pipeline.Set(ctx, pp.prefix+key, value, expire)
}

func (pp *prefixedPipe) SetKeepTTL(ctx context.Context, key, value string) error {
	return pp.Pipeline.SetKeepTTL(ctx, pp.prefix+key, value)
}

func (pp *prefixedPipe) Delete(ctx context.Context, keys ...string) (int64, error) {
	out := make([]string, len(keys))
	for i, key := range keys {
		out[i] = pp.prefix + key
	}
	return pp.Pipeline.Delete(ctx, out...)
}

func (p *prefixed) addAll(keys []string) []string {
	out := make([]string, len(keys))
	for i, key := range keys {
		out[i] = p.prefix + key
	}
	return out
}
