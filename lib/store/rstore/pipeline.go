package rstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Attumm/valkey-dict/lib/store"
)

// pipeline wraps a go-redis Pipeliner. Commands are buffered client-side and
// sent as one round trip on Exec.
type pipeline struct {
	pipe redis.Pipeliner
}

func (p *pipeline) Set(ctx context.Context, key, value string, expire time.Duration) error {
	p.pipe.Set(ctx, key, value, expire)
	return nil
}

func (p *pipeline) SetKeepTTL(ctx context.Context, key, value string) error {
	p.pipe.Set(ctx, key, value, redis.KeepTTL)
	return nil
}

func (p *pipeline) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) > 0 {
		p.pipe.Del(ctx, keys...)
	}
	return 0, nil
}

func (p *pipeline) Exec(ctx context.Context) error {
	_, err := p.pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("pipeline exec failed: %v", err))
	}
	return nil
}
