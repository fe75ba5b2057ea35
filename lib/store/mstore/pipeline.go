package mstore

import (
	"context"
	"errors"
	"time"
)

// pipeline queues write commands as closures and applies them on Exec.
// Nothing is visible to readers until the flush.
type pipeline struct {
	store *storeImpl
	ops   []func(ctx context.Context) error
}

func (p *pipeline) Set(_ context.Context, key, value string, expire time.Duration) error {
	p.ops = append(p.ops, func(ctx context.Context) error {
		return p.store.Set(ctx, key, value, expire)
	})
	return nil
}

func (p *pipeline) SetKeepTTL(_ context.Context, key, value string) error {
	p.ops = append(p.ops, func(ctx context.Context) error {
		return p.store.SetKeepTTL(ctx, key, value)
	})
	return nil
}

func (p *pipeline) Delete(_ context.Context, keys ...string) (int64, error) {
	p.ops = append(p.ops, func(ctx context.Context) error {
		_, err := p.store.Delete(ctx, keys...)
		return err
	})
	return 0, nil
}

// Exec applies every queued command in order. A failing command does not stop
// the ones queued after it; all errors are joined.
func (p *pipeline) Exec(ctx context.Context) error {
	ops := p.ops
	p.ops = nil

	var errs []error
	for _, op := range ops {
		if err := op(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
