package dict

import (
	"context"
	"time"

	"github.com/Attumm/valkey-dict/lib/store"
)

// Pipeline runs fn inside a batching scope: every write issued through the
// container while the scope is active is queued and sent as a single round
// trip when the outermost scope exits. Scopes nest; only the exit of the
// outermost one flushes.
//
// Two contracts callers must know:
//
//   - Reads do not see queued writes. Batched commands are held client-side
//     until the flush, so a Get inside the scope returns the pre-scope state.
//
//   - The flush is unconditional. When fn returns an error, the commands
//     queued before the failure are still sent; batching exists for network
//     efficiency, not for transactional rollback. fn's error takes
//     precedence over a flush error in the return value.
//
// Pipeline scopes mutate the container's write sink and must not run
// concurrently with other operations on the same Dict.
func (d *Dict) Pipeline(ctx context.Context, fn func() error) (err error) {
	if !d.store.SupportsFeature(store.FeaturePipeline) {
		// No batching support: run the scope against the live store.
		return fn()
	}

	top := d.depth == 0
	if top {
		d.pipe = d.store.Pipeline()
		d.writer = d.pipe
	}
	d.depth++

	defer func() {
		d.depth--
		if !top {
			return
		}
		flushErr := d.pipe.Exec(ctx)
		d.pipe = nil
		d.writer = d.store
		if err == nil {
			err = flushErr
		}
	}()

	return fn()
}

// ExpireScope runs fn with the container's expiration temporarily replaced
// by expire. The previous value is restored when fn returns, also on error.
func (d *Dict) ExpireScope(expire time.Duration, fn func() error) error {
	prev := d.expire
	d.expire = expire
	defer func() { d.expire = prev }()
	return fn()
}
