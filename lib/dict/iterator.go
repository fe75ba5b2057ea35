package dict

import (
	"context"

	"github.com/Attumm/valkey-dict/lib/codec"
)

// Iterator lazily enumerates the container's keys, fetching one scan page at
// a time. The usual loop:
//
//	it := d.Keys(ctx)
//	for it.Next() {
//		_ = it.Key()
//	}
//	if err := it.Err(); err != nil { ... }
//
// Enumeration offers the store's own scan guarantees, nothing stronger: keys
// written or removed while the iteration is in flight may or may not be
// observed.
type Iterator struct {
	ctx     context.Context
	d       *Dict
	pattern string
	count   int64

	cursor  uint64
	started bool
	buf     []string
	idx     int
	current string
	err     error
	done    bool
}

// Keys returns an iterator over every key in the container. The configured
// batch size serves as the scan's round-trip hint.
func (d *Dict) Keys(ctx context.Context) *Iterator {
	return d.newIterator(ctx, "", d.batchSize)
}

// KeysWithPrefix returns an iterator over the keys starting with searchTerm.
// Glob metacharacters in searchTerm pass through to the store's matcher
// uninterpreted; use codec.EscapeMatch for literal terms.
func (d *Dict) KeysWithPrefix(ctx context.Context, searchTerm string) *Iterator {
	return d.newIterator(ctx, searchTerm, d.batchSize)
}

func (d *Dict) newIterator(ctx context.Context, searchTerm string, count int64) *Iterator {
	it := &Iterator{
		ctx:     ctx,
		d:       d,
		pattern: codec.IterQuery(d.namespace, searchTerm),
		count:   count,
	}
	if err := d.requireScan(); err != nil {
		it.err = err
		it.done = true
	}
	return it
}

// Next advances the iterator. It returns false when the keys are exhausted
// or an error occurred; check Err after the loop.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	for {
		if it.idx < len(it.buf) {
			it.current = it.d.parseKey(it.buf[it.idx])
			it.idx++
			return true
		}
		if it.started && it.cursor == 0 {
			it.done = true
			return false
		}
		keys, next, err := it.d.store.Scan(it.ctx, it.cursor, it.pattern, it.count)
		if err != nil {
			it.err = err
			it.done = true
			return false
		}
		it.started = true
		it.cursor = next
		it.buf = keys
		it.idx = 0
	}
}

// Key returns the key at the iterator's current position, without the
// namespace prefix.
func (it *Iterator) Key() string {
	return it.current
}

// Err returns the first error encountered during iteration, if any.
func (it *Iterator) Err() error {
	return it.err
}
