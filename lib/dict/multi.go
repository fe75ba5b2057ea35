package dict

import (
	"context"
	"fmt"
	"strings"
)

// Chain keys join their parts with the namespace separator, so a chain
// ["users", "42"] addresses the key "users:42".

// ChainSet stores value under the key formed by joining the chain.
func (d *Dict) ChainSet(ctx context.Context, chain []string, value any) error {
	return d.Set(ctx, strings.Join(chain, ":"), value)
}

// ChainGet returns the value under the joined chain key. Unlike Get, a
// missing key is reported as a not-found error.
func (d *Dict) ChainGet(ctx context.Context, chain []string) (any, error) {
	key := strings.Join(chain, ":")
	value, found, err := d.load(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, NewError(RetCNotFound, key)
	}
	return value, nil
}

// ChainDel removes the key formed by joining the chain, with Delete's
// strictness semantics.
func (d *Dict) ChainDel(ctx context.Context, chain []string) error {
	return d.Delete(ctx, strings.Join(chain, ":"))
}

// --------------------------------------------------------------------------
// Prefix-Keyed Batch Operations
// --------------------------------------------------------------------------

// multiKeys collects the formatted keys under the given prefix.
func (d *Dict) multiKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := d.scanPages(ctx, prefix, d.batchSize, func(page []string) error {
		keys = append(keys, page...)
		return nil
	})
	return keys, err
}

// MultiGet returns the values of every key sharing the prefix. An empty
// result is an empty slice, never an error.
func (d *Dict) MultiGet(ctx context.Context, prefix string) ([]any, error) {
	keys, err := d.multiKeys(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []any{}, nil
	}

	envelopes, err := d.store.MGet(ctx, keys...)
	if err != nil {
		return nil, err
	}
	values := make([]any, 0, len(envelopes))
	for _, envelope := range envelopes {
		if envelope == nil {
			continue
		}
		value, err := d.registry.Decode(*envelope)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

// MultiChainGet returns the values of every key sharing the joined chain
// prefix.
func (d *Dict) MultiChainGet(ctx context.Context, chain []string) ([]any, error) {
	return d.MultiGet(ctx, strings.Join(chain, ":"))
}

// MultiDict returns the entries of every key sharing the prefix, keyed by
// the part following the prefix (a joining colon is dropped, so the prefix
// "users" maps "users:42" to "42").
func (d *Dict) MultiDict(ctx context.Context, prefix string) (map[string]any, error) {
	keys, err := d.multiKeys(ctx, prefix)
	if err != nil {
		return nil, err
	}
	result := map[string]any{}
	if len(keys) == 0 {
		return result, nil
	}

	envelopes, err := d.store.MGet(ctx, keys...)
	if err != nil {
		return nil, err
	}
	trim := len(d.namespace) + 1 + len(prefix)
	for i, envelope := range envelopes {
		if envelope == nil {
			continue
		}
		value, err := d.registry.Decode(*envelope)
		if err != nil {
			return nil, err
		}
		result[strings.TrimPrefix(keys[i][trim:], ":")] = value
	}
	return result, nil
}

// MultiDel removes every key sharing the prefix and returns how many
// existed. An empty match is zero, never an error.
func (d *Dict) MultiDel(ctx context.Context, prefix string) (int64, error) {
	keys, err := d.multiKeys(ctx, prefix)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	return d.writer.Delete(ctx, keys...)
}

// --------------------------------------------------------------------------
// Merge Operations
// --------------------------------------------------------------------------

// asMapping coerces a merge operand into a map. Accepted operands are
// map[string]any and *Dict; anything else is a type mismatch.
func asMapping(ctx context.Context, operand any) (map[string]any, error) {
	switch other := operand.(type) {
	case map[string]any:
		return other, nil
	case *Dict:
		return other.ToMap(ctx)
	default:
		return nil, NewError(RetCTypeMismatch,
			fmt.Sprintf("unsupported operand type for merge: %T", operand))
	}
}

// Union returns a new map holding the container's entries merged with the
// operand's; the operand wins on shared keys. The operand must be a
// map[string]any or another *Dict.
func (d *Dict) Union(ctx context.Context, operand any) (map[string]any, error) {
	other, err := asMapping(ctx, operand)
	if err != nil {
		return nil, err
	}
	result, err := d.ToMap(ctx)
	if err != nil {
		return nil, err
	}
	for key, value := range other {
		result[key] = value
	}
	return result, nil
}

// UnionUpdate merges the operand's entries into the container, batched into
// one round trip. The operand must be a map[string]any or another *Dict.
func (d *Dict) UnionUpdate(ctx context.Context, operand any) error {
	other, err := asMapping(ctx, operand)
	if err != nil {
		return err
	}
	return d.Update(ctx, other)
}
