package dict

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/Attumm/valkey-dict/lib/codec"
	"github.com/Attumm/valkey-dict/lib/store"
)

// Dict is a mutable, typed, dictionary-like container whose entries live in a
// remote key-value store under a shared namespace prefix.
//
// Reads always go to the live store; writes go through the active sink, which
// a pipeline scope temporarily replaces with a batching pipeline. See
// Pipeline for the batching contract.
type Dict struct {
	store  store.IStore // live connection, reads always go here
	writer store.Writer // active write sink, the pipeline while batching
	pipe   store.Pipeline
	depth  int // pipeline nesting depth

	registry           *codec.Registry
	namespace          string
	expire             time.Duration
	preserveExpiration bool
	strictDelete       bool
	batchSize          int64
	maxStringSize      int
	encodeMethod       string
	decodeMethod       string
}

// New creates a Dict on top of the given store. Zero fields of the config
// take their documented defaults. The Dict does not own the store; closing it
// is the caller's responsibility.
func New(s store.IStore, cfg Config) *Dict {
	cfg = cfg.withDefaults()
	return &Dict{
		store:              s,
		writer:             s,
		registry:           cfg.Registry,
		namespace:          cfg.Namespace,
		expire:             cfg.Expire,
		preserveExpiration: cfg.PreserveExpiration,
		strictDelete:       cfg.StrictDelete,
		batchSize:          cfg.BatchSize,
		maxStringSize:      cfg.MaxStringSize,
		encodeMethod:       cfg.EncodeMethod,
		decodeMethod:       cfg.DecodeMethod,
	}
}

// Namespace returns the container's namespace.
func (d *Dict) Namespace() string {
	return d.namespace
}

// ExtendType registers the type of prototype with the container's codec
// registry. Either function may be nil, in which case it is derived from the
// type's methods using the configured method names. The encoder and decoder
// registrations are independent; see codec.Registry.Extend for the partial
// registration contract.
func (d *Dict) ExtendType(prototype any, enc codec.EncodeFunc, dec codec.DecodeFunc) error {
	return d.registry.ExtendNamed(prototype, enc, dec, d.encodeMethod, d.decodeMethod)
}

// --------------------------------------------------------------------------
// Encoding Helpers
// --------------------------------------------------------------------------

// clampExpire snaps positive sub-second TTLs to one second, the granularity
// of the store's EX option. Zero means no expiration and passes through.
func clampExpire(expire time.Duration) time.Duration {
	if expire > 0 && expire < time.Second {
		return time.Second
	}
	return expire
}

// validateKey checks the key's byte length against the configured ceiling.
func (d *Dict) validateKey(key string) error {
	if len(key) > d.maxStringSize {
		return NewError(RetCValidation, fmt.Sprintf("key size %d exceeds the maximum limit", len(key)))
	}
	return nil
}

// validateValue checks string values against the configured ceiling. Other
// value types pass unchecked.
func (d *Dict) validateValue(value any) error {
	if s, ok := value.(string); ok && len(s) > d.maxStringSize {
		return NewError(RetCValidation, fmt.Sprintf("value size %d exceeds the maximum limit", len(s)))
	}
	return nil
}

func (d *Dict) formatKey(key string) string {
	return codec.FormatKey(d.namespace, key)
}

func (d *Dict) parseKey(formattedKey string) string {
	return codec.ParseKey(d.namespace, formattedKey)
}

// storeSet validates, encodes and writes one entry, honoring the TTL policy:
// with PreserveExpiration an existing key keeps its TTL, every other write
// applies the configured expiration. The existence probe reads the live
// store, never the pipeline.
func (d *Dict) storeSet(ctx context.Context, key string, value any) error {
	if err := d.validateKey(key); err != nil {
		return err
	}
	if err := d.validateValue(value); err != nil {
		return err
	}

	formattedKey := d.formatKey(key)
	envelope, err := d.registry.Encode(value)
	if err != nil {
		return err
	}

	if d.preserveExpiration {
		exists, err := d.store.Exists(ctx, formattedKey)
		if err != nil {
			return err
		}
		if exists {
			return d.writer.SetKeepTTL(ctx, formattedKey, envelope)
		}
	}
	return d.writer.Set(ctx, formattedKey, envelope, clampExpire(d.expire))
}

// load reads and decodes one entry. Absence is not an error.
func (d *Dict) load(ctx context.Context, key string) (any, bool, error) {
	envelope, found, err := d.store.Get(ctx, d.formatKey(key))
	if err != nil || !found {
		return nil, false, err
	}
	value, err := d.registry.Decode(envelope)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// --------------------------------------------------------------------------
// Mapping Operations
// --------------------------------------------------------------------------

// Set stores value under key, applying the container's TTL policy.
func (d *Dict) Set(ctx context.Context, key string, value any) error {
	return d.storeSet(ctx, key, value)
}

// Get returns the value for key. found reports whether the key exists;
// absence is never an error.
func (d *Dict) Get(ctx context.Context, key string) (value any, found bool, err error) {
	return d.load(ctx, key)
}

// GetDefault returns the value for key, or def if the key is absent.
func (d *Dict) GetDefault(ctx context.Context, key string, def any) (any, error) {
	value, found, err := d.load(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return def, nil
	}
	return value, nil
}

// Has reports whether key exists in the container.
func (d *Dict) Has(ctx context.Context, key string) (bool, error) {
	return d.store.Exists(ctx, d.formatKey(key))
}

// Delete removes key. Deleting an absent key is a no-op unless StrictDelete
// is configured, in which case it fails with a not-found error. Inside a
// pipeline scope the delete is queued and the strict check is skipped, the
// store reports no counts for queued commands.
func (d *Dict) Delete(ctx context.Context, key string) error {
	n, err := d.writer.Delete(ctx, d.formatKey(key))
	if err != nil {
		return err
	}
	if d.strictDelete && d.depth == 0 && n == 0 {
		return NewError(RetCNotFound, key)
	}
	return nil
}

// Len returns the number of keys in the container. The count comes from a
// full, uncapped scan of the namespace: O(n) and never cached.
func (d *Dict) Len(ctx context.Context) (int, error) {
	total := 0
	err := d.scanPages(ctx, "", 0, func(keys []string) error {
		total += len(keys)
		return nil
	})
	return total, err
}

// Key returns the first key found for the given search prefix. found is
// false when the namespace holds no matching key.
func (d *Dict) Key(ctx context.Context, searchTerm string) (key string, found bool, err error) {
	if err := d.requireScan(); err != nil {
		return "", false, err
	}
	pattern := codec.IterQuery(d.namespace, searchTerm)

	var cursor uint64
	for {
		keys, next, err := d.store.Scan(ctx, cursor, pattern, 1)
		if err != nil {
			return "", false, err
		}
		if len(keys) > 0 {
			return d.parseKey(keys[0]), true, nil
		}
		if next == 0 {
			return "", false, nil
		}
		cursor = next
	}
}

// Values returns every value in the container. Keys that vanish between
// enumeration and fetch are skipped.
func (d *Dict) Values(ctx context.Context) ([]any, error) {
	var values []any
	it := d.Keys(ctx)
	for it.Next() {
		value, found, err := d.load(ctx, it.Key())
		if err != nil {
			return nil, err
		}
		if found {
			values = append(values, value)
		}
	}
	return values, it.Err()
}

// Item is a single entry of the container.
type Item struct {
	Key   string
	Value any
}

// Items returns every entry in the container. Keys that vanish between
// enumeration and fetch are skipped.
func (d *Dict) Items(ctx context.Context) ([]Item, error) {
	var items []Item
	it := d.Keys(ctx)
	for it.Next() {
		value, found, err := d.load(ctx, it.Key())
		if err != nil {
			return nil, err
		}
		if found {
			items = append(items, Item{Key: it.Key(), Value: value})
		}
	}
	return items, it.Err()
}

// ToMap materializes the container as a plain map. Keys that vanish between
// enumeration and fetch are skipped.
func (d *Dict) ToMap(ctx context.Context) (map[string]any, error) {
	result := map[string]any{}
	it := d.Keys(ctx)
	for it.Next() {
		value, found, err := d.load(ctx, it.Key())
		if err != nil {
			return nil, err
		}
		if found {
			result[it.Key()] = value
		}
	}
	return result, it.Err()
}

// Equal reports whether the container holds exactly the entries of other.
func (d *Dict) Equal(ctx context.Context, other map[string]any) (bool, error) {
	snapshot, err := d.ToMap(ctx)
	if err != nil {
		return false, err
	}
	if len(snapshot) != len(other) {
		return false, nil
	}
	for key, value := range snapshot {
		otherValue, ok := other[key]
		if !ok || !reflect.DeepEqual(value, otherValue) {
			return false, nil
		}
	}
	return true, nil
}

// Clear removes every key in the namespace. The deletes are pipelined into a
// single round trip.
func (d *Dict) Clear(ctx context.Context) error {
	return d.Pipeline(ctx, func() error {
		return d.scanPages(ctx, "", 0, func(keys []string) error {
			_, err := d.writer.Delete(ctx, keys...)
			return err
		})
	})
}

// Pop atomically removes key and returns its value. A missing key yields a
// not-found error; use PopDefault for a fallback value.
func (d *Dict) Pop(ctx context.Context, key string) (any, error) {
	envelope, found, err := d.store.GetDel(ctx, d.formatKey(key))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, NewError(RetCNotFound, key)
	}
	return d.registry.Decode(envelope)
}

// PopDefault atomically removes key and returns its value, or def if the key
// is absent.
func (d *Dict) PopDefault(ctx context.Context, key string, def any) (any, error) {
	value, err := d.Pop(ctx, key)
	if IsNotFound(err) {
		return def, nil
	}
	return value, err
}

// PopItem removes and returns an arbitrary entry. When the selected key
// vanishes before it can be taken — another client won the race — a new key
// is selected; the empty error is only returned when selection itself finds
// no key.
func (d *Dict) PopItem(ctx context.Context) (string, any, error) {
	for {
		key, found, err := d.Key(ctx, "")
		if err != nil {
			return "", nil, err
		}
		if !found {
			return "", nil, NewError(RetCNotFound, "popitem: dictionary is empty")
		}
		value, err := d.Pop(ctx, key)
		if IsNotFound(err) {
			continue
		}
		if err != nil {
			return "", nil, err
		}
		return key, value, nil
	}
}

// SetDefault returns the value for key, storing def first if the key is
// absent. The read and the conditional write are a single atomic command, so
// concurrent callers converge on one stored value and one TTL: the losing
// caller receives the winner's value, never its own default.
func (d *Dict) SetDefault(ctx context.Context, key string, def any) (any, error) {
	if err := d.validateKey(key); err != nil {
		return nil, err
	}
	if err := d.validateValue(def); err != nil {
		return nil, err
	}

	envelope, err := d.registry.Encode(def)
	if err != nil {
		return nil, err
	}
	prev, existed, err := d.store.SetIfAbsentGet(
		ctx, d.formatKey(key), envelope, clampExpire(d.expire), d.preserveExpiration)
	if err != nil {
		return nil, err
	}
	if !existed {
		return def, nil
	}
	return d.registry.Decode(prev)
}

// Update stores every entry of m, batched into one round trip.
func (d *Dict) Update(ctx context.Context, m map[string]any) error {
	return d.Pipeline(ctx, func() error {
		for key, value := range m {
			if err := d.storeSet(ctx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// FromKeys stores value under every key of the iterable.
func (d *Dict) FromKeys(ctx context.Context, keys []string, value any) error {
	return d.Pipeline(ctx, func() error {
		for _, key := range keys {
			if err := d.storeSet(ctx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// TTL returns the remaining time to live of key. ok is false when the key
// does not exist or carries no expiration.
func (d *Dict) TTL(ctx context.Context, key string) (ttl time.Duration, ok bool, err error) {
	return d.store.TTL(ctx, d.formatKey(key))
}

// --------------------------------------------------------------------------
// Scan Plumbing
// --------------------------------------------------------------------------

// requireScan verifies the store supports key scanning.
func (d *Dict) requireScan() error {
	if !d.store.SupportsFeature(store.FeatureScan) {
		return NewError(RetCUnsupported, "store does not support key scanning")
	}
	return nil
}

// scanPages drives the scan cursor for a search term and hands every page of
// formatted keys to fn. A count of zero scans without a batching hint, used
// by operations that must visit every key.
func (d *Dict) scanPages(ctx context.Context, searchTerm string, count int64, fn func(keys []string) error) error {
	if err := d.requireScan(); err != nil {
		return err
	}
	pattern := codec.IterQuery(d.namespace, searchTerm)

	var cursor uint64
	for {
		keys, next, err := d.store.Scan(ctx, cursor, pattern, count)
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
