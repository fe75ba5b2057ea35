package dict_test

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/Attumm/valkey-dict/lib/codec"
	"github.com/Attumm/valkey-dict/lib/dict"
	"github.com/Attumm/valkey-dict/lib/store/mstore"
)

// newDict builds a container on a fresh in-memory store with an isolated
// registry, so type registrations never leak between tests.
func newDict(t *testing.T, cfg dict.Config) *dict.Dict {
	t.Helper()
	if cfg.Registry == nil {
		cfg.Registry = codec.NewRegistry()
	}
	s := mstore.New()
	t.Cleanup(func() { _ = s.Close() })
	return dict.New(s, cfg)
}

// ---- basic mapping operations --------------------------------------------

func TestSetGet(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	if err := d.Set(ctx, "answer", 42); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, found, err := d.Get(ctx, "answer")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("key not found after Set")
	}
	if value != int64(42) {
		t.Fatalf("got %#v, want int64(42)", value)
	}
}

func TestGetRoundTripsTypes(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"string", "hello", "hello"},
		{"int", 7, int64(7)},
		{"float", 1.25, 1.25},
		{"bool", true, true},
		{"nil", nil, nil},
		{"list", []any{"a", float64(2)}, []any{"a", float64(2)}},
		{"dict", map[string]any{"x": "y"}, map[string]any{"x": "y"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := d.Set(ctx, tc.name, tc.value); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			got, found, err := d.Get(ctx, tc.name)
			if err != nil || !found {
				t.Fatalf("Get = (%v, %v, %v)", got, found, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestGetMissing(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	value, found, err := d.Get(ctx, "absent")
	if err != nil {
		t.Fatalf("Get on a missing key must not error, got %v", err)
	}
	if found || value != nil {
		t.Fatalf("got (%v, %v), want (nil, false)", value, found)
	}

	def, err := d.GetDefault(ctx, "absent", "fallback")
	if err != nil {
		t.Fatalf("GetDefault failed: %v", err)
	}
	if def != "fallback" {
		t.Fatalf("got %v, want the default", def)
	}
}

func TestHas(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	ok, err := d.Has(ctx, "k")
	if err != nil || ok {
		t.Fatalf("Has on a missing key = (%v, %v)", ok, err)
	}
	if err := d.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	ok, err = d.Has(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Has after Set = (%v, %v)", ok, err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	if err := d.Delete(ctx, "never-existed"); err != nil {
		t.Fatalf("idempotent delete of a missing key must succeed, got %v", err)
	}
	if err := d.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := d.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found, _ := d.Get(ctx, "k"); found {
		t.Fatal("key still present after Delete")
	}
}

func TestDeleteStrict(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{StrictDelete: true})

	err := d.Delete(ctx, "never-existed")
	if !dict.IsNotFound(err) {
		t.Fatalf("strict delete of a missing key = %v, want a not-found error", err)
	}

	if err := d.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := d.Delete(ctx, "k"); err != nil {
		t.Fatalf("strict delete of an existing key failed: %v", err)
	}
}

// ---- TTL policy ----------------------------------------------------------

func TestSetDefaultAppliesTTL(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{Expire: 10 * time.Second})

	value, err := d.SetDefault(ctx, "k", "x")
	if err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if value != "x" {
		t.Fatalf("first SetDefault returned %v, want the stored default", value)
	}
	ttl, ok, err := d.TTL(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("TTL = (%v, %v, %v)", ttl, ok, err)
	}
	if ttl <= 9*time.Second || ttl > 10*time.Second {
		t.Fatalf("ttl = %v, want close to 10s", ttl)
	}

	// A later SetDefault must not overwrite, it returns the stored value.
	value, err = d.SetDefault(ctx, "k", "y")
	if err != nil {
		t.Fatalf("second SetDefault failed: %v", err)
	}
	if value != "x" {
		t.Fatalf("second SetDefault returned %v, want the existing value", value)
	}
}

func TestExpireClampedToOneSecond(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{Expire: 100 * time.Millisecond})

	if err := d.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	ttl, ok, err := d.TTL(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("TTL = (%v, %v, %v)", ttl, ok, err)
	}
	if ttl <= 500*time.Millisecond || ttl > time.Second {
		t.Fatalf("ttl = %v, want the sub-second expire clamped up to 1s", ttl)
	}
}

func TestTTLWithoutExpiration(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	if err := d.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok, err := d.TTL(ctx, "k"); err != nil || ok {
		t.Fatalf("TTL on a key without expiration = (ok=%v, err=%v), want ok=false", ok, err)
	}
	if _, ok, err := d.TTL(ctx, "absent"); err != nil || ok {
		t.Fatalf("TTL on a missing key = (ok=%v, err=%v), want ok=false", ok, err)
	}
}

func TestPreserveExpirationKeepsTTL(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{Expire: 10 * time.Second, PreserveExpiration: true})

	if err := d.Set(ctx, "k", "first"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	before, ok, err := d.TTL(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("TTL = (%v, %v, %v)", before, ok, err)
	}

	time.Sleep(50 * time.Millisecond)
	if err := d.Set(ctx, "k", "second"); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}
	after, ok, err := d.TTL(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("TTL after update = (%v, %v, %v)", after, ok, err)
	}
	if after > before {
		t.Fatalf("ttl grew from %v to %v, the update must not reset it", before, after)
	}

	value, found, err := d.Get(ctx, "k")
	if err != nil || !found || value != "second" {
		t.Fatalf("Get after preserved update = (%v, %v, %v)", value, found, err)
	}
}

// ---- pop -----------------------------------------------------------------

func TestPop(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	if err := d.Set(ctx, "k", 5); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, err := d.Pop(ctx, "k")
	if err != nil {
		t.Fatalf("Pop failed: %v", err)
	}
	if value != int64(5) {
		t.Fatalf("Pop returned %#v, want int64(5)", value)
	}
	if _, found, _ := d.Get(ctx, "k"); found {
		t.Fatal("key still present after Pop")
	}

	if _, err := d.Pop(ctx, "k"); !dict.IsNotFound(err) {
		t.Fatalf("Pop on a missing key = %v, want a not-found error", err)
	}
}

func TestPopDefault(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	value, err := d.PopDefault(ctx, "absent", "fallback")
	if err != nil {
		t.Fatalf("PopDefault failed: %v", err)
	}
	if value != "fallback" {
		t.Fatalf("got %v, want the default", value)
	}
}

func TestPopItem(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	if _, _, err := d.PopItem(ctx); !dict.IsNotFound(err) {
		t.Fatalf("PopItem on an empty container = %v, want a not-found error", err)
	}

	want := map[string]any{"a": int64(1), "b": int64(2), "c": int64(3)}
	for key, value := range want {
		if err := d.Set(ctx, key, value); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	got := map[string]any{}
	for range want {
		key, value, err := d.PopItem(ctx)
		if err != nil {
			t.Fatalf("PopItem failed: %v", err)
		}
		got[key] = value
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("popped %#v, want %#v", got, want)
	}
	if _, _, err := d.PopItem(ctx); !dict.IsNotFound(err) {
		t.Fatalf("PopItem after draining = %v, want a not-found error", err)
	}
}

// ---- bulk operations -----------------------------------------------------

func TestLen(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{BatchSize: 2})

	n, err := d.Len(ctx)
	if err != nil || n != 0 {
		t.Fatalf("Len on an empty container = (%d, %v)", n, err)
	}
	for i := 0; i < 5; i++ {
		if err := d.Set(ctx, fmt.Sprintf("k%d", i), i); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	n, err = d.Len(ctx)
	if err != nil || n != 5 {
		t.Fatalf("Len = (%d, %v), want 5", n, err)
	}
}

func TestUpdateAndToMap(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	entries := map[string]any{"a": "x", "b": int64(2), "c": true}
	if err := d.Update(ctx, entries); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err := d.ToMap(ctx)
	if err != nil {
		t.Fatalf("ToMap failed: %v", err)
	}
	if !reflect.DeepEqual(got, entries) {
		t.Fatalf("got %#v, want %#v", got, entries)
	}
}

func TestFromKeys(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	if err := d.FromKeys(ctx, []string{"a", "b", "c"}, int64(0)); err != nil {
		t.Fatalf("FromKeys failed: %v", err)
	}
	got, err := d.ToMap(ctx)
	if err != nil {
		t.Fatalf("ToMap failed: %v", err)
	}
	want := map[string]any{"a": int64(0), "b": int64(0), "c": int64(0)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestValues(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	if err := d.Update(ctx, map[string]any{"a": int64(1), "b": int64(2)}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	values, err := d.Values(ctx)
	if err != nil {
		t.Fatalf("Values failed: %v", err)
	}
	ints := make([]int, 0, len(values))
	for _, v := range values {
		ints = append(ints, int(v.(int64)))
	}
	sort.Ints(ints)
	if !reflect.DeepEqual(ints, []int{1, 2}) {
		t.Fatalf("got %v, want [1 2]", ints)
	}
}

func TestItems(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	want := map[string]any{"a": int64(1), "b": "x"}
	if err := d.Update(ctx, want); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	items, err := d.Items(ctx)
	if err != nil {
		t.Fatalf("Items failed: %v", err)
	}
	got := map[string]any{}
	for _, item := range items {
		got[item.Key] = item.Value
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestEqual(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	if err := d.Update(ctx, map[string]any{"a": int64(1), "b": "x"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	tests := []struct {
		name  string
		other map[string]any
		want  bool
	}{
		{"equal", map[string]any{"a": int64(1), "b": "x"}, true},
		{"different value", map[string]any{"a": int64(1), "b": "y"}, false},
		{"missing key", map[string]any{"a": int64(1)}, false},
		{"extra key", map[string]any{"a": int64(1), "b": "x", "c": true}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			equal, err := d.Equal(ctx, tc.other)
			if err != nil {
				t.Fatalf("Equal failed: %v", err)
			}
			if equal != tc.want {
				t.Fatalf("Equal = %v, want %v", equal, tc.want)
			}
		})
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{BatchSize: 2})

	for i := 0; i < 7; i++ {
		if err := d.Set(ctx, fmt.Sprintf("k%d", i), i); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	if err := d.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	n, err := d.Len(ctx)
	if err != nil || n != 0 {
		t.Fatalf("Len after Clear = (%d, %v), want 0", n, err)
	}
}

// ---- enumeration ---------------------------------------------------------

func TestKeysIterator(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{BatchSize: 2})

	want := []string{"a", "b", "c", "d", "e"}
	for _, key := range want {
		if err := d.Set(ctx, key, key); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	var got []string
	it := d.Keys(ctx)
	for it.Next() {
		got = append(got, it.Key())
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iteration failed: %v", err)
	}
	sort.Strings(got)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestKeysWithPrefix(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	for _, key := range []string{"user:1", "user:2", "session:1"} {
		if err := d.Set(ctx, key, "v"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	var got []string
	it := d.KeysWithPrefix(ctx, "user:")
	for it.Next() {
		got = append(got, it.Key())
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iteration failed: %v", err)
	}
	sort.Strings(got)
	if !reflect.DeepEqual(got, []string{"user:1", "user:2"}) {
		t.Fatalf("got %v, want the user keys only", got)
	}
}

func TestKey(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	if _, found, err := d.Key(ctx, ""); err != nil || found {
		t.Fatalf("Key on an empty container = (found=%v, err=%v)", found, err)
	}
	if err := d.Set(ctx, "target", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	key, found, err := d.Key(ctx, "tar")
	if err != nil || !found || key != "target" {
		t.Fatalf("Key = (%q, %v, %v), want (target, true, nil)", key, found, err)
	}
}

// ---- namespaces ----------------------------------------------------------

func TestNamespaceIsolation(t *testing.T) {
	ctx := context.Background()
	s := mstore.New()
	t.Cleanup(func() { _ = s.Close() })

	registry := codec.NewRegistry()
	left := dict.New(s, dict.Config{Namespace: "left", Registry: registry})
	right := dict.New(s, dict.Config{Namespace: "right", Registry: registry})

	if err := left.Set(ctx, "k", "from-left"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, found, _ := right.Get(ctx, "k"); found {
		t.Fatal("key leaked across namespaces")
	}
	n, err := right.Len(ctx)
	if err != nil || n != 0 {
		t.Fatalf("Len of the untouched namespace = (%d, %v), want 0", n, err)
	}
}

// ---- validation ----------------------------------------------------------

func TestMaxStringSize(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{MaxStringSize: 8})

	atLimit := strings.Repeat("x", 8)
	over := strings.Repeat("x", 9)

	if err := d.Set(ctx, atLimit, "v"); err != nil {
		t.Fatalf("key at the limit must pass, got %v", err)
	}
	if err := d.Set(ctx, over, "v"); !dict.IsValidation(err) {
		t.Fatalf("key over the limit = %v, want a validation error", err)
	}
	if err := d.Set(ctx, "k", atLimit); err != nil {
		t.Fatalf("value at the limit must pass, got %v", err)
	}
	if err := d.Set(ctx, "k", over); !dict.IsValidation(err) {
		t.Fatalf("value over the limit = %v, want a validation error", err)
	}
	if _, err := d.SetDefault(ctx, "k2", over); !dict.IsValidation(err) {
		t.Fatalf("SetDefault with an oversized value = %v, want a validation error", err)
	}

	// Only strings are size-checked.
	if err := d.Set(ctx, "n", int64(1234567890)); err != nil {
		t.Fatalf("non-string value must pass unchecked, got %v", err)
	}
}

// ---- type extension ------------------------------------------------------

type coordinate struct {
	Lat, Lon float64
}

func (c coordinate) Encode() (string, error) {
	return fmt.Sprintf("%g,%g", c.Lat, c.Lon), nil
}

func (coordinate) Decode(payload string) (coordinate, error) {
	var c coordinate
	_, err := fmt.Sscanf(payload, "%g,%g", &c.Lat, &c.Lon)
	return c, err
}

func TestExtendTypeRoundTrip(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	if err := d.ExtendType(coordinate{}, nil, nil); err != nil {
		t.Fatalf("ExtendType failed: %v", err)
	}
	want := coordinate{Lat: 52.37, Lon: 4.9}
	if err := d.Set(ctx, "home", want); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, found, err := d.Get(ctx, "home")
	if err != nil || !found {
		t.Fatalf("Get = (%v, %v, %v)", got, found, err)
	}
	if got != want {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

type fingerprint struct{ sum string }

func (f fingerprint) Encode() (string, error) { return f.sum, nil }

func TestExtendTypePartialRegistration(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	err := d.ExtendType(fingerprint{}, nil, nil)
	if !dict.IsMissingCapability(err) {
		t.Fatalf("got %v, want a missing-capability error", err)
	}

	// The encoder half survived, so writes work and reads degrade to the
	// raw payload instead of failing.
	if err := d.Set(ctx, "fp", fingerprint{sum: "abc123"}); err != nil {
		t.Fatalf("Set after partial registration failed: %v", err)
	}
	got, found, err := d.Get(ctx, "fp")
	if err != nil || !found {
		t.Fatalf("Get = (%v, %v, %v)", got, found, err)
	}
	if got != "abc123" {
		t.Fatalf("got %#v, want the raw payload string", got)
	}
}
