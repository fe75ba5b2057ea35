package testing

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/Attumm/valkey-dict/lib/store"
)

// StoreFactory is a function that creates a new, empty instance of an IStore
// implementation.
type StoreFactory func() store.IStore

// RunStoreTests runs a conformance test suite for an IStore implementation.
func RunStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("Expiration", func(t *testing.T) {
			testExpiration(t, factory())
		})

		t.Run("SetKeepTTL", func(t *testing.T) {
			testSetKeepTTL(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("GetDel", func(t *testing.T) {
			testGetDel(t, factory())
		})

		t.Run("SetIfAbsentGet", func(t *testing.T) {
			testSetIfAbsentGet(t, factory())
		})

		t.Run("MGet", func(t *testing.T) {
			testMGet(t, factory())
		})

		t.Run("Scan", func(t *testing.T) {
			testScan(t, factory())
		})

		t.Run("Pipeline", func(t *testing.T) {
			testPipeline(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the store supports the specified feature.
// Skip the test if it is not supported.
func requireFeature(t testing.TB, s store.IStore, feature store.Feature) {
	if !s.SupportsFeature(feature) {
		t.Skip()
	}
}

func mustSet(t testing.TB, s store.IStore, key, value string) {
	t.Helper()
	if err := s.Set(context.Background(), key, value, 0); err != nil {
		t.Fatalf("Set(%q) failed: %v", key, err)
	}
}

// scanAll drains the scan cursor for a pattern.
func scanAll(t testing.TB, s store.IStore, match string, count int64) []string {
	t.Helper()
	ctx := context.Background()

	var all []string
	var cursor uint64
	for {
		keys, next, err := s.Scan(ctx, cursor, match, count)
		if err != nil {
			t.Fatalf("Scan(%q) failed: %v", match, err)
		}
		all = append(all, keys...)
		if next == 0 {
			return all
		}
		cursor = next
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, s store.IStore) {
	defer s.Close()
	ctx := context.Background()

	mustSet(t, s, "test-key", "value-1")

	v, found, err := s.Get(ctx, "test-key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Errorf("Expected key to exist after Set")
	}
	if v != "value-1" {
		t.Errorf("Expected value-1, got %q", v)
	}

	mustSet(t, s, "test-key", "value-2")
	v, _, _ = s.Get(ctx, "test-key")
	if v != "value-2" {
		t.Errorf("Expected overwrite to value-2, got %q", v)
	}

	_, found, err = s.Get(ctx, "nonexistent-key")
	if err != nil {
		t.Fatalf("Get of missing key must not error, got %v", err)
	}
	if found {
		t.Errorf("Expected nonexistent key to return found=false")
	}

	exists, err := s.Exists(ctx, "test-key")
	if err != nil || !exists {
		t.Errorf("Expected Exists=true, got %v, %v", exists, err)
	}
	exists, _ = s.Exists(ctx, "nonexistent-key")
	if exists {
		t.Errorf("Expected Exists=false for missing key")
	}
}

func testExpiration(t *testing.T, s store.IStore) {
	defer s.Close()
	ctx := context.Background()

	if err := s.Set(ctx, "expiring", "v", 100*time.Millisecond); err != nil {
		t.Fatalf("Set with expire failed: %v", err)
	}

	ttl, ok, err := s.TTL(ctx, "expiring")
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	if !ok || ttl <= 0 {
		t.Errorf("Expected positive TTL, got ok=%v ttl=%v", ok, ttl)
	}

	_, ok, _ = s.TTL(ctx, "nonexistent-key")
	if ok {
		t.Errorf("Expected TTL ok=false for missing key")
	}

	mustSet(t, s, "persistent", "v")
	_, ok, _ = s.TTL(ctx, "persistent")
	if ok {
		t.Errorf("Expected TTL ok=false for key without expiration")
	}

	time.Sleep(150 * time.Millisecond)
	_, found, _ := s.Get(ctx, "expiring")
	if found {
		t.Errorf("Expected key to be gone after its TTL elapsed")
	}
}

func testSetKeepTTL(t *testing.T, s store.IStore) {
	defer s.Close()
	ctx := context.Background()

	if err := s.Set(ctx, "k", "v1", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.SetKeepTTL(ctx, "k", "v2"); err != nil {
		t.Fatalf("SetKeepTTL failed: %v", err)
	}

	v, _, _ := s.Get(ctx, "k")
	if v != "v2" {
		t.Errorf("Expected updated value v2, got %q", v)
	}
	ttl, ok, _ := s.TTL(ctx, "k")
	if !ok || ttl <= 0 {
		t.Errorf("Expected TTL to survive the update, got ok=%v ttl=%v", ok, ttl)
	}

	// A plain Set without expire must clear the TTL.
	mustSet(t, s, "k", "v3")
	_, ok, _ = s.TTL(ctx, "k")
	if ok {
		t.Errorf("Expected TTL cleared by plain Set")
	}

	// KEEPTTL on an absent key stores without expiration.
	if err := s.SetKeepTTL(ctx, "fresh", "v"); err != nil {
		t.Fatalf("SetKeepTTL on absent key failed: %v", err)
	}
	_, ok, _ = s.TTL(ctx, "fresh")
	if ok {
		t.Errorf("Expected no TTL on freshly created key")
	}
}

func testDelete(t *testing.T, s store.IStore) {
	defer s.Close()
	ctx := context.Background()

	mustSet(t, s, "a", "1")
	mustSet(t, s, "b", "2")

	n, err := s.Delete(ctx, "a", "b", "missing")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 deleted keys, got %d", n)
	}

	n, err = s.Delete(ctx, "a")
	if err != nil {
		t.Fatalf("Second delete must not error: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected 0 deleted keys on repeat delete, got %d", n)
	}
}

func testGetDel(t *testing.T, s store.IStore) {
	defer s.Close()
	requireFeature(t, s, store.FeatureGetDel)
	ctx := context.Background()

	mustSet(t, s, "take", "payload")

	v, found, err := s.GetDel(ctx, "take")
	if err != nil {
		t.Fatalf("GetDel failed: %v", err)
	}
	if !found || v != "payload" {
		t.Errorf("Expected (payload, true), got (%q, %v)", v, found)
	}

	_, found, err = s.GetDel(ctx, "take")
	if err != nil {
		t.Fatalf("GetDel of missing key must not error: %v", err)
	}
	if found {
		t.Errorf("Expected found=false after the key was taken")
	}
}

func testSetIfAbsentGet(t *testing.T, s store.IStore) {
	defer s.Close()
	requireFeature(t, s, store.FeatureConditionalSet)
	ctx := context.Background()

	prev, existed, err := s.SetIfAbsentGet(ctx, "cond", "first", time.Minute, false)
	if err != nil {
		t.Fatalf("SetIfAbsentGet failed: %v", err)
	}
	if existed || prev != "" {
		t.Errorf("Expected write to win on absent key, got existed=%v prev=%q", existed, prev)
	}

	ttl, ok, _ := s.TTL(ctx, "cond")
	if !ok || ttl <= 0 {
		t.Errorf("Expected TTL applied by winning write, got ok=%v ttl=%v", ok, ttl)
	}

	// The losing write must not change the value or the TTL.
	prev, existed, err = s.SetIfAbsentGet(ctx, "cond", "second", 0, false)
	if err != nil {
		t.Fatalf("SetIfAbsentGet failed: %v", err)
	}
	if !existed || prev != "first" {
		t.Errorf("Expected loser to observe (first, true), got (%q, %v)", prev, existed)
	}

	v, _, _ := s.Get(ctx, "cond")
	if v != "first" {
		t.Errorf("Expected stored value to stay first, got %q", v)
	}
	_, ok, _ = s.TTL(ctx, "cond")
	if !ok {
		t.Errorf("Expected winner's TTL to survive the losing write")
	}
}

func testMGet(t *testing.T, s store.IStore) {
	defer s.Close()
	ctx := context.Background()

	mustSet(t, s, "m1", "a")
	mustSet(t, s, "m3", "c")

	values, err := s.MGet(ctx, "m1", "m2", "m3")
	if err != nil {
		t.Fatalf("MGet failed: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("Expected 3 slots, got %d", len(values))
	}
	if values[0] == nil || *values[0] != "a" {
		t.Errorf("Expected slot 0 = a, got %v", values[0])
	}
	if values[1] != nil {
		t.Errorf("Expected nil slot for missing key, got %q", *values[1])
	}
	if values[2] == nil || *values[2] != "c" {
		t.Errorf("Expected slot 2 = c, got %v", values[2])
	}
}

func testScan(t *testing.T, s store.IStore) {
	defer s.Close()
	requireFeature(t, s, store.FeatureScan)

	mustSet(t, s, "ns:foo", "1")
	mustSet(t, s, "ns:foobar", "2")
	mustSet(t, s, "ns:bar", "3")
	mustSet(t, s, "other:foo", "4")

	keys := scanAll(t, s, "ns:foo*", 0)
	sort.Strings(keys)
	want := []string{"ns:foo", "ns:foobar"}
	if len(keys) != len(want) {
		t.Fatalf("Expected %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, keys)
			break
		}
	}

	// A small COUNT hint must still discover every key eventually.
	keys = scanAll(t, s, "ns:*", 1)
	if len(keys) != 3 {
		t.Errorf("Expected 3 keys under ns with count hint, got %v", keys)
	}

	keys = scanAll(t, s, "ns:f?o*", 0)
	if len(keys) != 2 {
		t.Errorf("Expected ? to match a single byte, got %v", keys)
	}

	keys = scanAll(t, s, "nomatch:*", 0)
	if len(keys) != 0 {
		t.Errorf("Expected empty scan result, got %v", keys)
	}
}

func testPipeline(t *testing.T, s store.IStore) {
	defer s.Close()
	requireFeature(t, s, store.FeaturePipeline)
	ctx := context.Background()

	pipe := s.Pipeline()
	if err := pipe.Set(ctx, "p1", "a", 0); err != nil {
		t.Fatalf("queueing Set failed: %v", err)
	}
	if err := pipe.Set(ctx, "p2", "b", 0); err != nil {
		t.Fatalf("queueing Set failed: %v", err)
	}
	if _, err := pipe.Delete(ctx, "p1"); err != nil {
		t.Fatalf("queueing Delete failed: %v", err)
	}

	// Queued writes must not be visible before the flush.
	_, found, _ := s.Get(ctx, "p2")
	if found {
		t.Errorf("Expected queued write to be invisible before Exec")
	}

	if err := pipe.Exec(ctx); err != nil {
		t.Fatalf("Exec failed: %v", err)
	}

	_, found, _ = s.Get(ctx, "p1")
	if found {
		t.Errorf("Expected p1 deleted by queued delete")
	}
	v, found, _ := s.Get(ctx, "p2")
	if !found || v != "b" {
		t.Errorf("Expected p2 = b after flush, got (%q, %v)", v, found)
	}
}
