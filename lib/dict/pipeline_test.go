package dict_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Attumm/valkey-dict/lib/dict"
)

func TestPipelineBatchesWrites(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	err := d.Pipeline(ctx, func() error {
		if err := d.Set(ctx, "a", 1); err != nil {
			return err
		}
		if err := d.Set(ctx, "b", 2); err != nil {
			return err
		}
		// Queued writes are invisible until the scope flushes.
		if _, found, err := d.Get(ctx, "a"); err != nil || found {
			t.Fatalf("Get inside the scope = (found=%v, err=%v), want the pre-scope state", found, err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Pipeline failed: %v", err)
	}

	for _, key := range []string{"a", "b"} {
		if _, found, _ := d.Get(ctx, key); !found {
			t.Fatalf("key %q missing after the scope flushed", key)
		}
	}
}

func TestPipelineNests(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	err := d.Pipeline(ctx, func() error {
		if err := d.Set(ctx, "outer", 1); err != nil {
			return err
		}
		inner := d.Pipeline(ctx, func() error {
			return d.Set(ctx, "inner", 2)
		})
		if inner != nil {
			return inner
		}
		// The inner scope's exit must not flush.
		if _, found, err := d.Get(ctx, "inner"); err != nil || found {
			t.Fatalf("inner scope flushed early (found=%v, err=%v)", found, err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Pipeline failed: %v", err)
	}

	for _, key := range []string{"outer", "inner"} {
		if _, found, _ := d.Get(ctx, key); !found {
			t.Fatalf("key %q missing after the outermost scope flushed", key)
		}
	}
}

func TestPipelineFlushesOnError(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	boom := errors.New("boom")
	err := d.Pipeline(ctx, func() error {
		if err := d.Set(ctx, "before-failure", 1); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Pipeline = %v, want the callback's error", err)
	}

	// Batching is a transport optimization, not a transaction: commands
	// queued before the failure are still sent.
	if _, found, _ := d.Get(ctx, "before-failure"); !found {
		t.Fatal("queued write was dropped on error, want it flushed")
	}
}

func TestPipelineRecoversWriteSink(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	_ = d.Pipeline(ctx, func() error { return errors.New("boom") })

	// Writes after a failed scope go straight to the store again.
	if err := d.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set after a failed scope: %v", err)
	}
	if _, found, _ := d.Get(ctx, "k"); !found {
		t.Fatal("write after a failed scope was not applied immediately")
	}
}

func TestPipelineStrictDeleteSuspended(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{StrictDelete: true})

	// Queued deletes report no counts, so the strict check cannot apply.
	err := d.Pipeline(ctx, func() error {
		return d.Delete(ctx, "never-existed")
	})
	if err != nil {
		t.Fatalf("queued delete of a missing key = %v, want success", err)
	}

	if err := d.Delete(ctx, "never-existed"); !dict.IsNotFound(err) {
		t.Fatalf("strict delete outside the scope = %v, want a not-found error", err)
	}
}

func TestExpireScope(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	err := d.ExpireScope(10*time.Second, func() error {
		return d.Set(ctx, "scoped", "v")
	})
	if err != nil {
		t.Fatalf("ExpireScope failed: %v", err)
	}
	if _, ok, _ := d.TTL(ctx, "scoped"); !ok {
		t.Fatal("key written inside the scope carries no TTL")
	}

	if err := d.Set(ctx, "after", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok, _ := d.TTL(ctx, "after"); ok {
		t.Fatal("scope's expiration leaked past its exit")
	}
}

func TestExpireScopeRestoresOnError(t *testing.T) {
	ctx := context.Background()
	d := newDict(t, dict.Config{})

	boom := errors.New("boom")
	if err := d.ExpireScope(10*time.Second, func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("ExpireScope = %v, want the callback's error", err)
	}

	if err := d.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok, _ := d.TTL(ctx, "k"); ok {
		t.Fatal("expiration not restored after the scope failed")
	}
}
