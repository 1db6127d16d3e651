package dedup

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemorySeenAfterMark(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := NewMemory(100, time.Minute)

	seen, err := cache.Seen(ctx, "article-1")
	if err != nil {
		t.Fatal(err)
	}
	if seen {
		t.Fatal("fresh cache should not report article-1 as seen")
	}

	if err := cache.Mark(ctx, "article-1"); err != nil {
		t.Fatal(err)
	}
	seen, err = cache.Seen(ctx, "article-1")
	if err != nil {
		t.Fatal(err)
	}
	if !seen {
		t.Fatal("marked key should be seen")
	}
}

func TestMemoryTTLExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := NewMemory(100, 10*time.Millisecond)

	if err := cache.Mark(ctx, "stale"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(25 * time.Millisecond)

	seen, err := cache.Seen(ctx, "stale")
	if err != nil {
		t.Fatal(err)
	}
	if seen {
		t.Fatal("expired key must not be reported as seen")
	}
}

func TestMemoryEvictsOverCapacity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := NewMemory(3, time.Minute)

	for i := 0; i < 5; i++ {
		if err := cache.Mark(ctx, fmt.Sprintf("key-%d", i)); err != nil {
			t.Fatal(err)
		}
	}

	// Oldest two fell off; newest three remain.
	for i, want := range []bool{false, false, true, true, true} {
		seen, err := cache.Seen(ctx, fmt.Sprintf("key-%d", i))
		if err != nil {
			t.Fatal(err)
		}
		if seen != want {
			t.Errorf("key-%d seen = %v, want %v", i, seen, want)
		}
	}
}

func TestMemoryMarkRefreshesRecency(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := NewMemory(2, time.Minute)

	_ = cache.Mark(ctx, "a")
	_ = cache.Mark(ctx, "b")
	_ = cache.Mark(ctx, "a") // refresh: b is now the eviction candidate
	_ = cache.Mark(ctx, "c")

	if seen, _ := cache.Seen(ctx, "a"); !seen {
		t.Error("refreshed key a should survive")
	}
	if seen, _ := cache.Seen(ctx, "b"); seen {
		t.Error("key b should have been evicted")
	}
}
