package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreCountsWithinWindow(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	ctx := context.Background()
	for want := int64(1); want <= 6; want++ {
		got, err := store.IncrWithTTL(ctx, "ip:1.2.3.4", time.Hour)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Fatalf("expected count %d got %d", want, got)
		}
	}
}

func TestMemoryStoreResetsExpiredWindow(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := store.IncrWithTTL(ctx, "ip:1.2.3.4", time.Hour); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	current = current.Add(time.Hour + time.Second)
	got, err := store.IncrWithTTL(ctx, "ip:1.2.3.4", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected counter reset to 1 after window, got %d", got)
	}
}

func TestMemoryStoreKeysAreIndependent(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.IncrWithTTL(ctx, "ip:1.1.1.1", time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := store.IncrWithTTL(ctx, "ip:2.2.2.2", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected separate bucket per key, got %d", got)
	}
}
