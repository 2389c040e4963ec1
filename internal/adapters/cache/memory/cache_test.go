package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-reels/internal/ports/cache"
)

func TestCache_SetNX_OnlyFirstWins(t *testing.T) {
	c := New()
	ctx := context.Background()

	ok, err := c.SetNX(ctx, "token:lock", "a", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first SetNX to win, got ok=%v err=%v", ok, err)
	}
	ok, _ = c.SetNX(ctx, "token:lock", "b", time.Minute)
	if ok {
		t.Fatalf("expected second SetNX to lose")
	}
	v, _ := c.Get(ctx, "token:lock")
	if v != "a" {
		t.Fatalf("expected value a, got %q", v)
	}
}

func TestCache_ExpiresWithClock(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewWithClock(func() time.Time { return now })
	ctx := context.Background()

	_ = c.Set(ctx, "session:x", "[1,2]", 2*time.Hour)
	now = now.Add(2*time.Hour - time.Second)
	if _, err := c.Get(ctx, "session:x"); err != nil {
		t.Fatalf("expected live entry, got %v", err)
	}

	now = now.Add(time.Second)
	if _, err := c.Get(ctx, "session:x"); !errors.Is(err, cache.ErrMiss) {
		t.Fatalf("expected miss after ttl, got %v", err)
	}

	// SetNX vuelve a ganar tras expirar
	ok, _ := c.SetNX(ctx, "session:x", "y", time.Minute)
	if !ok {
		t.Fatalf("expected SetNX to win on expired key")
	}
}

func TestCache_IncrBy_KeepsTTL(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c := NewWithClock(func() time.Time { return now })
	ctx := context.Background()

	n, _ := c.IncrBy(ctx, "callcount:2025-03-01", 1)
	if n != 1 {
		t.Fatalf("expected 1, got %d", n)
	}
	_ = c.Expire(ctx, "callcount:2025-03-01", 24*time.Hour)

	n, _ = c.IncrBy(ctx, "callcount:2025-03-01", 1)
	if n != 2 {
		t.Fatalf("expected 2, got %d", n)
	}
	if ttl := c.TTL("callcount:2025-03-01"); ttl != 24*time.Hour {
		t.Fatalf("expected ttl preserved, got %s", ttl)
	}
}
