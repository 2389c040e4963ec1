package tokens

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pet-reels/internal/adapters/cache/memory"
	"pet-reels/internal/domain/governor"
	"pet-reels/internal/platform/logger"
	"pet-reels/internal/ports/upstream"
)

type fakeExchanger struct {
	calls atomic.Int64
	delay time.Duration
	err   error
}

func (f *fakeExchanger) ExchangeToken(ctx context.Context) (upstream.Credential, error) {
	n := f.calls.Add(1)
	time.Sleep(f.delay)
	if f.err != nil {
		return upstream.Credential{}, f.err
	}
	return upstream.Credential{AccessToken: fmt.Sprintf("tok-%d", n), ExpiresIn: time.Hour}, nil
}

func newTestManager(ex Exchanger) (*Manager, *memory.Cache) {
	c := memory.New()
	gov := governor.New(c, governor.Config{DailyLimit: 1000}, logger.Nop())
	m := NewManager(c, gov, ex, Config{RetryDelay: 2 * time.Millisecond}, logger.Nop())
	return m, c
}

func TestManager_ConcurrentCallersConvergeOnOneExchange(t *testing.T) {
	ex := &fakeExchanger{delay: 30 * time.Millisecond}
	m, _ := newTestManager(ex)

	const k = 25
	results := make([]string, k)
	errs := make([]error, k)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], errs[i] = m.Token(context.Background())
		}(i)
	}
	close(start)
	wg.Wait()

	if got := ex.calls.Load(); got != 1 {
		t.Fatalf("expected exactly 1 exchange, got %d", got)
	}
	for i := 0; i < k; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if results[i] != results[0] {
			t.Fatalf("caller %d saw %q, caller 0 saw %q", i, results[i], results[0])
		}
	}
}

func TestManager_TTLIsLifetimeMinusMargin(t *testing.T) {
	ex := &fakeExchanger{}
	m, c := newTestManager(ex)

	if _, err := m.Token(context.Background()); err != nil {
		t.Fatalf("Token: %v", err)
	}
	ttl := c.TTL(tokenKey)
	if ttl <= 58*time.Minute || ttl > 59*time.Minute {
		t.Fatalf("expected ttl ~59m, got %s", ttl)
	}
}

func TestManager_FailureReleasesLockAndIsAuthFailure(t *testing.T) {
	ex := &fakeExchanger{err: errors.New("invalid_client")}
	m, c := newTestManager(ex)

	_, err := m.Token(context.Background())
	if !errors.Is(err, upstream.ErrAuthFailure) {
		t.Fatalf("expected ErrAuthFailure, got %v", err)
	}
	if _, err := c.Get(context.Background(), lockKey); err == nil {
		t.Fatalf("lock must be released after failure")
	}

	ex.err = nil
	tok, err := m.Token(context.Background())
	if err != nil || tok == "" {
		t.Fatalf("expected retry to succeed, got %q err=%v", tok, err)
	}
}

func TestManager_WaitsWhileLockHeldThenSeesToken(t *testing.T) {
	ex := &fakeExchanger{}
	m, c := newTestManager(ex)
	ctx := context.Background()

	_, _ = c.SetNX(ctx, lockKey, "other-instance", time.Second)
	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = c.Set(ctx, tokenKey, "from-other", time.Hour)
	}()

	tok, err := m.Token(ctx)
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "from-other" {
		t.Fatalf("expected token from the lock holder, got %q", tok)
	}
	if ex.calls.Load() != 0 {
		t.Fatalf("no exchange expected while another holder populates the cache")
	}
}

func TestManager_CachedFastPath(t *testing.T) {
	ex := &fakeExchanger{}
	m, _ := newTestManager(ex)
	ctx := context.Background()

	a, _ := m.Token(ctx)
	b, _ := m.Token(ctx)
	if a != b || ex.calls.Load() != 1 {
		t.Fatalf("expected cached token reuse, got %q/%q calls=%d", a, b, ex.calls.Load())
	}

	_ = m.Invalidate(ctx)
	c, _ := m.Token(ctx)
	if c == a {
		t.Fatalf("expected a fresh token after Invalidate")
	}
}
