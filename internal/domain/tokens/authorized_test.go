package tokens

import (
	"context"
	"errors"
	"testing"

	"pet-reels/internal/adapters/cache/memory"
	"pet-reels/internal/domain/governor"
	"pet-reels/internal/platform/logger"
	"pet-reels/internal/ports/upstream"
)

type countingSource struct {
	tokens      int
	invalidated int
}

func (c *countingSource) Token(ctx context.Context) (string, error) {
	c.tokens++
	return "tok", nil
}

func (c *countingSource) Invalidate(ctx context.Context) error {
	c.invalidated++
	return nil
}

func TestAuthorized_RetriesOnceAfter401(t *testing.T) {
	gov := governor.New(memory.New(), governor.Config{DailyLimit: 10}, logger.Nop())
	src := &countingSource{}

	calls := 0
	got, err := Authorized(context.Background(), src, gov, func(ctx context.Context, token string) (string, error) {
		calls++
		if calls == 1 {
			return "", upstream.ErrUnauthorized
		}
		return "ok:" + token, nil
	})
	if err != nil || got != "ok:tok" {
		t.Fatalf("expected success after retry, got %q err=%v", got, err)
	}
	if src.invalidated != 1 || src.tokens != 2 {
		t.Fatalf("expected one invalidate and two token reads, got %+v", src)
	}
}

func TestAuthorized_RepeatedRejectionIsAuthFailure(t *testing.T) {
	gov := governor.New(memory.New(), governor.Config{DailyLimit: 10}, logger.Nop())
	src := &countingSource{}

	_, err := Authorized(context.Background(), src, gov, func(ctx context.Context, token string) (int, error) {
		return 0, upstream.ErrUnauthorized
	})
	if !errors.Is(err, upstream.ErrAuthFailure) {
		t.Fatalf("expected ErrAuthFailure, got %v", err)
	}
	if src.invalidated != 2 {
		t.Fatalf("expected two invalidations, got %d", src.invalidated)
	}
}
