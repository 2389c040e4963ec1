package tokens

import (
	"context"
	"errors"
	"fmt"

	"pet-reels/internal/domain/governor"
	"pet-reels/internal/ports/upstream"
)

// Source entrega tokens y permite descartarlos tras un 401.
type Source interface {
	Token(ctx context.Context) (string, error)
	Invalidate(ctx context.Context) error
}

// Authorized corre fn con el token vigente a través del governor.
// Un 401 invalida el token cacheado y se reintenta una sola vez.
func Authorized[T any](ctx context.Context, src Source, gov *governor.Governor, fn func(ctx context.Context, token string) (T, error)) (T, error) {
	var zero T
	for attempt := 0; attempt < 2; attempt++ {
		tok, err := src.Token(ctx)
		if err != nil {
			return zero, err
		}

		out, err := governor.Call(ctx, gov, func(ctx context.Context) (T, error) {
			return fn(ctx, tok)
		})
		if !errors.Is(err, upstream.ErrUnauthorized) {
			return out, err
		}
		if ierr := src.Invalidate(ctx); ierr != nil {
			return zero, fmt.Errorf("tokens: invalidate after 401: %w", ierr)
		}
	}
	return zero, fmt.Errorf("%w: token rejected after refresh", upstream.ErrAuthFailure)
}
