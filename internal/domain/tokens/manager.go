// Package tokens mantiene un único bearer token del proveedor compartido
// entre todas las instancias, refrescándolo bajo un lock distribuido.
package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pet-reels/internal/domain/governor"
	"pet-reels/internal/platform/logger"
	"pet-reels/internal/ports/cache"
	"pet-reels/internal/ports/upstream"

	"github.com/google/uuid"
)

const (
	tokenKey = "token"
	lockKey  = "token:lock"
)

// Exchanger hace el intercambio client-credentials.
type Exchanger interface {
	ExchangeToken(ctx context.Context) (upstream.Credential, error)
}

type Config struct {
	LockTTL    time.Duration // auto-expiración del lock (default 10s)
	Margin     time.Duration // se resta a la vida declarada del token (default 60s)
	RetryDelay time.Duration // espera entre intentos cuando otro tiene el lock (default 200ms)
}

type Manager struct {
	cache cache.Cache
	gov   *governor.Governor
	ex    Exchanger
	cfg   Config
	log   logger.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

func NewManager(c cache.Cache, gov *governor.Governor, ex Exchanger, cfg Config, log logger.Logger) *Manager {
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 10 * time.Second
	}
	if cfg.Margin < 0 {
		cfg.Margin = 0
	} else if cfg.Margin == 0 {
		cfg.Margin = 60 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 200 * time.Millisecond
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		cache: c,
		gov:   gov,
		ex:    ex,
		cfg:   cfg,
		log:   log.With(map[string]any{"component": "tokens"}),
		sleep: sleepCtx,
	}
}

// Token devuelve un token vigente. Como mucho un intercambio en vuelo
// entre todos los llamadores; el resto espera y lee el valor cacheado.
// Si el dueño del lock muere, el lock expira solo y otro toma la posta.
func (m *Manager) Token(ctx context.Context) (string, error) {
	for {
		tok, err := m.cached(ctx)
		if err != nil {
			return "", err
		}
		if tok != "" {
			return tok, nil
		}

		owner := uuid.NewString()
		acquired, err := m.cache.SetNX(ctx, lockKey, owner, m.cfg.LockTTL)
		if err != nil {
			return "", fmt.Errorf("tokens: acquire lock: %w", err)
		}
		if acquired {
			return m.refresh(ctx, owner)
		}

		if err := m.sleep(ctx, m.cfg.RetryDelay); err != nil {
			return "", err
		}
	}
}

// Invalidate descarta el token cacheado (p.ej. tras un 401).
func (m *Manager) Invalidate(ctx context.Context) error {
	return m.cache.Del(ctx, tokenKey)
}

func (m *Manager) refresh(ctx context.Context, owner string) (string, error) {
	defer m.release(ctx, owner)

	// otro dueño anterior pudo haberlo poblado justo antes
	if tok, err := m.cached(ctx); err != nil || tok != "" {
		return tok, err
	}

	cred, err := governor.Call(ctx, m.gov, m.ex.ExchangeToken)
	if err != nil {
		if errors.Is(err, upstream.ErrBudgetExceeded) || errors.Is(err, upstream.ErrAuthFailure) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", upstream.ErrAuthFailure, err)
	}
	if cred.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", upstream.ErrAuthFailure)
	}

	ttl := cred.ExpiresIn - m.cfg.Margin
	if ttl < time.Second {
		ttl = time.Second
	}
	if err := m.cache.Set(ctx, tokenKey, cred.AccessToken, ttl); err != nil {
		// el token sirve igual para este llamador
		m.log.Warn("cache token failed", logger.Err(err))
	}

	m.log.Info("token refreshed", map[string]any{"ttl": ttl})
	return cred.AccessToken, nil
}

// release borra el lock solo si sigue siendo nuestro.
func (m *Manager) release(ctx context.Context, owner string) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	cur, err := m.cache.Get(rctx, lockKey)
	if err != nil || cur != owner {
		return
	}
	if err := m.cache.Del(rctx, lockKey); err != nil {
		m.log.Warn("release token lock failed", logger.Err(err))
	}
}

func (m *Manager) cached(ctx context.Context) (string, error) {
	tok, err := m.cache.Get(ctx, tokenKey)
	if errors.Is(err, cache.ErrMiss) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("tokens: read cache: %w", err)
	}
	return tok, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
