// Package governor aplica el presupuesto diario de llamadas a upstream,
// el pacing entre llamadas y la política de reintentos. Toda llamada a
// un proveedor externo pasa por acá.
package governor

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"pet-reels/internal/platform/logger"
	"pet-reels/internal/ports/cache"
	"pet-reels/internal/ports/upstream"

	"golang.org/x/time/rate"
)

const (
	counterPrefix = "callcount:"
	counterTTL    = 24 * time.Hour
)

// RetryPolicy aplica solo a upstream.ErrTransport.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

type Config struct {
	DailyLimit int64

	// Scope separa contadores de proveedores distintos
	// ("" => callcount:<fecha>, "geocode" => callcount:geocode:<fecha>).
	Scope string

	// Pacing: llamadas por segundo (0 = sin pacing) y ráfaga permitida.
	RatePerSecond float64
	Burst         int

	Retry RetryPolicy
}

type Governor struct {
	cache   cache.Cache
	cfg     Config
	limiter *rate.Limiter
	log     logger.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func New(c cache.Cache, cfg Config, log logger.Logger) *Governor {
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 1
	}
	if log == nil {
		log = logger.Nop()
	}

	g := &Governor{
		cache: c,
		cfg:   cfg,
		log:   log.With(map[string]any{"component": "governor"}),
		now:   time.Now,
		sleep: sleepCtx,
	}
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	return g
}

// Do ejecuta fn bajo el presupuesto diario. Los errores de transporte se
// reintentan según la política; cada intento vuelve a reservar presupuesto.
func (g *Governor) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= g.cfg.Retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := g.sleep(ctx, g.backoff(attempt)); err != nil {
				return err
			}
		}

		err := g.attempt(ctx, fn)
		if err == nil {
			return nil
		}
		if !errors.Is(err, upstream.ErrTransport) {
			return err
		}
		lastErr = err
		g.log.Debug("transport error, retrying", map[string]any{
			"attempt": attempt,
			"error":   err.Error(),
		})
	}
	return lastErr
}

// Call es Do para funciones que devuelven un valor.
func Call[T any](ctx context.Context, g *Governor, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := g.Do(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// attempt reserva un lugar del presupuesto con un incremento atómico.
// Si la reserva pasa el límite se devuelve y no se hace I/O de red.
// Un fallo de transporte no cuenta como llamada ejecutada.
func (g *Governor) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	key := g.counterKey()

	n, err := g.cache.IncrBy(ctx, key, 1)
	if err != nil {
		return fmt.Errorf("governor: reserve budget: %w", err)
	}
	if n == 1 {
		// 0→1: el contador del día arranca su expiración
		if err := g.cache.Expire(ctx, key, counterTTL); err != nil {
			g.log.Warn("set counter expiry failed", logger.Err(err))
		}
	}
	if n > g.cfg.DailyLimit {
		g.refund(ctx, key)
		return upstream.ErrBudgetExceeded
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			g.refund(ctx, key)
			return err
		}
	}

	err = fn(ctx)
	if err != nil && errors.Is(err, upstream.ErrTransport) {
		g.refund(ctx, key)
	}
	return err
}

func (g *Governor) refund(ctx context.Context, key string) {
	// context propio: el refund debe correr aunque ctx esté cancelado
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if _, err := g.cache.IncrBy(rctx, key, -1); err != nil {
		g.log.Warn("refund budget failed", logger.Err(err))
	}
}

// Used devuelve las llamadas ejecutadas hoy (UTC).
func (g *Governor) Used(ctx context.Context) (int64, error) {
	v, err := g.cache.Get(ctx, g.counterKey())
	if errors.Is(err, cache.ErrMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(v, 10, 64)
}

// Remaining devuelve el presupuesto disponible hoy (nunca negativo).
func (g *Governor) Remaining(ctx context.Context) (int64, error) {
	used, err := g.Used(ctx)
	if err != nil {
		return 0, err
	}
	if left := g.cfg.DailyLimit - used; left > 0 {
		return left, nil
	}
	return 0, nil
}

func (g *Governor) Limit() int64 { return g.cfg.DailyLimit }

func (g *Governor) counterKey() string {
	day := g.now().UTC().Format("2006-01-02")
	if g.cfg.Scope == "" {
		return counterPrefix + day
	}
	return counterPrefix + g.cfg.Scope + ":" + day
}

func (g *Governor) backoff(attempt int) time.Duration {
	base := g.cfg.Retry.BaseDelay
	if base <= 0 {
		return 0
	}
	d := base << (attempt - 2)
	if ceiling := g.cfg.Retry.MaxDelay; ceiling > 0 && d > ceiling {
		d = ceiling
	}
	// jitter de hasta 20%
	return d + time.Duration(rand.Int64N(int64(d)/5+1))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
