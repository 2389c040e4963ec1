package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"pet-reels/internal/ports/cache"
)

type entry struct {
	value     string
	expiresAt time.Time // cero = no expira
}

// Cache implementa cache.Cache en memoria. Sirve para dev (una sola
// instancia) y para tests; el reloj es inyectable.
type Cache struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

func New() *Cache {
	return &Cache{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

// NewWithClock permite simular el paso del tiempo (TTLs) en tests.
func NewWithClock(now func() time.Time) *Cache {
	c := New()
	if now != nil {
		c.now = now
	}
	return c
}

var _ cache.Cache = (*Cache)(nil)

// lookupLocked devuelve la entrada viva y purga la expirada.
func (c *Cache) lookupLocked(key string) (entry, bool) {
	e, ok := c.data[key]
	if !ok {
		return entry{}, false
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		delete(c.data, key)
		return entry{}, false
	}
	return e, true
}

func (c *Cache) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return c.now().Add(ttl)
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lookupLocked(key)
	if !ok {
		return "", cache.ErrMiss
	}
	return e.value, nil
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = entry{value: value, expiresAt: c.deadline(ttl)}
	return nil
}

func (c *Cache) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.lookupLocked(key); ok {
		return false, nil
	}
	c.data[key] = entry{value: value, expiresAt: c.deadline(ttl)}
	return true, nil
}

func (c *Cache) IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lookupLocked(key)
	var cur int64
	if ok {
		n, err := strconv.ParseInt(e.value, 10, 64)
		if err != nil {
			return 0, err
		}
		cur = n
	}
	cur += delta
	e.value = strconv.FormatInt(cur, 10)
	c.data[key] = e
	return cur, nil
}

func (c *Cache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lookupLocked(key)
	if !ok {
		return nil
	}
	e.expiresAt = c.deadline(ttl)
	c.data[key] = e
	return nil
}

func (c *Cache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)
	return nil
}

// TTL devuelve el tiempo restante (0 si no expira o no existe). Solo para tests/diagnóstico.
func (c *Cache) TTL(key string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lookupLocked(key)
	if !ok || e.expiresAt.IsZero() {
		return 0
	}
	return e.expiresAt.Sub(c.now())
}
