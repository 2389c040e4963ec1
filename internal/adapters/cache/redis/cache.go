package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-reels/internal/ports/cache"

	goredis "github.com/redis/go-redis/v9"
)

// Cache implementa cache.Cache sobre Redis. Las claves llevan un prefijo
// opcional para compartir la instancia con otros servicios.
type Cache struct {
	rdb    goredis.UniversalClient
	prefix string
}

type Option func(*Cache)

func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		prefix = strings.Trim(strings.TrimSpace(prefix), ":")
		if prefix != "" {
			c.prefix = prefix + ":"
		}
	}
}

func New(rdb goredis.UniversalClient, opts ...Option) *Cache {
	c := &Cache{rdb: rdb}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Options de conexión; Addr vacío es error.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Open conecta y hace ping (2s) antes de devolver el cache.
func Open(ctx context.Context, cfg Config) (*Cache, func() error, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, nil, errors.New("redis addr required")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}
	return New(rdb, WithPrefix(cfg.Prefix)), rdb.Close, nil
}

var _ cache.Cache = (*Cache)(nil)

func (c *Cache) key(k string) string { return c.prefix + k }

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	v, err := c.rdb.Get(ctx, c.key(key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", cache.ErrMiss
	}
	return v, err
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return c.rdb.Set(ctx, c.key(key), value, ttl).Err()
}

func (c *Cache) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		ttl = 0
	}
	return c.rdb.SetNX(ctx, c.key(key), value, ttl).Result()
}

func (c *Cache) IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	return c.rdb.IncrBy(ctx, c.key(key), delta).Result()
}

func (c *Cache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return c.rdb.Persist(ctx, c.key(key)).Err()
	}
	return c.rdb.Expire(ctx, c.key(key), ttl).Err()
}

func (c *Cache) Del(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, c.key(key)).Err()
}
