package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss indica que la clave no existe (o expiró).
var ErrMiss = errors.New("cache miss")

// Cache es el key-value compartido entre instancias (tokens, presupuesto,
// geocode, sesiones). Todas las operaciones son atómicas por clave;
// no se necesitan transacciones multi-clave.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)

	// Set guarda value; ttl <= 0 significa sin expiración.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetNX guarda solo si la clave no existe. Devuelve true si la escribió.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// IncrBy suma delta (crea la clave en 0 si falta) y devuelve el valor nuevo.
	// No toca el TTL existente.
	IncrBy(ctx context.Context, key string, delta int64) (int64, error)

	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
