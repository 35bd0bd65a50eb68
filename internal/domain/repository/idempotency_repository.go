package repository

import (
	"context"
	"time"
)

// IdempotentResponse respuesta HTTP guardada para reenviar ante un reintento con la misma clave.
type IdempotentResponse struct {
	Status      int
	ContentType string
	Body        []byte
	Completed   bool
}

// IdempotencyStore reserva claves Idempotency-Key y guarda la respuesta final.
type IdempotencyStore interface {
	// Reserve marca la clave como en curso; false si ya existía.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Get devuelve nil si la clave no existe.
	Get(ctx context.Context, key string) (*IdempotentResponse, error)
	Complete(ctx context.Context, key string, resp IdempotentResponse, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}
