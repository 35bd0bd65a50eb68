// Package redis guarda las claves Idempotency-Key de POST /api/manufacturing
// para que varias réplicas de la API compartan la deduplicación.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

const keyPrefix = "manufactura:idempotency:"

var _ repository.IdempotencyStore = (*IdempotencyStore)(nil)

// record lo que se guarda bajo cada clave, codificado con msgpack.
type record struct {
	Status      int    `msgpack:"s"`
	ContentType string `msgpack:"ct"`
	Body        []byte `msgpack:"b"`
	Completed   bool   `msgpack:"c"`
}

// IdempotencyStore implementación sobre Redis (SET NX + TTL).
type IdempotencyStore struct {
	client redis.UniversalClient
}

// NewIdempotencyStore construye el almacén con un cliente ya configurado.
func NewIdempotencyStore(client redis.UniversalClient) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// NewClient crea el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Reserve marca la clave como en curso solo si no existía.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	payload, err := msgpack.Marshal(record{})
	if err != nil {
		return false, fmt.Errorf("encode idempotency record: %w", err)
	}
	ok, err := s.client.SetNX(ctx, keyPrefix+key, payload, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reserve idempotency key: %w", err)
	}
	return ok, nil
}

// Get devuelve nil, nil si la clave no existe o expiró.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*repository.IdempotentResponse, error) {
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get idempotency key: %w", err)
	}
	var rec record
	if err := msgpack.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode idempotency record: %w", err)
	}
	return &repository.IdempotentResponse{
		Status:      rec.Status,
		ContentType: rec.ContentType,
		Body:        rec.Body,
		Completed:   rec.Completed,
	}, nil
}

// Complete guarda la respuesta final bajo la clave.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, resp repository.IdempotentResponse, ttl time.Duration) error {
	payload, err := msgpack.Marshal(record{
		Status:      resp.Status,
		ContentType: resp.ContentType,
		Body:        resp.Body,
		Completed:   true,
	})
	if err != nil {
		return fmt.Errorf("encode idempotency record: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("complete idempotency key: %w", err)
	}
	return nil
}

// Release borra la clave para que un reintento pueda volver a ejecutar la corrida.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}
