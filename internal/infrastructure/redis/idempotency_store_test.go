package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	infraredis "github.com/jhoicas/Manufactura-api/internal/infrastructure/redis"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newStore(t *testing.T) (*infraredis.IdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := infraredis.NewClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err, "el cliente debe conectar contra el servidor en memoria")
	t.Cleanup(func() { _ = client.Close() })
	return infraredis.NewIdempotencyStore(client), mr
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida de una clave
// ──────────────────────────────────────────────────────────────────────────────

func TestIdempotencyStore_ReservaCompletaReenviaYLibera(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "user-1:k1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("manufactura:idempotency:user-1:k1"))

	ok, err = store.Reserve(ctx, "user-1:k1", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "una clave reservada no se vuelve a reservar")

	inProgress, err := store.Get(ctx, "user-1:k1")
	require.NoError(t, err)
	require.NotNil(t, inProgress)
	assert.False(t, inProgress.Completed)

	body := []byte(`{"id":"abc"}`)
	require.NoError(t, store.Complete(ctx, "user-1:k1", repository.IdempotentResponse{
		Status: 201, ContentType: "application/json", Body: body,
	}, time.Hour))

	saved, err := store.Get(ctx, "user-1:k1")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.True(t, saved.Completed)
	assert.Equal(t, 201, saved.Status)
	assert.Equal(t, "application/json", saved.ContentType)
	assert.Equal(t, body, saved.Body)

	require.NoError(t, store.Release(ctx, "user-1:k1"))
	gone, err := store.Get(ctx, "user-1:k1")
	require.NoError(t, err)
	assert.Nil(t, gone)

	ok, err = store.Reserve(ctx, "user-1:k1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "tras liberar, el reintento vuelve a ejecutarse")
}

func TestIdempotencyStore_ClaveInexistente(t *testing.T) {
	store, _ := newStore(t)
	got, err := store.Get(context.Background(), "nadie:nada")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, store.Release(context.Background(), "nadie:nada"))
}

func TestIdempotencyStore_ExpiraConElTTL(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "u:k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "u:k")
	require.NoError(t, err)
	assert.Nil(t, got)
	ok, err = store.Reserve(ctx, "u:k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIdempotencyStore_RegistroIlegible(t *testing.T) {
	store, mr := newStore(t)
	require.NoError(t, mr.Set("manufactura:idempotency:u:roto", "no es msgpack \xc1"))

	_, err := store.Get(context.Background(), "u:roto")
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores de conexión
// ──────────────────────────────────────────────────────────────────────────────

func TestIdempotencyStore_ServidorCaido(t *testing.T) {
	store, mr := newStore(t)
	mr.Close()

	_, err := store.Reserve(context.Background(), "u:k", time.Minute)
	assert.Error(t, err)
	_, err = store.Get(context.Background(), "u:k")
	assert.Error(t, err)
}

func TestNewClient_SinServidor(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := infraredis.NewClient(ctx, addr, "", 0)
	assert.Error(t, err)
}
