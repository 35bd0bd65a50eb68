package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.IdempotencyStore = (*IdempotencyStore)(nil)

type idempotencyEntry struct {
	resp      repository.IdempotentResponse
	expiresAt time.Time
}

// IdempotencyStore claves Idempotency-Key en memoria para un solo proceso.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]idempotencyEntry
	now     func() time.Time
}

// NewIdempotencyStore construye el almacén vacío.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{entries: map[string]idempotencyEntry{}, now: time.Now}
}

func (s *IdempotencyStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok && s.now().Before(e.expiresAt) {
		return false, nil
	}
	s.entries[key] = idempotencyEntry{expiresAt: s.now().Add(ttl)}
	return true, nil
}

func (s *IdempotencyStore) Get(_ context.Context, key string) (*repository.IdempotentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return nil, nil
	}
	resp := e.resp
	resp.Body = append([]byte(nil), e.resp.Body...)
	return &resp, nil
}

func (s *IdempotencyStore) Complete(_ context.Context, key string, resp repository.IdempotentResponse, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp.Completed = true
	resp.Body = append([]byte(nil), resp.Body...)
	s.entries[key] = idempotencyEntry{resp: resp, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
