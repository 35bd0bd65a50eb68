// Package memory implementa un almacenamiento transaccional en proceso.
// Cada transacción de escritura toma el candado global, trabaja sobre copias
// preparadas y solo las publica si fn termina sin error: el resto se descarta.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/Manufactura-api/internal/application/catalog"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var (
	_ manufacturing.TxRunner  = (*Store)(nil)
	_ inventory.StockTxRunner = (*Store)(nil)
	_ catalog.TxRunner        = (*Store)(nil)
)

var errReadOnly = errors.New("memory: transacción de solo lectura")

// Store estado compartido. Las lecturas y escrituras pasan siempre por una transacción.
type Store struct {
	mu       sync.RWMutex
	items    map[string]entity.InventoryItem
	products map[string]entity.Product
	logs     []entity.ManufacturingLog // orden de inserción
}

// NewStore construye un almacenamiento vacío.
func NewStore() *Store {
	return &Store{
		items:    map[string]entity.InventoryItem{},
		products: map[string]entity.Product{},
	}
}

// Run ejecuta fn en una transacción de escritura serializada.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	itemRepo repository.InventoryItemRepository,
	logRepo repository.ManufacturingLogRepository,
) error) error {
	return s.write(ctx, func(t *tx) error {
		return fn(&ProductRepo{t: t}, &InventoryItemRepo{t: t}, &ManufacturingLogRepo{t: t})
	})
}

// RunReadOnly ejecuta fn con una vista consistente; cualquier escritura falla.
func (s *Store) RunReadOnly(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	itemRepo repository.InventoryItemRepository,
	logRepo repository.ManufacturingLogRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := newTx(s, true)
	return fn(&ProductRepo{t: t}, &InventoryItemRepo{t: t}, &ManufacturingLogRepo{t: t})
}

// RunStock transacción de escritura solo con el libro de stock.
func (s *Store) RunStock(ctx context.Context, fn func(itemRepo repository.InventoryItemRepository) error) error {
	return s.write(ctx, func(t *tx) error {
		return fn(&InventoryItemRepo{t: t})
	})
}

// RunCatalog transacción de escritura para la carga de catálogo.
func (s *Store) RunCatalog(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	itemRepo repository.InventoryItemRepository,
) error) error {
	return s.write(ctx, func(t *tx) error {
		return fn(&ProductRepo{t: t}, &InventoryItemRepo{t: t})
	})
}

func (s *Store) write(ctx context.Context, fn func(t *tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := newTx(s, false)
	if err := fn(t); err != nil {
		return err
	}
	// Cancelación antes del commit: se descarta todo.
	if err := ctx.Err(); err != nil {
		return err
	}
	t.commit()
	return nil
}

// tx cambios preparados de una transacción. Las lecturas ven primero lo preparado.
type tx struct {
	s        *Store
	readOnly bool
	items    map[string]entity.InventoryItem
	products map[string]entity.Product
	logs     []entity.ManufacturingLog
}

func newTx(s *Store, readOnly bool) *tx {
	return &tx{
		s:        s,
		readOnly: readOnly,
		items:    map[string]entity.InventoryItem{},
		products: map[string]entity.Product{},
	}
}

func (t *tx) item(id string) (entity.InventoryItem, bool) {
	if it, ok := t.items[id]; ok {
		return it, true
	}
	it, ok := t.s.items[id]
	return it, ok
}

func (t *tx) product(id string) (entity.Product, bool) {
	if p, ok := t.products[id]; ok {
		return p, true
	}
	p, ok := t.s.products[id]
	return p, ok
}

// allLogs registros confirmados seguidos de los preparados en esta tx.
func (t *tx) allLogs() []entity.ManufacturingLog {
	out := make([]entity.ManufacturingLog, 0, len(t.s.logs)+len(t.logs))
	out = append(out, t.s.logs...)
	return append(out, t.logs...)
}

func (t *tx) commit() {
	for id, it := range t.items {
		t.s.items[id] = it
	}
	for id, p := range t.products {
		t.s.products[id] = p
	}
	t.s.logs = append(t.s.logs, t.logs...)
}
