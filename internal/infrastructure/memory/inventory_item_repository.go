package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo libro de stock en memoria atado a una transacción.
type InventoryItemRepo struct {
	t *tx
}

// Create inserta un insumo. SKU duplicado devuelve domain.ErrDuplicate.
func (r *InventoryItemRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	if r.t.readOnly {
		return errReadOnly
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.ID = strings.Clone(item.ID)
	if _, ok := r.t.item(item.ID); ok {
		return domain.ErrDuplicate
	}
	if existing, _ := r.GetBySKU(context.Background(), item.SKU); existing != nil {
		return domain.ErrDuplicate
	}
	if item.CurrentStock.IsNegative() || item.ReorderLevel.IsNegative() {
		return domain.NewValidationError("current_stock", "no puede ser negativo")
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	r.t.items[item.ID] = *item
	return nil
}

// GetByID devuelve nil, nil si no existe.
func (r *InventoryItemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	it, ok := r.t.item(id)
	if !ok {
		return nil, nil
	}
	return &it, nil
}

// GetBySKU devuelve nil, nil si no existe.
func (r *InventoryItemRepo) GetBySKU(_ context.Context, sku string) (*entity.InventoryItem, error) {
	for id := range r.t.items {
		if it := r.t.items[id]; it.SKU == sku {
			return &it, nil
		}
	}
	for id, it := range r.t.s.items {
		if _, staged := r.t.items[id]; staged {
			continue
		}
		if it.SKU == sku {
			return &it, nil
		}
	}
	return nil, nil
}

// GetByIDs devuelve los insumos existentes.
func (r *InventoryItemRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.InventoryItem, error) {
	out := make(map[string]*entity.InventoryItem, len(ids))
	for _, id := range ids {
		if it, ok := r.t.item(id); ok {
			out[id] = &it
		}
	}
	return out, nil
}

// GetForUpdate equivale a GetByIDs: la transacción ya tiene el candado global.
func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, ids []string) (map[string]*entity.InventoryItem, error) {
	return r.GetByIDs(ctx, ids)
}

// Deduct resta quantity si el resultado no queda negativo.
func (r *InventoryItemRepo) Deduct(ctx context.Context, id string, quantity decimal.Decimal) (repository.StockChange, error) {
	if quantity.IsNegative() {
		return repository.StockChange{}, domain.NewValidationError("quantity", "no puede ser negativo")
	}
	return r.apply(ctx, id, quantity.Neg())
}

// Adjust suma delta (con signo) si el resultado no queda negativo.
func (r *InventoryItemRepo) Adjust(ctx context.Context, id string, delta decimal.Decimal) (repository.StockChange, error) {
	return r.apply(ctx, id, delta)
}

func (r *InventoryItemRepo) apply(_ context.Context, id string, delta decimal.Decimal) (repository.StockChange, error) {
	if r.t.readOnly {
		return repository.StockChange{}, errReadOnly
	}
	it, ok := r.t.item(id)
	if !ok {
		return repository.StockChange{}, fmt.Errorf("insumo %s: %w", id, domain.ErrNotFound)
	}
	after := it.CurrentStock.Add(delta)
	if after.IsNegative() {
		return repository.StockChange{}, domain.ErrInsufficientStock
	}
	change := repository.StockChange{Before: it.CurrentStock, After: after}
	it.CurrentStock = after
	it.UpdatedAt = time.Now().UTC()
	// Clave propia del registro: id puede apuntar a un buffer del llamador.
	r.t.items[it.ID] = it
	return change, nil
}
