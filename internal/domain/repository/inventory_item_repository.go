package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// StockChange foto del stock de un insumo antes y después de una operación del libro.
type StockChange struct {
	Before decimal.Decimal
	After  decimal.Decimal
}

// InventoryItemRepository puerto del libro de stock. Es el único camino para modificar CurrentStock.
// Deduct y Adjust son atómicos por insumo (lectura-modificación-escritura en una sola operación)
// y nunca dejan el stock en negativo: devuelven domain.ErrInsufficientStock.
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	GetBySKU(ctx context.Context, sku string) (*entity.InventoryItem, error)
	// GetByIDs devuelve solo los insumos existentes, indexados por ID.
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.InventoryItem, error)
	// GetForUpdate como GetByIDs pero bloqueando las filas hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, ids []string) (map[string]*entity.InventoryItem, error)
	Deduct(ctx context.Context, id string, quantity decimal.Decimal) (StockChange, error)
	Adjust(ctx context.Context, id string, delta decimal.Decimal) (StockChange, error)
}
