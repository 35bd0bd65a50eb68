package inventory

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// StockTxRunner ejecuta una función dentro de una transacción con el libro de stock atado a ella.
type StockTxRunner interface {
	RunStock(ctx context.Context, fn func(itemRepo repository.InventoryItemRepository) error) error
}
