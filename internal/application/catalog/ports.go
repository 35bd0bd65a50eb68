package catalog

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// TxRunner transacción con los repos de catálogo.
type TxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		itemRepo repository.InventoryItemRepository,
	) error) error
}
