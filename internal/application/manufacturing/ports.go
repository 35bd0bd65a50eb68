package manufacturing

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error (o el commit falla) ningún efecto sobrevive: stock, contador y auditoría
// se confirman juntos o no se confirman.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		itemRepo repository.InventoryItemRepository,
		logRepo repository.ManufacturingLogRepository,
	) error) error
	// RunReadOnly lectura consistente sin escrituras (verificación de disponibilidad, consultas).
	RunReadOnly(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		itemRepo repository.InventoryItemRepository,
		logRepo repository.ManufacturingLogRepository,
	) error) error
}

// RunSheetGenerator genera la hoja de producción (PDF) de una corrida confirmada.
type RunSheetGenerator interface {
	GenerateRunSheet(ctx context.Context, log *entity.ManufacturingLog) ([]byte, error)
}
