package manufacturing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	engine "github.com/jhoicas/Manufactura-api/internal/domain/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// CheckAvailability resuelve la BOM con las dimensiones indicadas y compara contra el stock actual.
// Solo lectura: el resultado es orientativo, Manufacture vuelve a verificar dentro de su transacción.
func (uc *UseCase) CheckAvailability(ctx context.Context, in AvailabilityInput) (*dto.AvailabilityResponse, error) {
	dims, err := in.normalize()
	if err != nil {
		return nil, err
	}

	var out *dto.AvailabilityResponse
	err = uc.txRunner.RunReadOnly(ctx, func(
		productRepo repository.ProductRepository,
		itemRepo repository.InventoryItemRepository,
		_ repository.ManufacturingLogRepository,
	) error {
		product, err := productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("producto %s: %w", in.ProductID, domain.ErrNotFound)
		}

		res := engine.Resolve(product, dims)
		items, err := itemRepo.GetByIDs(ctx, res.ItemIDs())
		if err != nil {
			return err
		}
		lines, err := engine.Attach(res.Lines, items)
		if err != nil {
			return err
		}
		report := engine.Check(lines, in.Quantity)

		out = &dto.AvailabilityResponse{
			ProductID:         product.ID,
			ProductName:       product.Name,
			ProductSKU:        product.SKU,
			Quantity:          in.Quantity,
			Width:             dims.Width,
			Height:            dims.Height,
			BOMSource:         bomSource(res.RuleIndex),
			RuleIndex:         ruleIndexPtr(res.RuleIndex),
			CanManufacture:    report.AllSufficient,
			StockCheck:        toStockCheckLines(report.Lines),
			InsufficientItems: toStockCheckLines(report.Insufficient()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
