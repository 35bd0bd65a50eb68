package inventory

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

const maxReasonLen = 500

// AdjustStockUseCase corrección manual de stock a través del libro (positiva o negativa).
type AdjustStockUseCase struct {
	txRunner StockTxRunner
	log      *logger.Logger
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(txRunner StockTxRunner, log *logger.Logger) *AdjustStockUseCase {
	return &AdjustStockUseCase{txRunner: txRunner, log: log.Component("inventory")}
}

// AdjustStockInput entrada del ajuste. Adjustment no puede ser 0.
type AdjustStockInput struct {
	InventoryItemID string
	Adjustment      decimal.Decimal
	Reason          string
	UserID          string
}

// AdjustStock aplica el ajuste de forma atómica. Si el resultado fuera negativo devuelve
// domain.ErrInsufficientStock y el stock no cambia.
func (uc *AdjustStockUseCase) AdjustStock(ctx context.Context, in AdjustStockInput) (*dto.StockAdjustmentResponse, error) {
	in.InventoryItemID = strings.TrimSpace(in.InventoryItemID)
	in.Reason = strings.TrimSpace(in.Reason)
	if in.InventoryItemID == "" {
		return nil, domain.NewValidationError("id", "requerido")
	}
	if in.Adjustment.IsZero() {
		return nil, domain.NewValidationError("adjustment", "no puede ser cero")
	}
	if utf8.RuneCountInString(in.Reason) > maxReasonLen {
		return nil, domain.NewValidationError("reason", "máximo 500 caracteres")
	}

	var (
		item   *entity.InventoryItem
		change repository.StockChange
	)
	err := uc.txRunner.RunStock(ctx, func(itemRepo repository.InventoryItemRepository) error {
		var err error
		change, err = itemRepo.Adjust(ctx, in.InventoryItemID, in.Adjustment)
		if err != nil {
			return err
		}
		item, err = itemRepo.GetByID(ctx, in.InventoryItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("insumo %s: %w", in.InventoryItemID, domain.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ev := uc.log.Info()
	if item.BelowReorderLevel() {
		ev = uc.log.Warn().Str("reorder_level", item.ReorderLevel.String())
	}
	ev.Str("inventory_item_id", item.ID).
		Str("adjustment", in.Adjustment.String()).
		Str("stock_before", change.Before.String()).
		Str("stock_after", change.After.String()).
		Str("reason", in.Reason).
		Str("user_id", in.UserID).
		Msg("ajuste manual de stock")

	return &dto.StockAdjustmentResponse{
		Item:        ToInventoryItemResponse(item),
		StockBefore: change.Before,
		StockAfter:  change.After,
	}, nil
}

// ToInventoryItemResponse convierte la entidad a su salida HTTP.
func ToInventoryItemResponse(item *entity.InventoryItem) dto.InventoryItemResponse {
	return dto.InventoryItemResponse{
		ID:           item.ID,
		SKU:          item.SKU,
		Name:         item.Name,
		Description:  item.Description,
		Unit:         item.Unit,
		CurrentStock: item.CurrentStock,
		ReorderLevel: item.ReorderLevel,
		LowStock:     item.BelowReorderLevel(),
	}
}
