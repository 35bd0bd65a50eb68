package manufacturing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	engine "github.com/jhoicas/Manufactura-api/internal/domain/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// LogLimits límites de paginación del historial.
type LogLimits struct {
	Default int
	Max     int
}

// UseCase coordinador de fabricación: resolver → verificar → descontar → auditar
// dentro de una única transacción. No es idempotente: cada llamada es un evento de producción.
type UseCase struct {
	txRunner TxRunner
	sheets   RunSheetGenerator
	log      *logger.Logger
	limits   LogLimits
	now      func() time.Time
}

// NewUseCase construye el caso de uso. sheets puede ser nil si no se exponen hojas de producción.
func NewUseCase(txRunner TxRunner, sheets RunSheetGenerator, log *logger.Logger, limits LogLimits) *UseCase {
	if limits.Default <= 0 {
		limits.Default = 100
	}
	if limits.Max < limits.Default {
		limits.Max = limits.Default
	}
	return &UseCase{
		txRunner: txRunner,
		sheets:   sheets,
		log:      log.Component("manufacturing"),
		limits:   limits,
		now:      time.Now,
	}
}

// Manufacture ejecuta una corrida como una sola transacción:
//  1. carga el producto
//  2. resuelve la BOM efectiva con las dimensiones
//  3. lee y bloquea el stock de cada insumo referenciado
//  4. verifica suficiencia con multiplicador = cantidad producida
//  5. si falta algo, aborta con *domain.InsufficientStockError (sin descuentos parciales)
//  6. descuenta cada línea en el libro, que vuelve a validar que no quede negativo
//  7. incrementa TotalManufactured
//  8. inserta el registro de auditoría
//
// Cualquier error en 1-8 revierte todo.
func (uc *UseCase) Manufacture(ctx context.Context, in ManufactureInput) (*dto.ManufacturingLogResponse, error) {
	dims, err := in.normalize()
	if err != nil {
		return nil, err
	}

	var created *entity.ManufacturingLog
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		itemRepo repository.InventoryItemRepository,
		logRepo repository.ManufacturingLogRepository,
	) error {
		product, err := productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("producto %s: %w", in.ProductID, domain.ErrNotFound)
		}

		res := engine.Resolve(product, dims)

		items, err := itemRepo.GetForUpdate(ctx, res.ItemIDs())
		if err != nil {
			return err
		}
		lines, err := engine.Attach(res.Lines, items)
		if err != nil {
			return err
		}

		report := engine.Check(lines, in.QuantityProduced)
		if !report.AllSufficient {
			return &domain.InsufficientStockError{Shortages: report.Shortages()}
		}

		deductions, err := deduct(ctx, itemRepo, report)
		if err != nil {
			return err
		}

		if err := productRepo.IncrementManufactured(ctx, product.ID, in.QuantityProduced); err != nil {
			return err
		}

		now := uc.now().UTC()
		entry := &entity.ManufacturingLog{
			ID:               uuid.New().String(),
			ProductID:        product.ID,
			ProductName:      product.Name,
			ProductSKU:       product.SKU,
			QuantityProduced: in.QuantityProduced,
			Width:            dims.Width,
			Height:           dims.Height,
			RuleIndex:        res.RuleIndex,
			Deductions:       deductions,
			ManufacturedBy:   in.ManufacturedBy,
			Notes:            in.Notes,
			Timestamp:        now,
			CreatedAt:        now,
		}
		if err := logRepo.Create(ctx, entry); err != nil {
			return err
		}
		created = entry
		return nil
	})
	if err != nil {
		uc.logRejected(in, err)
		return nil, err
	}

	uc.log.Info().
		Str("log_id", created.ID).
		Str("product_id", created.ProductID).
		Int("quantity", created.QuantityProduced).
		Int("rule_index", created.RuleIndex).
		Int("deductions", len(created.Deductions)).
		Msg("corrida de fabricación registrada")

	return toLogResponse(created), nil
}

// deduct aplica cada línea en el libro. Si el libro rechaza un descuento (p. ej. la misma
// materia prima aparece en dos líneas y juntas superan el stock) se devuelve el faltante real.
func deduct(ctx context.Context, itemRepo repository.InventoryItemRepository, report engine.Report) ([]entity.InventoryDeduction, error) {
	remaining := make(map[string]decimal.Decimal, len(report.Lines))
	for _, l := range report.Lines {
		if _, ok := remaining[l.InventoryItemID]; !ok {
			remaining[l.InventoryItemID] = l.Available
		}
	}

	out := make([]entity.InventoryDeduction, 0, len(report.Lines))
	for _, l := range report.Lines {
		change, err := itemRepo.Deduct(ctx, l.InventoryItemID, l.TotalRequired)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				available := remaining[l.InventoryItemID]
				return nil, &domain.InsufficientStockError{Shortages: []domain.Shortage{{
					InventoryItemID: l.InventoryItemID,
					Name:            l.Name,
					SKU:             l.SKU,
					Unit:            l.Unit,
					Required:        l.TotalRequired,
					Available:       available,
					Missing:         decimal.Max(decimal.Zero, l.TotalRequired.Sub(available)),
				}}}
			}
			return nil, err
		}
		remaining[l.InventoryItemID] = change.After
		out = append(out, entity.InventoryDeduction{
			InventoryItemID:  l.InventoryItemID,
			ItemName:         l.Name,
			ItemSKU:          l.SKU,
			Unit:             l.Unit,
			QuantityDeducted: l.TotalRequired,
			StockBefore:      change.Before,
			StockAfter:       change.After,
		})
	}
	return out, nil
}

func (uc *UseCase) logRejected(in ManufactureInput, err error) {
	var insufficient *domain.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		uc.log.Warn().
			Str("product_id", in.ProductID).
			Int("quantity", in.QuantityProduced).
			Int("shortages", len(insufficient.Shortages)).
			Msg("corrida rechazada por stock insuficiente")
	case errors.Is(err, domain.ErrConflict):
		uc.log.Warn().Err(err).Str("product_id", in.ProductID).Msg("corrida abortada por conflicto de concurrencia")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidInput):
		uc.log.Debug().Err(err).Str("product_id", in.ProductID).Msg("corrida rechazada")
	default:
		uc.log.Error().Err(err).Str("product_id", in.ProductID).Msg("corrida de fabricación revertida")
	}
}
