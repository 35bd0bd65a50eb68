package manufacturing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// QueryLogs consulta el historial con filtros opcionales, del más reciente al más antiguo.
func (uc *UseCase) QueryLogs(ctx context.Context, q LogQuery) ([]dto.ManufacturingLogResponse, error) {
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, domain.NewValidationError("start_date", "debe ser anterior o igual a end_date")
	}
	if q.Limit < 0 {
		return nil, domain.NewValidationError("limit", "no puede ser negativo")
	}
	limit := q.Limit
	if limit == 0 {
		limit = uc.limits.Default
	}
	if limit > uc.limits.Max {
		limit = uc.limits.Max
	}
	filter := entity.ManufacturingLogFilter{
		ProductID:       strings.TrimSpace(q.ProductID),
		InventoryItemID: strings.TrimSpace(q.InventoryItemID),
		From:            q.From,
		To:              q.To,
		Limit:           limit,
	}

	var logs []*entity.ManufacturingLog
	err := uc.txRunner.RunReadOnly(ctx, func(
		_ repository.ProductRepository,
		_ repository.InventoryItemRepository,
		logRepo repository.ManufacturingLogRepository,
	) error {
		var err error
		logs, err = logRepo.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.ManufacturingLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, *toLogResponse(l))
	}
	return out, nil
}

// GetLog obtiene un registro del historial por ID.
func (uc *UseCase) GetLog(ctx context.Context, id string) (*dto.ManufacturingLogResponse, error) {
	entry, err := uc.getLog(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLogResponse(entry), nil
}

// DownloadRunSheet genera la hoja de producción en PDF de una corrida confirmada.
func (uc *UseCase) DownloadRunSheet(ctx context.Context, id string) (pdfBytes []byte, filename string, err error) {
	if uc.sheets == nil {
		return nil, "", fmt.Errorf("hoja de producción no configurada")
	}
	entry, err := uc.getLog(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.sheets.GenerateRunSheet(ctx, entry)
	if err != nil {
		return nil, "", fmt.Errorf("generar hoja de producción: %w", err)
	}
	filename = fmt.Sprintf("corrida_%s_%s.pdf", entry.ProductSKU, entry.Timestamp.Format("20060102_150405"))
	return pdfBytes, filename, nil
}

func (uc *UseCase) getLog(ctx context.Context, id string) (*entity.ManufacturingLog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.NewValidationError("id", "requerido")
	}
	var entry *entity.ManufacturingLog
	err := uc.txRunner.RunReadOnly(ctx, func(
		_ repository.ProductRepository,
		_ repository.InventoryItemRepository,
		logRepo repository.ManufacturingLogRepository,
	) error {
		var err error
		entry, err = logRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("registro %s: %w", id, domain.ErrNotFound)
	}
	return entry, nil
}
