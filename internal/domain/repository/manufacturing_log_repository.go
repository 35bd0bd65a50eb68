package repository

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// ManufacturingLogRepository puerto del historial de fabricación (solo inserción).
type ManufacturingLogRepository interface {
	Create(ctx context.Context, log *entity.ManufacturingLog) error
	GetByID(ctx context.Context, id string) (*entity.ManufacturingLog, error)
	// List devuelve los registros del más reciente al más antiguo.
	List(ctx context.Context, filter entity.ManufacturingLogFilter) ([]*entity.ManufacturingLog, error)
}
