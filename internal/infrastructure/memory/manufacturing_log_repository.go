package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.ManufacturingLogRepository = (*ManufacturingLogRepo)(nil)

// ManufacturingLogRepo historial en memoria (solo inserción).
type ManufacturingLogRepo struct {
	t *tx
}

// Create agrega un registro. Un ID repetido es domain.ErrDuplicate.
func (r *ManufacturingLogRepo) Create(_ context.Context, log *entity.ManufacturingLog) error {
	if r.t.readOnly {
		return errReadOnly
	}
	for _, l := range r.t.allLogs() {
		if l.ID == log.ID {
			return domain.ErrDuplicate
		}
	}
	r.t.logs = append(r.t.logs, cloneLog(*log))
	return nil
}

// GetByID devuelve nil, nil si no existe.
func (r *ManufacturingLogRepo) GetByID(_ context.Context, id string) (*entity.ManufacturingLog, error) {
	for _, l := range r.t.allLogs() {
		if l.ID == id {
			c := cloneLog(l)
			return &c, nil
		}
	}
	return nil, nil
}

// List filtra y ordena por Timestamp descendente; a igual Timestamp, el último insertado primero.
func (r *ManufacturingLogRepo) List(_ context.Context, f entity.ManufacturingLogFilter) ([]*entity.ManufacturingLog, error) {
	all := r.t.allLogs()
	matched := make([]entity.ManufacturingLog, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if matches(all[i], f) {
			matched = append(matched, all[i])
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	out := make([]*entity.ManufacturingLog, 0, len(matched))
	for _, l := range matched {
		c := cloneLog(l)
		out = append(out, &c)
	}
	return out, nil
}

func matches(l entity.ManufacturingLog, f entity.ManufacturingLogFilter) bool {
	if f.ProductID != "" && l.ProductID != f.ProductID {
		return false
	}
	if f.From != nil && l.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && l.Timestamp.After(*f.To) {
		return false
	}
	if f.InventoryItemID != "" {
		for _, d := range l.Deductions {
			if d.InventoryItemID == f.InventoryItemID {
				return true
			}
		}
		return false
	}
	return true
}

func cloneLog(l entity.ManufacturingLog) entity.ManufacturingLog {
	l.Deductions = append([]entity.InventoryDeduction(nil), l.Deductions...)
	return l
}
