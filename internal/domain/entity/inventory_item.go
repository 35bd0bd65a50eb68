package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem materia prima o insumo consumido por las listas de materiales.
// CurrentStock solo se modifica a través del libro de stock (Deduct / Adjust).
type InventoryItem struct {
	ID           string
	SKU          string // único
	Name         string
	Description  string
	Unit         string // unidad de medida: kg, m, und...
	CurrentStock decimal.Decimal
	ReorderLevel decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BelowReorderLevel indica si el stock está en o por debajo del punto de reorden.
func (i *InventoryItem) BelowReorderLevel() bool {
	return i.CurrentStock.LessThanOrEqual(i.ReorderLevel)
}
