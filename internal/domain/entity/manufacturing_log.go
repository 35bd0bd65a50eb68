package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BOMSourceDefault identifica que la corrida usó la BOM por defecto.
const BOMSourceDefault = -1

// InventoryDeduction descuento de un insumo dentro de una corrida, con la foto del stock antes y después.
type InventoryDeduction struct {
	InventoryItemID  string
	ItemName         string
	ItemSKU          string
	Unit             string
	QuantityDeducted decimal.Decimal
	StockBefore      decimal.Decimal
	StockAfter       decimal.Decimal
}

// ManufacturingLog registro de auditoría inmutable de una corrida confirmada.
type ManufacturingLog struct {
	ID               string
	ProductID        string
	ProductName      string
	ProductSKU       string
	QuantityProduced int
	Width            decimal.Decimal
	Height           decimal.Decimal
	RuleIndex        int // BOMSourceDefault o índice de la regla condicional aplicada
	Deductions       []InventoryDeduction
	ManufacturedBy   string
	Notes            string
	Timestamp        time.Time
	CreatedAt        time.Time
}

// UsedConditionalRule indica si la BOM aplicada provino de una regla condicional.
func (l *ManufacturingLog) UsedConditionalRule() bool {
	return l.RuleIndex != BOMSourceDefault
}

// ManufacturingLogFilter filtros de consulta del historial (todos opcionales salvo Limit).
type ManufacturingLogFilter struct {
	ProductID       string
	InventoryItemID string
	From            *time.Time
	To              *time.Time
	Limit           int
}
