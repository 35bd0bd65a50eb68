package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ManufactureRequest body para POST /api/manufacturing.
type ManufactureRequest struct {
	ProductID        string           `json:"product_id"`
	QuantityProduced int              `json:"quantity_produced"`
	Width            *decimal.Decimal `json:"width,omitempty"`
	Height           *decimal.Decimal `json:"height,omitempty"`
	ManufacturedBy   string           `json:"manufactured_by,omitempty"`
	Notes            string           `json:"notes,omitempty"`
}

// StockCheckLineDTO disponibilidad de un insumo para la cantidad solicitada.
type StockCheckLineDTO struct {
	InventoryItemID string          `json:"inventory_item_id"`
	Name            string          `json:"name"`
	SKU             string          `json:"sku"`
	Unit            string          `json:"unit"`
	RequiredPerUnit decimal.Decimal `json:"required_per_unit"`
	TotalRequired   decimal.Decimal `json:"total_required"`
	Available       decimal.Decimal `json:"available"`
	Sufficient      bool            `json:"sufficient"`
	Shortage        decimal.Decimal `json:"shortage"`
}

// AvailabilityResponse salida de GET /api/manufacturing/check.
type AvailabilityResponse struct {
	ProductID         string              `json:"product_id"`
	ProductName       string              `json:"product_name"`
	ProductSKU        string              `json:"product_sku"`
	Quantity          int                 `json:"quantity_to_manufacture"`
	Width             decimal.Decimal     `json:"width"`
	Height            decimal.Decimal     `json:"height"`
	BOMSource         string              `json:"bom_source"` // "default" o "rule"
	RuleIndex         *int                `json:"rule_index,omitempty"`
	CanManufacture    bool                `json:"can_manufacture"`
	StockCheck        []StockCheckLineDTO `json:"stock_check"`
	InsufficientItems []StockCheckLineDTO `json:"insufficient_items,omitempty"`
}

// InventoryDeductionDTO descuento registrado en la auditoría.
type InventoryDeductionDTO struct {
	InventoryItemID  string          `json:"inventory_item_id"`
	ItemName         string          `json:"item_name"`
	ItemSKU          string          `json:"item_sku"`
	Unit             string          `json:"unit"`
	QuantityDeducted decimal.Decimal `json:"quantity_deducted"`
	StockBefore      decimal.Decimal `json:"stock_before"`
	StockAfter       decimal.Decimal `json:"stock_after"`
}

// ManufacturingLogResponse registro de auditoría de una corrida.
type ManufacturingLogResponse struct {
	ID                  string                  `json:"id"`
	ProductID           string                  `json:"product_id"`
	ProductName         string                  `json:"product_name"`
	ProductSKU          string                  `json:"product_sku"`
	QuantityProduced    int                     `json:"quantity_produced"`
	Width               decimal.Decimal         `json:"width"`
	Height              decimal.Decimal         `json:"height"`
	BOMSource           string                  `json:"bom_source"`
	RuleIndex           *int                    `json:"rule_index,omitempty"`
	InventoryDeductions []InventoryDeductionDTO `json:"inventory_deductions"`
	ManufacturedBy      string                  `json:"manufactured_by,omitempty"`
	Notes               string                  `json:"notes,omitempty"`
	Timestamp           time.Time               `json:"timestamp"`
}

// ShortageDTO faltante devuelto junto con el error INSUFFICIENT_STOCK.
type ShortageDTO struct {
	InventoryItemID string          `json:"inventory_item_id"`
	Name            string          `json:"name"`
	SKU             string          `json:"sku,omitempty"`
	Required        decimal.Decimal `json:"required"`
	Available       decimal.Decimal `json:"available"`
	Shortage        decimal.Decimal `json:"shortage"`
}

// InsufficientStockResponse cuerpo de error con detalle de faltantes.
type InsufficientStockResponse struct {
	Code              string        `json:"code"`
	Message           string        `json:"message"`
	InsufficientItems []ShortageDTO `json:"insufficient_items"`
}

// LogListResponse salida de GET /api/manufacturing/logs.
type LogListResponse struct {
	Data  []ManufacturingLogResponse `json:"data"`
	Count int                        `json:"count"`
}
