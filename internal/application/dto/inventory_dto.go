package dto

import "github.com/shopspring/decimal"

// AdjustStockRequest body para PATCH /api/inventory/:id/stock.
type AdjustStockRequest struct {
	Adjustment decimal.Decimal `json:"adjustment"`
	Reason     string          `json:"reason,omitempty"`
}

// InventoryItemResponse salida de un insumo.
type InventoryItemResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	LowStock     bool            `json:"low_stock"`
}

// StockAdjustmentResponse resultado de un ajuste manual.
type StockAdjustmentResponse struct {
	Item        InventoryItemResponse `json:"item"`
	StockBefore decimal.Decimal       `json:"stock_before"`
	StockAfter  decimal.Decimal       `json:"stock_after"`
}
