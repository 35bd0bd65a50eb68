package manufacturing

import (
	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	engine "github.com/jhoicas/Manufactura-api/internal/domain/manufacturing"
)

const (
	bomSourceDefault = "default"
	bomSourceRule    = "rule"
)

func bomSource(ruleIndex int) string {
	if ruleIndex == entity.BOMSourceDefault {
		return bomSourceDefault
	}
	return bomSourceRule
}

func ruleIndexPtr(ruleIndex int) *int {
	if ruleIndex == entity.BOMSourceDefault {
		return nil
	}
	return &ruleIndex
}

func toStockCheckLines(lines []engine.LineReport) []dto.StockCheckLineDTO {
	if len(lines) == 0 {
		return nil
	}
	out := make([]dto.StockCheckLineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.StockCheckLineDTO{
			InventoryItemID: l.InventoryItemID,
			Name:            l.Name,
			SKU:             l.SKU,
			Unit:            l.Unit,
			RequiredPerUnit: l.RequiredPerUnit,
			TotalRequired:   l.TotalRequired,
			Available:       l.Available,
			Sufficient:      l.Sufficient,
			Shortage:        l.Shortage,
		})
	}
	return out
}

func toLogResponse(l *entity.ManufacturingLog) *dto.ManufacturingLogResponse {
	deductions := make([]dto.InventoryDeductionDTO, 0, len(l.Deductions))
	for _, d := range l.Deductions {
		deductions = append(deductions, dto.InventoryDeductionDTO{
			InventoryItemID:  d.InventoryItemID,
			ItemName:         d.ItemName,
			ItemSKU:          d.ItemSKU,
			Unit:             d.Unit,
			QuantityDeducted: d.QuantityDeducted,
			StockBefore:      d.StockBefore,
			StockAfter:       d.StockAfter,
		})
	}
	return &dto.ManufacturingLogResponse{
		ID:                  l.ID,
		ProductID:           l.ProductID,
		ProductName:         l.ProductName,
		ProductSKU:          l.ProductSKU,
		QuantityProduced:    l.QuantityProduced,
		Width:               l.Width,
		Height:              l.Height,
		BOMSource:           bomSource(l.RuleIndex),
		RuleIndex:           ruleIndexPtr(l.RuleIndex),
		InventoryDeductions: deductions,
		ManufacturedBy:      l.ManufacturedBy,
		Notes:               l.Notes,
		Timestamp:           l.Timestamp,
	}
}
