package manufacturing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// StockLine línea de BOM resuelta junto con la foto del insumo leída en la transacción.
type StockLine struct {
	Item            *entity.InventoryItem
	RequiredPerUnit decimal.Decimal
}

// Attach asocia cada línea con su insumo. Un insumo ausente es domain.ErrNotFound.
func Attach(lines []entity.BOMLine, items map[string]*entity.InventoryItem) ([]StockLine, error) {
	out := make([]StockLine, 0, len(lines))
	for _, l := range lines {
		item, ok := items[l.InventoryItemID]
		if !ok || item == nil {
			return nil, fmt.Errorf("insumo %s: %w", l.InventoryItemID, domain.ErrNotFound)
		}
		out = append(out, StockLine{Item: item, RequiredPerUnit: l.QuantityRequired})
	}
	return out, nil
}

// LineReport disponibilidad de una línea.
type LineReport struct {
	InventoryItemID string
	Name            string
	SKU             string
	Unit            string
	RequiredPerUnit decimal.Decimal
	TotalRequired   decimal.Decimal
	Available       decimal.Decimal
	Sufficient      bool
	Shortage        decimal.Decimal
}

// Report resultado agregado. AllSufficient es true si todas las líneas alcanzan (vacío incluido).
type Report struct {
	Lines         []LineReport
	AllSufficient bool
}

// Check compara lo requerido (por unidad × multiplier) contra lo disponible. Solo lectura.
// Si un insumo aparece en varias líneas, cada línea ve el stock que dejan las anteriores,
// igual que el libro al descontar en orden.
func Check(lines []StockLine, multiplier int) Report {
	m := decimal.NewFromInt(int64(multiplier))
	rep := Report{Lines: make([]LineReport, 0, len(lines)), AllSufficient: true}
	used := make(map[string]decimal.Decimal, len(lines))
	for _, l := range lines {
		total := l.RequiredPerUnit.Mul(m)
		available := decimal.Max(decimal.Zero, l.Item.CurrentStock.Sub(used[l.Item.ID]))
		used[l.Item.ID] = used[l.Item.ID].Add(total)
		sufficient := available.GreaterThanOrEqual(total)
		shortage := decimal.Zero
		if !sufficient {
			shortage = total.Sub(available)
			rep.AllSufficient = false
		}
		rep.Lines = append(rep.Lines, LineReport{
			InventoryItemID: l.Item.ID,
			Name:            l.Item.Name,
			SKU:             l.Item.SKU,
			Unit:            l.Item.Unit,
			RequiredPerUnit: l.RequiredPerUnit,
			TotalRequired:   total,
			Available:       available,
			Sufficient:      sufficient,
			Shortage:        shortage,
		})
	}
	return rep
}

// Insufficient devuelve solo las líneas sin stock suficiente.
func (r Report) Insufficient() []LineReport {
	var out []LineReport
	for _, l := range r.Lines {
		if !l.Sufficient {
			out = append(out, l)
		}
	}
	return out
}

// Shortages convierte las líneas insuficientes al detalle del error de negocio.
func (r Report) Shortages() []domain.Shortage {
	ins := r.Insufficient()
	out := make([]domain.Shortage, 0, len(ins))
	for _, l := range ins {
		out = append(out, domain.Shortage{
			InventoryItemID: l.InventoryItemID,
			Name:            l.Name,
			SKU:             l.SKU,
			Unit:            l.Unit,
			Required:        l.TotalRequired,
			Available:       l.Available,
			Missing:         l.Shortage,
		})
	}
	return out
}
