// Package manufacturing contiene la lógica pura del motor de fabricación:
// resolución de la BOM efectiva y verificación de suficiencia de stock.
// No accede a almacenamiento ni modifica stock.
package manufacturing

import "github.com/jhoicas/Manufactura-api/internal/domain/entity"

// Resolution BOM efectiva para una corrida.
// RuleIndex es entity.BOMSourceDefault cuando se usa la BOM por defecto.
type Resolution struct {
	Lines     []entity.BOMLine
	RuleIndex int
}

// UsedDefault indica si la resolución cayó en la BOM por defecto.
func (r Resolution) UsedDefault() bool {
	return r.RuleIndex == entity.BOMSourceDefault
}

// ItemIDs devuelve los IDs de insumo referenciados, sin repetir y en orden de aparición.
func (r Resolution) ItemIDs() []string {
	seen := make(map[string]struct{}, len(r.Lines))
	ids := make([]string, 0, len(r.Lines))
	for _, l := range r.Lines {
		if _, ok := seen[l.InventoryItemID]; ok {
			continue
		}
		seen[l.InventoryItemID] = struct{}{}
		ids = append(ids, l.InventoryItemID)
	}
	return ids
}

// Resolve determina la BOM a consumir.
//
// Sin reglas activas o sin dimensiones (ambas en 0) devuelve la BOM por defecto.
// En otro caso evalúa las reglas en orden de declaración: la primera que coincide
// reemplaza por completo la BOM por defecto (no se mezclan). Si ninguna coincide,
// se usa la BOM por defecto. Las cantidades son por unidad fabricada.
func Resolve(product *entity.Product, dims entity.Dimensions) Resolution {
	def := Resolution{Lines: cloneLines(product.BOM), RuleIndex: entity.BOMSourceDefault}
	if !product.HasConditionalRules || len(product.ConditionalRules) == 0 || dims.IsZero() {
		return def
	}
	for i, rule := range product.ConditionalRules {
		if rule.Matches(dims) {
			return Resolution{Lines: cloneLines(rule.Items), RuleIndex: i}
		}
	}
	return def
}

func cloneLines(lines []entity.BOMLine) []entity.BOMLine {
	out := make([]entity.BOMLine, len(lines))
	copy(out, lines)
	return out
}
