// Package pdf genera la hoja de producción de una corrida confirmada.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Producto + SKU       │  Corrida N° + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Cantidad / Medidas / BOM aplicada / Operario         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Insumo | Unidad | Descontado | Antes | Después │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Notas + QR con el ID de la corrida                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

var _ manufacturing.RunSheetGenerator = (*RunSheetGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// RunSheetGenerator implementa manufacturing.RunSheetGenerator usando Maroto v2.
type RunSheetGenerator struct {
	company string
}

// NewRunSheetGenerator construye el generador. company aparece como autor del documento.
func NewRunSheetGenerator(company string) *RunSheetGenerator {
	return &RunSheetGenerator{company: company}
}

// GenerateRunSheet genera el PDF y devuelve sus bytes.
func (g *RunSheetGenerator) GenerateRunSheet(_ context.Context, log *entity.ManufacturingLog) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de producción", true).
		WithAuthor(nonEmpty(g.company, "Manufactura"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(log))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(runDataRow(log))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(deductionRows(log.Deductions)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(log))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(log *entity.ManufacturingLog) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(log.ProductName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("SKU: "+nonEmpty(log.ProductSKU, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("HOJA DE PRODUCCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(log.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+log.Timestamp.Format("02/01/2006 15:04")+" UTC", props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func runDataRow(log *entity.ManufacturingLog) core.Row {
	bom := "BOM por defecto"
	if log.UsedConditionalRule() {
		bom = fmt.Sprintf("Regla condicional #%d", log.RuleIndex+1)
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Cantidad producida: %d", log.QuantityProduced), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 1,
			}),
			text.New(fmt.Sprintf("Ancho: %s   |   Alto: %s   |   %s   |   Operario: %s",
				log.Width.String(),
				log.Height.String(),
				bom,
				nonEmpty(log.ManufacturedBy, "-"),
			), props.Text{Size: 8, Top: 8, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Insumo", 4, align.Left),
		h("Unidad", 1, align.Center),
		h("Descontado", 2, align.Right),
		h("Antes", 1, align.Right),
		h("Después", 2, align.Right),
	)
}

func deductionRows(deductions []entity.InventoryDeduction) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	out := make([]core.Row, 0, len(deductions))
	for _, d := range deductions {
		out = append(out, row.New(7).Add(
			cell(nonEmpty(d.ItemSKU, "-"), 2, align.Left),
			cell(d.ItemName, 4, align.Left),
			cell(d.Unit, 1, align.Center),
			cell(d.QuantityDeducted.String(), 2, align.Right),
			cell(d.StockBefore.String(), 1, align.Right),
			cell(d.StockAfter.String(), 2, align.Right),
		))
	}
	return out
}

func footerRow(log *entity.ManufacturingLog) core.Row {
	return row.New(32).Add(
		col.New(9).Add(
			text.New("NOTAS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(log.Notes, "-"), props.Text{Size: 8, Top: 6}),
			text.New("ID de corrida: "+log.ID, props.Text{Size: 7, Top: 26, Color: colorGray}),
		),
		col.New(3).Add(
			code.NewQr(log.ID, props.Rect{Percent: 95, Center: true}),
		),
	)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
