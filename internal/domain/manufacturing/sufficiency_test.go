package manufacturing_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/manufacturing"
)

func item(id, stock string) *entity.InventoryItem {
	return &entity.InventoryItem{ID: id, Name: "Insumo " + id, SKU: "SKU-" + id, Unit: "kg", CurrentStock: dec(stock)}
}

func TestCheck_Suficiente(t *testing.T) {
	lines := []manufacturing.StockLine{{Item: item("X", "20"), RequiredPerUnit: dec("2")}}
	rep := manufacturing.Check(lines, 5)

	require.Len(t, rep.Lines, 1)
	assert.True(t, rep.AllSufficient)
	assert.True(t, rep.Lines[0].TotalRequired.Equal(dec("10")))
	assert.True(t, rep.Lines[0].Shortage.IsZero())
	assert.Empty(t, rep.Insufficient())
}

// Stock 5, requiere 2/unidad × 5 → faltan 5.
func TestCheck_Insuficiente_CalculaFaltante(t *testing.T) {
	lines := []manufacturing.StockLine{
		{Item: item("X", "5"), RequiredPerUnit: dec("2")},
		{Item: item("Y", "100"), RequiredPerUnit: dec("1")},
	}
	rep := manufacturing.Check(lines, 5)

	assert.False(t, rep.AllSufficient)
	ins := rep.Insufficient()
	require.Len(t, ins, 1)
	assert.Equal(t, "X", ins[0].InventoryItemID)
	assert.True(t, ins[0].Shortage.Equal(dec("5")))

	sh := rep.Shortages()
	require.Len(t, sh, 1)
	assert.True(t, sh[0].Required.Equal(dec("10")))
	assert.True(t, sh[0].Available.Equal(dec("5")))
}

// El mismo insumo en dos líneas: la segunda ve lo que deja la primera.
func TestCheck_InsumoRepetido_AcumulaLoRequerido(t *testing.T) {
	x := item("X", "10")
	lines := []manufacturing.StockLine{
		{Item: x, RequiredPerUnit: dec("6")},
		{Item: x, RequiredPerUnit: dec("6")},
	}
	rep := manufacturing.Check(lines, 1)

	assert.False(t, rep.AllSufficient)
	require.Len(t, rep.Lines, 2)
	assert.True(t, rep.Lines[0].Sufficient)
	assert.True(t, rep.Lines[1].Available.Equal(dec("4")))
	assert.True(t, rep.Lines[1].Shortage.Equal(dec("2")), "faltan 12 - 10")

	rep = manufacturing.Check(lines[:1], 1)
	assert.True(t, rep.AllSufficient)
}

func TestCheck_InsumoRepetido_ConStockSuficiente(t *testing.T) {
	x := item("X", "12")
	rep := manufacturing.Check([]manufacturing.StockLine{
		{Item: x, RequiredPerUnit: dec("6")},
		{Item: x, RequiredPerUnit: dec("6")},
	}, 1)
	assert.True(t, rep.AllSufficient)
}

func TestCheck_StockExacto_EsSuficiente(t *testing.T) {
	rep := manufacturing.Check([]manufacturing.StockLine{{Item: item("X", "7.5"), RequiredPerUnit: dec("2.5")}}, 3)
	assert.True(t, rep.AllSufficient)
}

func TestCheck_ListaVacia_EsSuficiente(t *testing.T) {
	rep := manufacturing.Check(nil, 10)
	assert.True(t, rep.AllSufficient)
	assert.Empty(t, rep.Lines)
}

func TestAttach_InsumoAusente_NotFound(t *testing.T) {
	_, err := manufacturing.Attach(
		[]entity.BOMLine{line("X", "1"), line("Y", "1")},
		map[string]*entity.InventoryItem{"X": item("X", "1")},
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestAttach_ConservaOrdenDeLineas(t *testing.T) {
	items := map[string]*entity.InventoryItem{"X": item("X", "1"), "Y": item("Y", "2")}
	out, err := manufacturing.Attach([]entity.BOMLine{line("Y", "3"), line("X", "4")}, items)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Y", out[0].Item.ID)
	assert.True(t, out[1].RequiredPerUnit.Equal(dec("4")))
}
