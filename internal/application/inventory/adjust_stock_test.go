package inventory_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/memory"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

func setup(t *testing.T, stock, reorder string) (*inventory.AdjustStockUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.RunStock(context.Background(), func(r repository.InventoryItemRepository) error {
		return r.Create(context.Background(), &entity.InventoryItem{
			ID: "X", SKU: "TELA-01", Name: "Tela", Unit: "m",
			CurrentStock: decimal.RequireFromString(stock),
			ReorderLevel: decimal.RequireFromString(reorder),
		})
	}))
	return inventory.NewAdjustStockUseCase(store, logger.Nop()), store
}

func TestAdjustStock_Positivo(t *testing.T) {
	uc, _ := setup(t, "10", "0")
	out, err := uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		InventoryItemID: "X", Adjustment: decimal.NewFromInt(5), Reason: "recepción",
	})
	require.NoError(t, err)
	assert.True(t, out.StockBefore.Equal(decimal.NewFromInt(10)))
	assert.True(t, out.StockAfter.Equal(decimal.NewFromInt(15)))
	assert.True(t, out.Item.CurrentStock.Equal(decimal.NewFromInt(15)))
	assert.False(t, out.Item.LowStock)
}

func TestAdjustStock_NegativoMarcaStockBajo(t *testing.T) {
	uc, _ := setup(t, "10", "5")
	out, err := uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		InventoryItemID: "X", Adjustment: decimal.NewFromInt(-6),
	})
	require.NoError(t, err)
	assert.True(t, out.StockAfter.Equal(decimal.NewFromInt(4)))
	assert.True(t, out.Item.LowStock)
}

func TestAdjustStock_NoPermiteNegativo(t *testing.T) {
	uc, store := setup(t, "3", "0")
	_, err := uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		InventoryItemID: "X", Adjustment: decimal.NewFromInt(-4),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	require.NoError(t, store.RunStock(context.Background(), func(r repository.InventoryItemRepository) error {
		it, err := r.GetByID(context.Background(), "X")
		require.NotNil(t, it)
		assert.True(t, it.CurrentStock.Equal(decimal.NewFromInt(3)))
		return err
	}))
}

func TestAdjustStock_Validaciones(t *testing.T) {
	uc, _ := setup(t, "3", "0")
	cases := map[string]inventory.AdjustStockInput{
		"sin id":       {Adjustment: decimal.NewFromInt(1)},
		"ajuste cero":  {InventoryItemID: "X"},
		"motivo largo": {InventoryItemID: "X", Adjustment: decimal.NewFromInt(1), Reason: strings.Repeat("x", 501)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.AdjustStock(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestAdjustStock_InsumoInexistente(t *testing.T) {
	uc, _ := setup(t, "3", "0")
	_, err := uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		InventoryItemID: "nope", Adjustment: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
