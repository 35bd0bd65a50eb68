//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Manufactura-api/pkg/config"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// Requiere una base real: TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/infrastructure/postgres/
func newLedger(t *testing.T) (*pgxpool.Pool, *postgres.TxRunner) {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definida")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.EnsureSchema(ctx, pool))
	return pool, postgres.NewTxRunner(pool)
}

func seedItem(t *testing.T, runner *postgres.TxRunner, stock int64) string {
	t.Helper()
	item := &entity.InventoryItem{
		SKU:          "IT-" + uuid.NewString(),
		Name:         "Insumo de integración",
		Unit:         "m",
		CurrentStock: decimal.NewFromInt(stock),
	}
	err := runner.RunStock(context.Background(), func(items repository.InventoryItemRepository) error {
		return items.Create(context.Background(), item)
	})
	require.NoError(t, err)
	return item.ID
}

func stockOf(t *testing.T, runner *postgres.TxRunner, id string) decimal.Decimal {
	t.Helper()
	var got *entity.InventoryItem
	err := runner.RunStock(context.Background(), func(items repository.InventoryItemRepository) error {
		var err error
		got, err = items.GetByID(context.Background(), id)
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	return got.CurrentStock
}

func TestLedger_DeductDentroDelStock(t *testing.T) {
	_, runner := newLedger(t)
	id := seedItem(t, runner, 10)

	var change repository.StockChange
	err := runner.RunStock(context.Background(), func(items repository.InventoryItemRepository) error {
		var err error
		change, err = items.Deduct(context.Background(), id, decimal.RequireFromString("2.5"))
		return err
	})
	require.NoError(t, err)
	assert.True(t, change.Before.Equal(decimal.NewFromInt(10)))
	assert.True(t, change.After.Equal(decimal.RequireFromString("7.5")))
	assert.True(t, stockOf(t, runner, id).Equal(decimal.RequireFromString("7.5")))
}

func TestLedger_DeductSobregiro_NoTocaElStock(t *testing.T) {
	_, runner := newLedger(t)
	id := seedItem(t, runner, 3)

	err := runner.RunStock(context.Background(), func(items repository.InventoryItemRepository) error {
		_, err := items.Deduct(context.Background(), id, decimal.NewFromInt(4))
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, stockOf(t, runner, id).Equal(decimal.NewFromInt(3)))
}

func TestLedger_AdjustNegativo(t *testing.T) {
	_, runner := newLedger(t)
	id := seedItem(t, runner, 5)

	err := runner.RunStock(context.Background(), func(items repository.InventoryItemRepository) error {
		_, err := items.Adjust(context.Background(), id, decimal.NewFromInt(-6))
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	err = runner.RunStock(context.Background(), func(items repository.InventoryItemRepository) error {
		_, err := items.Adjust(context.Background(), id, decimal.NewFromInt(-5))
		return err
	})
	require.NoError(t, err)
	assert.True(t, stockOf(t, runner, id).IsZero())
}

func TestLedger_InsumoInexistente(t *testing.T) {
	_, runner := newLedger(t)

	err := runner.RunStock(context.Background(), func(items repository.InventoryItemRepository) error {
		_, err := items.Deduct(context.Background(), uuid.NewString(), decimal.NewFromInt(1))
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = runner.RunStock(context.Background(), func(items repository.InventoryItemRepository) error {
		_, err := items.Adjust(context.Background(), uuid.NewString(), decimal.NewFromInt(1))
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_GetForUpdate_OmiteFaltantes(t *testing.T) {
	_, runner := newLedger(t)
	a := seedItem(t, runner, 1)
	b := seedItem(t, runner, 2)

	var got map[string]*entity.InventoryItem
	err := runner.RunStock(context.Background(), func(items repository.InventoryItemRepository) error {
		var err error
		got, err = items.GetForUpdate(context.Background(), []string{b, a, uuid.NewString()})
		return err
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[a].CurrentStock.Equal(decimal.NewFromInt(1)))
	assert.True(t, got[b].CurrentStock.Equal(decimal.NewFromInt(2)))
}

func TestLedger_ErrorEnElCallback_HaceRollback(t *testing.T) {
	_, runner := newLedger(t)
	a := seedItem(t, runner, 10)
	b := seedItem(t, runner, 1)
	boom := errors.New("fallo posterior")

	err := runner.RunStock(context.Background(), func(items repository.InventoryItemRepository) error {
		if _, err := items.Deduct(context.Background(), a, decimal.NewFromInt(4)); err != nil {
			return err
		}
		if _, err := items.Deduct(context.Background(), b, decimal.NewFromInt(2)); err != nil {
			return err
		}
		return boom
	})
	require.Error(t, err)
	assert.True(t, stockOf(t, runner, a).Equal(decimal.NewFromInt(10)), "el primer descuento debe revertirse")
	assert.True(t, stockOf(t, runner, b).Equal(decimal.NewFromInt(1)))
}

func TestLedger_CorridasConcurrentes_NuncaQuedaStockNegativo(t *testing.T) {
	_, runner := newLedger(t)
	x := seedItem(t, runner, 10)
	y := seedItem(t, runner, 10)

	// Orden de la BOM invertido respecto al de los ids: el bloqueo ordenado evita el interbloqueo.
	product := &entity.Product{
		SKU:  "PR-" + uuid.NewString(),
		Name: "Producto de integración",
		BOM: []entity.BOMLine{
			{InventoryItemID: y, QuantityRequired: decimal.NewFromInt(1)},
			{InventoryItemID: x, QuantityRequired: decimal.NewFromInt(3)},
		},
	}
	err := runner.RunCatalog(context.Background(), func(products repository.ProductRepository, _ repository.InventoryItemRepository) error {
		return products.Create(context.Background(), product)
	})
	require.NoError(t, err)

	uc := manufacturing.NewUseCase(runner, nil, logger.Nop(), manufacturing.LogLimits{Default: 100, Max: 500})

	const runs = 8
	results := make([]error, runs)
	var g errgroup.Group
	for i := 0; i < runs; i++ {
		i := i
		g.Go(func() error {
			_, results[i] = uc.Manufacture(context.Background(), manufacturing.ManufactureInput{
				ProductID:        product.ID,
				QuantityProduced: 1,
				ManufacturedBy:   "integración",
			})
			return nil
		})
	}
	require.NoError(t, g.Wait())

	ok := 0
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrConflict):
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	// 10 / 3 = 3 corridas como máximo.
	assert.LessOrEqual(t, ok, 3)
	assert.Positive(t, ok)

	stockX := stockOf(t, runner, x)
	stockY := stockOf(t, runner, y)
	assert.False(t, stockX.IsNegative())
	assert.True(t, stockX.Equal(decimal.NewFromInt(int64(10-3*ok))))
	assert.True(t, stockY.Equal(decimal.NewFromInt(int64(10-ok))))
}
