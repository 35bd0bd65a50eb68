package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Manufactura-api/internal/application/catalog"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var (
	_ manufacturing.TxRunner  = (*TxRunner)(nil)
	_ inventory.StockTxRunner = (*TxRunner)(nil)
	_ catalog.TxRunner        = (*TxRunner)(nil)
)

var (
	writeTx    = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	readOnlyTx = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Los insumos se bloquean con SELECT ... FOR UPDATE y el descuento es un UPDATE condicional,
// así que READ COMMITTED basta para que dos corridas no descuenten el mismo stock.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción de escritura, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	itemRepo repository.InventoryItemRepository,
	logRepo repository.ManufacturingLogRepository,
) error) error {
	return r.inTx(ctx, writeTx, func(tx pgx.Tx) error {
		return fn(NewProductRepository(tx), NewInventoryItemRepository(tx), NewManufacturingLogRepository(tx))
	})
}

// RunReadOnly snapshot consistente (REPEATABLE READ, READ ONLY).
func (r *TxRunner) RunReadOnly(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	itemRepo repository.InventoryItemRepository,
	logRepo repository.ManufacturingLogRepository,
) error) error {
	return r.inTx(ctx, readOnlyTx, func(tx pgx.Tx) error {
		return fn(NewProductRepository(tx), NewInventoryItemRepository(tx), NewManufacturingLogRepository(tx))
	})
}

// RunStock transacción de escritura solo con el libro de stock (ajustes manuales, carga inicial).
func (r *TxRunner) RunStock(ctx context.Context, fn func(itemRepo repository.InventoryItemRepository) error) error {
	return r.inTx(ctx, writeTx, func(tx pgx.Tx) error {
		return fn(NewInventoryItemRepository(tx))
	})
}

// RunCatalog transacción para la carga de catálogo (insumos y productos).
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	itemRepo repository.InventoryItemRepository,
) error) error {
	return r.inTx(ctx, writeTx, func(tx pgx.Tx) error {
		return fn(NewProductRepository(tx), NewInventoryItemRepository(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, opts pgx.TxOptions, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return mapTxError(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return mapTxError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapTxError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
