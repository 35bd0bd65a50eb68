package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

const itemColumns = `id, sku, name, description, unit, current_stock, reorder_level, created_at, updated_at`

// InventoryItemRepo libro de stock sobre PostgreSQL (usable con pool o tx).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

// Create persiste un insumo. SKU o ID repetido devuelve domain.ErrDuplicate.
func (r *InventoryItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	query := `
		INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.SKU, item.Name, item.Description, item.Unit,
		item.CurrentStock, item.ReorderLevel, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insumo %s: %w", item.SKU, domain.ErrDuplicate)
		}
		return fmt.Errorf("create inventory item: %w", err)
	}
	return nil
}

// GetByID devuelve nil, nil si no existe.
func (r *InventoryItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
}

// GetBySKU devuelve nil, nil si no existe.
func (r *InventoryItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE sku = $1`, sku)
}

func (r *InventoryItemRepo) getOne(ctx context.Context, query string, arg string) (*entity.InventoryItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return it, nil
}

// GetByIDs lectura sin bloqueo.
func (r *InventoryItemRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.InventoryItem, error) {
	return r.list(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = ANY($1)`, ids)
}

// GetForUpdate bloquea las filas hasta el fin de la tx. El ORDER BY fija el orden de
// adquisición de locks entre corridas concurrentes.
func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, ids []string) (map[string]*entity.InventoryItem, error) {
	return r.list(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
}

func (r *InventoryItemRepo) list(ctx context.Context, query string, ids []string) (map[string]*entity.InventoryItem, error) {
	out := make(map[string]*entity.InventoryItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		out[it.ID] = it
	}
	return out, rows.Err()
}

// Deduct resta quantity en una sola sentencia; la condición del WHERE impide dejar stock negativo.
func (r *InventoryItemRepo) Deduct(ctx context.Context, id string, quantity decimal.Decimal) (repository.StockChange, error) {
	if quantity.IsNegative() {
		return repository.StockChange{}, domain.NewValidationError("quantity", "no puede ser negativo")
	}
	query := `
		UPDATE inventory_items
		SET current_stock = current_stock - $2, updated_at = now()
		WHERE id = $1 AND current_stock >= $2
		RETURNING current_stock + $2, current_stock`
	return r.change(ctx, query, id, quantity)
}

// Adjust suma delta (con signo) si el resultado no queda negativo.
func (r *InventoryItemRepo) Adjust(ctx context.Context, id string, delta decimal.Decimal) (repository.StockChange, error) {
	query := `
		UPDATE inventory_items
		SET current_stock = current_stock + $2, updated_at = now()
		WHERE id = $1 AND current_stock + $2 >= 0
		RETURNING current_stock - $2, current_stock`
	return r.change(ctx, query, id, delta)
}

func (r *InventoryItemRepo) change(ctx context.Context, query, id string, amount decimal.Decimal) (repository.StockChange, error) {
	var c repository.StockChange
	err := r.q.QueryRow(ctx, query, id, amount).Scan(&c.Before, &c.After)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return c, fmt.Errorf("update stock: %w", err)
	}
	// Cero filas: el insumo no existe o el stock no alcanza.
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM inventory_items WHERE id = $1)`, id).Scan(&exists); err != nil {
		return c, fmt.Errorf("check inventory item: %w", err)
	}
	if !exists {
		return c, fmt.Errorf("insumo %s: %w", id, domain.ErrNotFound)
	}
	return c, domain.ErrInsufficientStock
}

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := row.Scan(
		&it.ID, &it.SKU, &it.Name, &it.Description, &it.Unit,
		&it.CurrentStock, &it.ReorderLevel, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
