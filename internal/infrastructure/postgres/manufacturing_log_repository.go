package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.ManufacturingLogRepository = (*ManufacturingLogRepo)(nil)

const logColumns = `l.id, l.product_id, l.product_name, l.product_sku, l.quantity_produced, l.width, l.height,
	l.rule_index, l.manufactured_by, l.notes, l.produced_at, l.created_at`

// ManufacturingLogRepo historial de corridas: una fila por corrida y una por descuento.
// Las tablas solo admiten INSERT (ver triggers en schema.sql).
type ManufacturingLogRepo struct {
	q Querier
}

// NewManufacturingLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewManufacturingLogRepository(q Querier) *ManufacturingLogRepo {
	return &ManufacturingLogRepo{q: q}
}

// Create inserta la corrida y sus descuentos en un solo batch.
func (r *ManufacturingLogRepo) Create(ctx context.Context, log *entity.ManufacturingLog) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO manufacturing_logs (id, product_id, product_name, product_sku, quantity_produced, width, height,
			rule_index, manufactured_by, notes, produced_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		log.ID, log.ProductID, log.ProductName, log.ProductSKU, log.QuantityProduced, log.Width, log.Height,
		log.RuleIndex, log.ManufacturedBy, log.Notes, log.Timestamp, log.CreatedAt,
	)
	for i, d := range log.Deductions {
		batch.Queue(`
			INSERT INTO manufacturing_log_deductions (log_id, position, inventory_item_id, item_name, item_sku, unit,
				quantity_deducted, stock_before, stock_after)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			log.ID, i, d.InventoryItemID, d.ItemName, d.ItemSKU, d.Unit,
			d.QuantityDeducted, d.StockBefore, d.StockAfter,
		)
	}

	br := r.q.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if isUniqueViolation(err) {
				return fmt.Errorf("registro %s: %w", log.ID, domain.ErrDuplicate)
			}
			return fmt.Errorf("create manufacturing log: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("create manufacturing log: %w", err)
	}
	return nil
}

// GetByID devuelve nil, nil si no existe.
func (r *ManufacturingLogRepo) GetByID(ctx context.Context, id string) (*entity.ManufacturingLog, error) {
	l, err := scanLog(r.q.QueryRow(ctx, `SELECT `+logColumns+` FROM manufacturing_logs l WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get manufacturing log: %w", err)
	}
	if err := r.attachDeductions(ctx, []*entity.ManufacturingLog{l}); err != nil {
		return nil, err
	}
	return l, nil
}

// List aplica los filtros y ordena del más reciente al más antiguo.
func (r *ManufacturingLogRepo) List(ctx context.Context, f entity.ManufacturingLogFilter) ([]*entity.ManufacturingLog, error) {
	query, args := buildLogQuery(f)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list manufacturing logs: %w", err)
	}
	var out []*entity.ManufacturingLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan manufacturing log: %w", err)
		}
		out = append(out, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachDeductions(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// buildLogQuery arma el SELECT con placeholders $n según los filtros presentes.
func buildLogQuery(f entity.ManufacturingLogFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.ProductID != "" {
		add("l.product_id = $%d", f.ProductID)
	}
	if f.InventoryItemID != "" {
		add("EXISTS (SELECT 1 FROM manufacturing_log_deductions d WHERE d.log_id = l.id AND d.inventory_item_id = $%d)", f.InventoryItemID)
	}
	if f.From != nil {
		add("l.produced_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("l.produced_at <= $%d", *f.To)
	}

	var b strings.Builder
	b.WriteString("SELECT " + logColumns + " FROM manufacturing_logs l")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY l.produced_at DESC, l.created_at DESC, l.id DESC")
	if f.Limit > 0 {
		args = append(args, f.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	return b.String(), args
}

func (r *ManufacturingLogRepo) attachDeductions(ctx context.Context, logs []*entity.ManufacturingLog) error {
	if len(logs) == 0 {
		return nil
	}
	byID := make(map[string]*entity.ManufacturingLog, len(logs))
	ids := make([]string, 0, len(logs))
	for _, l := range logs {
		byID[l.ID] = l
		ids = append(ids, l.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT log_id, inventory_item_id, item_name, item_sku, unit, quantity_deducted, stock_before, stock_after
		FROM manufacturing_log_deductions
		WHERE log_id = ANY($1)
		ORDER BY log_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list deductions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			logID string
			d     entity.InventoryDeduction
		)
		if err := rows.Scan(&logID, &d.InventoryItemID, &d.ItemName, &d.ItemSKU, &d.Unit,
			&d.QuantityDeducted, &d.StockBefore, &d.StockAfter); err != nil {
			return fmt.Errorf("scan deduction: %w", err)
		}
		if l, ok := byID[logID]; ok {
			l.Deductions = append(l.Deductions, d)
		}
	}
	return rows.Err()
}

func scanLog(row pgx.Row) (*entity.ManufacturingLog, error) {
	var l entity.ManufacturingLog
	err := row.Scan(
		&l.ID, &l.ProductID, &l.ProductName, &l.ProductSKU, &l.QuantityProduced, &l.Width, &l.Height,
		&l.RuleIndex, &l.ManufacturedBy, &l.Notes, &l.Timestamp, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
