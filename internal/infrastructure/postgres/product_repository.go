package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, description, bom, has_conditional_rules, conditional_rules, total_manufactured, created_at, updated_at`

// ProductRepo productos con BOM y reglas en columnas JSONB.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste el producto. SKU o ID repetido devuelve domain.ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	bom, err := json.Marshal(nonNilLines(p.BOM))
	if err != nil {
		return fmt.Errorf("marshal bom: %w", err)
	}
	rules := p.ConditionalRules
	if rules == nil {
		rules = []entity.ConditionalRule{}
	}
	rulesJSON, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("marshal conditional rules: %w", err)
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.Description, bom, p.HasConditionalRules, rulesJSON,
		p.TotalManufactured, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("producto %s: %w", p.SKU, domain.ErrDuplicate)
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// GetByID devuelve nil, nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetBySKU devuelve nil, nil si no existe.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
}

func (r *ProductRepo) getOne(ctx context.Context, query, arg string) (*entity.Product, error) {
	var (
		p         entity.Product
		bom       []byte
		rulesJSON []byte
	)
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &bom, &p.HasConditionalRules, &rulesJSON,
		&p.TotalManufactured, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := json.Unmarshal(bom, &p.BOM); err != nil {
		return nil, fmt.Errorf("producto %s: bom inválida: %w", p.ID, err)
	}
	if err := json.Unmarshal(rulesJSON, &p.ConditionalRules); err != nil {
		return nil, fmt.Errorf("producto %s: reglas inválidas: %w", p.ID, err)
	}
	return &p, nil
}

// IncrementManufactured suma quantity a total_manufactured.
func (r *ProductRepo) IncrementManufactured(ctx context.Context, id string, quantity int) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE products
		SET total_manufactured = total_manufactured + $2, updated_at = now()
		WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("increment manufactured: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func nonNilLines(lines []entity.BOMLine) []entity.BOMLine {
	if lines == nil {
		return []entity.BOMLine{}
	}
	return lines
}
