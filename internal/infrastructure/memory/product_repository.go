package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria atados a una transacción.
type ProductRepo struct {
	t *tx
}

// Create inserta un producto. SKU duplicado devuelve domain.ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	if r.t.readOnly {
		return errReadOnly
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.ID = strings.Clone(product.ID)
	if _, ok := r.t.product(product.ID); ok {
		return domain.ErrDuplicate
	}
	if existing, _ := r.GetBySKU(ctx, product.SKU); existing != nil {
		return domain.ErrDuplicate
	}
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	r.t.products[product.ID] = cloneProduct(*product)
	return nil
}

// GetByID devuelve nil, nil si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.t.product(id)
	if !ok {
		return nil, nil
	}
	c := cloneProduct(p)
	return &c, nil
}

// GetBySKU devuelve nil, nil si no existe.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	for id := range r.t.products {
		if r.t.products[id].SKU == sku {
			return r.GetByID(ctx, id)
		}
	}
	for id, p := range r.t.s.products {
		if _, staged := r.t.products[id]; !staged && p.SKU == sku {
			return r.GetByID(ctx, id)
		}
	}
	return nil, nil
}

// IncrementManufactured suma quantity al contador del producto.
func (r *ProductRepo) IncrementManufactured(_ context.Context, id string, quantity int) error {
	if r.t.readOnly {
		return errReadOnly
	}
	p, ok := r.t.product(id)
	if !ok {
		return fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	p.TotalManufactured += int64(quantity)
	p.UpdatedAt = time.Now().UTC()
	r.t.products[p.ID] = p
	return nil
}

func cloneProduct(p entity.Product) entity.Product {
	p.BOM = append([]entity.BOMLine(nil), p.BOM...)
	rules := make([]entity.ConditionalRule, len(p.ConditionalRules))
	for i, r := range p.ConditionalRules {
		r.Items = append([]entity.BOMLine(nil), r.Items...)
		rules[i] = r
	}
	p.ConditionalRules = rules
	return p
}
