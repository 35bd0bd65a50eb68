// Package catalog carga insumos y productos (con su BOM) en el almacenamiento.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// ItemInput un insumo a cargar.
type ItemInput struct {
	SKU          string
	Name         string
	Description  string
	Unit         string
	CurrentStock decimal.Decimal
	ReorderLevel decimal.Decimal
}

// LineInput línea de BOM que referencia el insumo por SKU.
type LineInput struct {
	ItemSKU          string          `json:"item_sku"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
}

// RuleInput regla condicional con líneas por SKU.
type RuleInput struct {
	ConditionType   entity.ConditionType `json:"condition_type"`
	Operator        entity.Operator      `json:"operator"`
	WidthThreshold  *decimal.Decimal     `json:"width_threshold,omitempty"`
	HeightThreshold *decimal.Decimal     `json:"height_threshold,omitempty"`
	Items           []LineInput          `json:"inventory_items"`
}

// ProductInput producto tal como viene en products.json.
type ProductInput struct {
	SKU                 string      `json:"sku"`
	Name                string      `json:"name"`
	Description         string      `json:"description,omitempty"`
	BOM                 []LineInput `json:"bom"`
	HasConditionalRules bool        `json:"has_conditional_rules"`
	ConditionalRules    []RuleInput `json:"conditional_rules,omitempty"`
}

// Result conteo de lo insertado y lo omitido por existir ya el SKU.
type Result struct {
	ItemsCreated    int
	ItemsSkipped    int
	ProductsCreated int
	ProductsSkipped int
}

// ImportUseCase carga el catálogo en una sola transacción: o entra todo o nada.
type ImportUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(txRunner TxRunner, log *logger.Logger) *ImportUseCase {
	return &ImportUseCase{txRunner: txRunner, log: log.Component("catalog")}
}

// Import inserta los insumos y productos cuyo SKU no exista todavía.
func (uc *ImportUseCase) Import(ctx context.Context, items []ItemInput, products []ProductInput) (Result, error) {
	var res Result
	err := uc.txRunner.RunCatalog(ctx, func(productRepo repository.ProductRepository, itemRepo repository.InventoryItemRepository) error {
		res = Result{}
		for i, in := range items {
			created, err := importItem(ctx, itemRepo, in)
			if err != nil {
				return fmt.Errorf("insumo #%d (%s): %w", i+1, in.SKU, err)
			}
			if created {
				res.ItemsCreated++
			} else {
				res.ItemsSkipped++
			}
		}

		ids := skuResolver{repo: itemRepo, cache: map[string]string{}}
		for i, in := range products {
			created, err := importProduct(ctx, productRepo, &ids, in)
			if err != nil {
				return fmt.Errorf("producto #%d (%s): %w", i+1, in.SKU, err)
			}
			if created {
				res.ProductsCreated++
			} else {
				res.ProductsSkipped++
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	uc.log.Info().
		Int("items_created", res.ItemsCreated).
		Int("items_skipped", res.ItemsSkipped).
		Int("products_created", res.ProductsCreated).
		Int("products_skipped", res.ProductsSkipped).
		Msg("catálogo cargado")
	return res, nil
}

func importItem(ctx context.Context, repo repository.InventoryItemRepository, in ItemInput) (bool, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.SKU == "":
		return false, domain.NewValidationError("sku", "requerido")
	case in.Name == "":
		return false, domain.NewValidationError("name", "requerido")
	case in.CurrentStock.IsNegative():
		return false, domain.NewValidationError("current_stock", "no puede ser negativo")
	case in.ReorderLevel.IsNegative():
		return false, domain.NewValidationError("reorder_level", "no puede ser negativo")
	}

	existing, err := repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	err = repo.Create(ctx, &entity.InventoryItem{
		SKU:          in.SKU,
		Name:         in.Name,
		Description:  strings.TrimSpace(in.Description),
		Unit:         strings.TrimSpace(in.Unit),
		CurrentStock: in.CurrentStock,
		ReorderLevel: in.ReorderLevel,
	})
	return err == nil, err
}

func importProduct(ctx context.Context, repo repository.ProductRepository, ids *skuResolver, in ProductInput) (bool, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	if in.SKU == "" {
		return false, domain.NewValidationError("sku", "requerido")
	}
	existing, err := repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	bom, err := ids.lines(ctx, in.BOM)
	if err != nil {
		return false, err
	}
	p := &entity.Product{
		SKU:                 in.SKU,
		Name:                strings.TrimSpace(in.Name),
		Description:         strings.TrimSpace(in.Description),
		BOM:                 bom,
		HasConditionalRules: in.HasConditionalRules,
	}
	for _, r := range in.ConditionalRules {
		lines, err := ids.lines(ctx, r.Items)
		if err != nil {
			return false, err
		}
		p.ConditionalRules = append(p.ConditionalRules, entity.ConditionalRule{
			ConditionType:   r.ConditionType,
			Operator:        r.Operator,
			WidthThreshold:  r.WidthThreshold,
			HeightThreshold: r.HeightThreshold,
			Items:           lines,
		})
	}
	if err := p.Validate(); err != nil {
		return false, fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
	}
	if err := repo.Create(ctx, p); err != nil {
		return false, err
	}
	return true, nil
}

// skuResolver traduce SKU de insumo a ID dentro de la transacción de carga.
type skuResolver struct {
	repo  repository.InventoryItemRepository
	cache map[string]string
}

func (s *skuResolver) lines(ctx context.Context, in []LineInput) ([]entity.BOMLine, error) {
	out := make([]entity.BOMLine, 0, len(in))
	for _, l := range in {
		id, err := s.id(ctx, strings.TrimSpace(l.ItemSKU))
		if err != nil {
			return nil, err
		}
		out = append(out, entity.BOMLine{InventoryItemID: id, QuantityRequired: l.QuantityRequired})
	}
	return out, nil
}

func (s *skuResolver) id(ctx context.Context, sku string) (string, error) {
	if id, ok := s.cache[sku]; ok {
		return id, nil
	}
	item, err := s.repo.GetBySKU(ctx, sku)
	if err != nil {
		return "", err
	}
	if item == nil {
		return "", fmt.Errorf("insumo con SKU %q: %w", sku, domain.ErrNotFound)
	}
	s.cache[sku] = item.ID
	return item.ID, nil
}
