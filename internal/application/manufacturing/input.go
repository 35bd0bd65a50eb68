package manufacturing

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

const (
	maxManufacturedByLen = 100
	maxNotesLen          = 1000
	maxQuantity          = math.MaxInt32 // columna INTEGER
)

// ManufactureInput entrada para registrar una corrida de fabricación.
// Width/Height nil equivalen a 0.
type ManufactureInput struct {
	ProductID        string
	QuantityProduced int
	Width            *decimal.Decimal
	Height           *decimal.Decimal
	ManufacturedBy   string
	Notes            string
}

// AvailabilityInput entrada para verificar disponibilidad.
type AvailabilityInput struct {
	ProductID string
	Quantity  int
	Width     *decimal.Decimal
	Height    *decimal.Decimal
}

// LogQuery filtros para consultar el historial.
type LogQuery struct {
	ProductID       string
	InventoryItemID string
	From            *time.Time
	To              *time.Time
	Limit           int
}

func (in *ManufactureInput) normalize() (entity.Dimensions, error) {
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.ManufacturedBy = strings.TrimSpace(in.ManufacturedBy)
	in.Notes = strings.TrimSpace(in.Notes)
	if err := validateRun(in.ProductID, in.QuantityProduced, "quantity_produced"); err != nil {
		return entity.Dimensions{}, err
	}
	if utf8.RuneCountInString(in.ManufacturedBy) > maxManufacturedByLen {
		return entity.Dimensions{}, domain.NewValidationError("manufactured_by", "máximo 100 caracteres")
	}
	if utf8.RuneCountInString(in.Notes) > maxNotesLen {
		return entity.Dimensions{}, domain.NewValidationError("notes", "máximo 1000 caracteres")
	}
	return dimensions(in.Width, in.Height)
}

func (in *AvailabilityInput) normalize() (entity.Dimensions, error) {
	in.ProductID = strings.TrimSpace(in.ProductID)
	if err := validateRun(in.ProductID, in.Quantity, "quantity"); err != nil {
		return entity.Dimensions{}, err
	}
	return dimensions(in.Width, in.Height)
}

func validateRun(productID string, quantity int, quantityField string) error {
	if productID == "" {
		return domain.NewValidationError("product_id", "requerido")
	}
	if quantity < 1 {
		return domain.NewValidationError(quantityField, "debe ser un entero mayor o igual a 1")
	}
	if quantity > maxQuantity {
		return domain.NewValidationError(quantityField, "no puede superar "+strconv.Itoa(maxQuantity))
	}
	return nil
}

func dimensions(width, height *decimal.Decimal) (entity.Dimensions, error) {
	var d entity.Dimensions
	if width != nil {
		if width.IsNegative() {
			return d, domain.NewValidationError("width", "no puede ser negativo")
		}
		d.Width = *width
	}
	if height != nil {
		if height.IsNegative() {
			return d, domain.NewValidationError("height", "no puede ser negativo")
		}
		d.Height = *height
	}
	return d, nil
}
