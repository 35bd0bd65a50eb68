package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto de concurrencia, reintente la operación")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// ValidationError describe una entrada mal formada. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye el error para el campo indicado.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Shortage faltante de un insumo para una corrida de fabricación.
type Shortage struct {
	InventoryItemID string
	Name            string
	SKU             string
	Unit            string
	Required        decimal.Decimal
	Available       decimal.Decimal
	Missing         decimal.Decimal
}

// InsufficientStockError rechazo de negocio con el detalle de cada faltante.
// errors.Is(err, ErrInsufficientStock) es true.
type InsufficientStockError struct {
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	if len(e.Shortages) == 0 {
		return ErrInsufficientStock.Error()
	}
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		name := s.Name
		if name == "" {
			name = s.InventoryItemID
		}
		parts = append(parts, fmt.Sprintf("%s (requerido %s, disponible %s)", name, s.Required.String(), s.Available.String()))
	}
	return ErrInsufficientStock.Error() + ": " + strings.Join(parts, ", ")
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }
