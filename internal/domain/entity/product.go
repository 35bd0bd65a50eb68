package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ConditionType dimensión(es) que evalúa una regla condicional.
// El valor cero no es válido: toda regla debe declarar su tipo.
type ConditionType uint8

const (
	ConditionWidth ConditionType = iota + 1
	ConditionHeight
	ConditionBoth
)

var conditionTypeNames = map[ConditionType]string{
	ConditionWidth:  "width",
	ConditionHeight: "height",
	ConditionBoth:   "both",
}

// ParseConditionType convierte "width" | "height" | "both" al tipo.
func ParseConditionType(s string) (ConditionType, error) {
	for k, v := range conditionTypeNames {
		if v == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("tipo de condición desconocido: %q", s)
}

func (c ConditionType) String() string {
	if s, ok := conditionTypeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("ConditionType(%d)", uint8(c))
}

// Valid indica si es uno de los tipos declarados.
func (c ConditionType) Valid() bool {
	_, ok := conditionTypeNames[c]
	return ok
}

func (c ConditionType) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("tipo de condición inválido: %d", uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *ConditionType) UnmarshalText(b []byte) error {
	v, err := ParseConditionType(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Operator comparación aplicada entre la dimensión y su umbral.
type Operator uint8

const (
	OperatorGreaterThan Operator = iota + 1
	OperatorLessThan
	OperatorEqualTo
)

var operatorNames = map[Operator]string{
	OperatorGreaterThan: "greater_than",
	OperatorLessThan:    "less_than",
	OperatorEqualTo:     "equal_to",
}

// ParseOperator convierte "greater_than" | "less_than" | "equal_to" al operador.
func ParseOperator(s string) (Operator, error) {
	for k, v := range operatorNames {
		if v == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("operador desconocido: %q", s)
}

func (o Operator) String() string {
	if s, ok := operatorNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Operator(%d)", uint8(o))
}

func (o Operator) Valid() bool {
	_, ok := operatorNames[o]
	return ok
}

func (o Operator) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("operador inválido: %d", uint8(o))
	}
	return []byte(o.String()), nil
}

func (o *Operator) UnmarshalText(b []byte) error {
	v, err := ParseOperator(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Compare aplica el operador a value frente a threshold. Operadores inválidos nunca coinciden.
func (o Operator) Compare(value, threshold decimal.Decimal) bool {
	switch o {
	case OperatorGreaterThan:
		return value.GreaterThan(threshold)
	case OperatorLessThan:
		return value.LessThan(threshold)
	case OperatorEqualTo:
		return value.Equal(threshold)
	}
	return false
}

// BOMLine línea de la lista de materiales: cantidad de un insumo por unidad fabricada.
type BOMLine struct {
	InventoryItemID  string          `json:"inventory_item_id"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
}

// Dimensions medidas físicas de la corrida. Las no informadas valen 0.
type Dimensions struct {
	Width  decimal.Decimal
	Height decimal.Decimal
}

// IsZero true si ninguna dimensión fue informada (o ambas son 0).
func (d Dimensions) IsZero() bool {
	return d.Width.IsZero() && d.Height.IsZero()
}

// ConditionalRule sustituye la BOM por defecto cuando las dimensiones cumplen la condición.
type ConditionalRule struct {
	ConditionType   ConditionType    `json:"condition_type"`
	Operator        Operator         `json:"operator"`
	WidthThreshold  *decimal.Decimal `json:"width_threshold,omitempty"`
	HeightThreshold *decimal.Decimal `json:"height_threshold,omitempty"`
	Items           []BOMLine        `json:"inventory_items"`
}

// Matches evalúa la regla. Si falta el umbral de una dimensión referenciada, no coincide.
func (r ConditionalRule) Matches(d Dimensions) bool {
	switch r.ConditionType {
	case ConditionWidth:
		return r.WidthThreshold != nil && r.Operator.Compare(d.Width, *r.WidthThreshold)
	case ConditionHeight:
		return r.HeightThreshold != nil && r.Operator.Compare(d.Height, *r.HeightThreshold)
	case ConditionBoth:
		return r.WidthThreshold != nil && r.HeightThreshold != nil &&
			r.Operator.Compare(d.Width, *r.WidthThreshold) &&
			r.Operator.Compare(d.Height, *r.HeightThreshold)
	}
	return false
}

// Product producto fabricado con su BOM por defecto y reglas condicionales ordenadas.
// TotalManufactured solo lo incrementa una corrida de fabricación confirmada.
type Product struct {
	ID                  string
	SKU                 string // único
	Name                string
	Description         string
	BOM                 []BOMLine
	HasConditionalRules bool
	ConditionalRules    []ConditionalRule
	TotalManufactured   int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Validate verifica las invariantes de la BOM y de las reglas activas.
func (p *Product) Validate() error {
	if err := validateLines("bom", p.BOM); err != nil {
		return err
	}
	if !p.HasConditionalRules {
		return nil
	}
	for i, r := range p.ConditionalRules {
		field := fmt.Sprintf("conditional_rules[%d]", i)
		if !r.ConditionType.Valid() {
			return fmt.Errorf("%s: tipo de condición inválido", field)
		}
		if !r.Operator.Valid() {
			return fmt.Errorf("%s: operador inválido", field)
		}
		needWidth := r.ConditionType == ConditionWidth || r.ConditionType == ConditionBoth
		needHeight := r.ConditionType == ConditionHeight || r.ConditionType == ConditionBoth
		if needWidth && r.WidthThreshold == nil {
			return fmt.Errorf("%s: width_threshold requerido", field)
		}
		if needHeight && r.HeightThreshold == nil {
			return fmt.Errorf("%s: height_threshold requerido", field)
		}
		if err := validateLines(field+".inventory_items", r.Items); err != nil {
			return err
		}
	}
	return nil
}

func validateLines(field string, lines []BOMLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%s: se requiere al menos un insumo", field)
	}
	seen := make(map[string]struct{}, len(lines))
	for i, l := range lines {
		if l.InventoryItemID == "" {
			return fmt.Errorf("%s[%d]: inventory_item_id requerido", field, i)
		}
		if !l.QuantityRequired.IsPositive() {
			return fmt.Errorf("%s[%d]: quantity_required debe ser mayor que 0", field, i)
		}
		if _, dup := seen[l.InventoryItemID]; dup {
			return fmt.Errorf("%s[%d]: el insumo %s ya aparece en otra línea", field, i, l.InventoryItemID)
		}
		seen[l.InventoryItemID] = struct{}{}
	}
	return nil
}
