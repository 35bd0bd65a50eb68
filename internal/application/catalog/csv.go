package catalog

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encodings aceptados para el CSV de insumos.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
)

var requiredColumns = []string{"sku", "name", "current_stock"}

// ParseItemsCSV lee insumos desde un CSV con cabecera. Columnas: sku, name, current_stock
// (obligatorias) y unit, reorder_level, description. Acepta ';' o ',' como separador.
// Las planillas exportadas desde Excel en Windows suelen venir en windows-1252.
func ParseItemsCSV(r io.Reader, encoding string) ([]ItemInput, error) {
	switch strings.ToLower(encoding) {
	case "", EncodingUTF8:
	case EncodingWindows1252, "cp1252", "latin1":
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	default:
		return nil, fmt.Errorf("csv: encoding no soportado %q", encoding)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("csv: leer: %w", err)
	}
	content := strings.TrimPrefix(string(raw), "\ufeff")

	cr := csv.NewReader(strings.NewReader(content))
	cr.Comma = detectSeparator(content)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: archivo vacío")
		}
		return nil, fmt.Errorf("csv: cabecera: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("csv: falta la columna %q", c)
		}
	}

	var items []ItemInput
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: línea %d: %w", line, err)
		}
		get := func(col string) string {
			if i, ok := cols[col]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		stock, err := parseDecimal(get("current_stock"))
		if err != nil {
			return nil, fmt.Errorf("csv: línea %d: current_stock: %w", line, err)
		}
		reorder, err := parseDecimal(get("reorder_level"))
		if err != nil {
			return nil, fmt.Errorf("csv: línea %d: reorder_level: %w", line, err)
		}
		items = append(items, ItemInput{
			SKU:          get("sku"),
			Name:         get("name"),
			Description:  get("description"),
			Unit:         get("unit"),
			CurrentStock: stock,
			ReorderLevel: reorder,
		})
	}
	return items, nil
}

// ParseProductsJSON lee el arreglo de productos de products.json.
func ParseProductsJSON(r io.Reader) ([]ProductInput, error) {
	var out []ProductInput
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("json: productos: %w", err)
	}
	return out, nil
}

func detectSeparator(content string) rune {
	first, _, _ := strings.Cut(content, "\n")
	if strings.Count(first, ";") > strings.Count(first, ",") {
		return ';'
	}
	return ','
}

// parseDecimal acepta coma decimal ("2,5") cuando el separador de campos es ';'.
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}
