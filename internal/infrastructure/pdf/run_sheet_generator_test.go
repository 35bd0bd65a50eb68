package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/pdf"
)

func TestGenerateRunSheet_DevuelvePDF(t *testing.T) {
	log := &entity.ManufacturingLog{
		ID:               "3f1c2b9a-0000-4000-8000-000000000001",
		ProductID:        "P",
		ProductName:      "Persiana enrollable",
		ProductSKU:       "PER-01",
		QuantityProduced: 3,
		Width:            decimal.RequireFromString("1.5"),
		RuleIndex:        0,
		Deductions: []entity.InventoryDeduction{{
			InventoryItemID:  "X",
			ItemName:         "Tela screen",
			ItemSKU:          "TELA-01",
			Unit:             "m",
			QuantityDeducted: decimal.RequireFromString("4.5"),
			StockBefore:      decimal.NewFromInt(10),
			StockAfter:       decimal.RequireFromString("5.5"),
		}},
		ManufacturedBy: "ana",
		Timestamp:      time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC),
	}

	out, err := pdf.NewRunSheetGenerator("Taller").GenerateRunSheet(context.Background(), log)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateRunSheet_SinDescuentosNiNotas(t *testing.T) {
	log := &entity.ManufacturingLog{
		ID:               "x",
		ProductName:      "Mesa",
		QuantityProduced: 1,
		RuleIndex:        entity.BOMSourceDefault,
		Timestamp:        time.Now().UTC(),
	}
	out, err := pdf.NewRunSheetGenerator("").GenerateRunSheet(context.Background(), log)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
