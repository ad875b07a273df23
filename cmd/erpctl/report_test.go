package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-core/internal/application/dto"
)

func TestPrintTrialBalance(t *testing.T) {
	var buf bytes.Buffer
	tb := &dto.TrialBalanceResponse{
		Rows: []dto.TrialBalanceRow{
			{Code: "1.1.01", Name: "Caja", TotalDebit: decimal.NewFromInt(100), DebitBalance: decimal.NewFromInt(100)},
			{Code: "4.1.01", Name: "Ventas", TotalCredit: decimal.NewFromInt(100), CreditBalance: decimal.NewFromInt(100)},
		},
		TotalDebit: decimal.NewFromInt(100), TotalCredit: decimal.NewFromInt(100),
		TotalDebitBalance: decimal.NewFromInt(100), TotalCreditBalance: decimal.NewFromInt(100),
		Balanced: true,
	}
	require.NoError(t, printTrialBalance(&buf, tb))
	out := buf.String()
	assert.Contains(t, out, "Caja")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "100.00")
	assert.NotContains(t, out, "ATENCIÓN")
}

func TestPrintStock(t *testing.T) {
	var buf bytes.Buffer
	st := &dto.StockResponse{
		ProductCode: "ART-2024-0001",
		Quantity:    2,
		Movements: []dto.StockMovementResponse{{
			Code: "MOV-2024-0002", ProductCode: "ART-2024-0001", Direction: "OUT",
			Quantity: 3, QuantityBefore: 5, QuantityAfter: 2, CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		}},
	}
	require.NoError(t, printStock(&buf, st))
	assert.Contains(t, buf.String(), "ART-2024-0001: 2 unidades")
	assert.Contains(t, buf.String(), "MOV-2024-0002")
}
