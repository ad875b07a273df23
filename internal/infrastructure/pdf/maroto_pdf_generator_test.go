package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jhoicas/erp-core/internal/application/billing"
	"github.com/jhoicas/erp-core/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0,00", formatMoney("0.00"))
	assert.Equal(t, "999,99", formatMoney("999.99"))
	assert.Equal(t, "25.000,50", formatMoney("25000.50"))
	assert.Equal(t, "-1.000.000,00", formatMoney("-1000000.00"))
	assert.Equal(t, "1.000", formatMoney("1000"))
}

func TestGenerateInvoicePDF(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	inv := &entity.Invoice{
		ID: "inv-1", Number: "FAC-2024-0007", IssueDate: now, DueDate: now.AddDate(0, 0, 30),
		CustomerID: "c-1", Currency: "ARS", TaxRate: decimal.NewFromInt(21),
		Subtotal: decimal.NewFromInt(1000), TaxAmount: decimal.NewFromInt(210), Total: decimal.NewFromInt(1210),
		AmountCollected: decimal.NewFromInt(210), BalanceDue: decimal.NewFromInt(1000),
		Status: entity.InvoiceStatusPartiallyPaid,
		Lines: []entity.InvoiceLine{{
			Position: 1, ProductCode: "ART-1", Description: "Tornillo", Quantity: 10,
			UnitPrice: decimal.NewFromInt(100), Subtotal: decimal.NewFromInt(1000),
		}},
	}
	doc := appbilling.InvoiceDocument{
		Invoice:     inv,
		Customer:    &entity.Customer{ID: "c-1", Name: "Ferretería Sur", TaxID: "30-71234567-8"},
		Collections: []*entity.Collection{{Number: "COB-2024-0001", Amount: decimal.NewFromInt(210), Method: "CASH", Date: now}},
	}

	g := NewMarotoPDFGenerator(Issuer{Name: "ERP Demo SA", TaxID: "30-00000000-0"})
	out, err := g.GenerateInvoicePDF(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = g.GenerateInvoicePDF(context.Background(), appbilling.InvoiceDocument{Invoice: inv})
	assert.Error(t, err)
}
