package billing_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/billing"
	"github.com/jhoicas/erp-core/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, entity.InvoiceStatusIssued, billing.DeriveStatus(d("1000"), d("0"), false))
	assert.Equal(t, entity.InvoiceStatusPartiallyPaid, billing.DeriveStatus(d("1000"), d("600"), false))
	assert.Equal(t, entity.InvoiceStatusPaid, billing.DeriveStatus(d("1000"), d("1000"), false))
	assert.Equal(t, entity.InvoiceStatusVoid, billing.DeriveStatus(d("1000"), d("600"), true))
}

func TestRecompute_SaldoNuncaNegativo(t *testing.T) {
	inv := &entity.Invoice{Total: d("1000"), AmountCollected: d("1200"), Status: entity.InvoiceStatusIssued}
	billing.Recompute(inv)
	assert.True(t, inv.BalanceDue.IsZero())
	assert.Equal(t, entity.InvoiceStatusPaid, inv.Status)

	inv = &entity.Invoice{Total: d("1000"), AmountCollected: d("300"), Status: entity.InvoiceStatusVoid}
	billing.Recompute(inv)
	assert.True(t, inv.BalanceDue.IsZero())
	assert.Equal(t, entity.InvoiceStatusVoid, inv.Status)
}

func TestTotals_IVA21(t *testing.T) {
	lines := []entity.InvoiceLine{
		{Quantity: 2, UnitPrice: d("150.50"), Subtotal: billing.LineSubtotal(2, d("150.50"))},
		{Quantity: 1, UnitPrice: d("99.99"), Subtotal: billing.LineSubtotal(1, d("99.99"))},
	}
	sub, tax, total := billing.Totals(lines, d("21"))
	assert.Equal(t, "400.99", sub.StringFixed(2))
	assert.Equal(t, "84.21", tax.StringFixed(2))
	assert.Equal(t, "485.20", total.StringFixed(2))
}

func TestNormalizeCurrency(t *testing.T) {
	c, err := billing.NormalizeCurrency("usd", "ARS")
	require.NoError(t, err)
	assert.Equal(t, "USD", c)

	c, err = billing.NormalizeCurrency("", "ARS")
	require.NoError(t, err)
	assert.Equal(t, "ARS", c)

	_, err = billing.NormalizeCurrency("XXQ", "ARS")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCheckSettlement_OrdenDeGuardas(t *testing.T) {
	inv := &entity.Invoice{Total: d("1000"), BalanceDue: d("400"), AmountCollected: d("600"),
		Currency: "ARS", Status: entity.InvoiceStatusPartiallyPaid}

	assert.ErrorIs(t, billing.CheckSettlement(inv, d("0"), "USD"), domain.ErrInvalidAmount)
	assert.ErrorIs(t, billing.CheckSettlement(inv, d("10"), "USD"), domain.ErrCurrencyMismatch)
	assert.NoError(t, billing.CheckSettlement(inv, d("400"), "ARS"))

	var over *domain.OverpaymentError
	require.True(t, errors.As(billing.CheckSettlement(inv, d("400.01"), "ARS"), &over))
	assert.Equal(t, "400.00", over.BalanceDue.StringFixed(2))

	paid := *inv
	paid.Status = entity.InvoiceStatusPaid
	assert.ErrorIs(t, billing.CheckSettlement(&paid, d("1"), "USD"), domain.ErrInvoiceAlreadyPaid)

	void := *inv
	void.Status = entity.InvoiceStatusVoid
	assert.ErrorIs(t, billing.CheckSettlement(&void, d("1"), "ARS"), domain.ErrInvoiceVoided)
}
