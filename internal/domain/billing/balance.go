// Package billing contiene la aritmética de saldos de facturas.
package billing

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// BalanceDue max(0, total - collected).
func BalanceDue(total, collected decimal.Decimal) decimal.Decimal {
	b := total.Sub(collected)
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}

// DeriveStatus estado de cobro como función de (total, cobrado, anulada).
func DeriveStatus(total, collected decimal.Decimal, voided bool) string {
	switch {
	case voided:
		return entity.InvoiceStatusVoid
	case BalanceDue(total, collected).LessThanOrEqual(decimal.Zero):
		return entity.InvoiceStatusPaid
	case collected.IsPositive():
		return entity.InvoiceStatusPartiallyPaid
	default:
		return entity.InvoiceStatusIssued
	}
}

// Recompute actualiza saldo y estado a partir de AmountCollected. Una factura anulada queda en saldo 0.
func Recompute(inv *entity.Invoice) {
	voided := inv.IsVoid()
	inv.Status = DeriveStatus(inv.Total, inv.AmountCollected, voided)
	if voided {
		inv.BalanceDue = decimal.Zero
		return
	}
	inv.BalanceDue = BalanceDue(inv.Total, inv.AmountCollected)
}

// LineSubtotal cantidad × precio redondeado a centavos.
func LineSubtotal(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity)).Round(2)
}

// Totals subtotal, impuesto (subtotal × rate/100) y total de un conjunto de líneas.
func Totals(lines []entity.InvoiceLine, rate decimal.Decimal) (subtotal, tax, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal)
	}
	tax = subtotal.Mul(rate).Div(hundred).Round(2)
	return subtotal, tax, subtotal.Add(tax)
}

// NormalizeCurrency valida un código ISO 4217; vacío devuelve fallback.
func NormalizeCurrency(code, fallback string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		code = fallback
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", domain.Validationf("moneda inválida: %q", code)
	}
	return unit.String(), nil
}

// CheckSettlement valida un cobro de amount en currency contra la factura, en el orden
// importe, anulada, cobrada, moneda, sobrepago.
func CheckSettlement(inv *entity.Invoice, amount decimal.Decimal, currency string) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if err := domain.CheckMoneyScale("importe", amount); err != nil {
		return err
	}
	if inv.IsVoid() {
		return domain.ErrInvoiceVoided
	}
	if inv.Status == entity.InvoiceStatusPaid {
		return domain.ErrInvoiceAlreadyPaid
	}
	if currency != inv.Currency {
		return domain.ErrCurrencyMismatch
	}
	if amount.GreaterThan(inv.BalanceDue) {
		return &domain.OverpaymentError{BalanceDue: inv.BalanceDue, Attempted: amount}
	}
	return nil
}
