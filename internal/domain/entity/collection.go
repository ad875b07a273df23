package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Medios de pago.
const (
	PaymentMethodCash     = "CASH"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodCard     = "CARD"
	PaymentMethodCheck    = "CHECK"
)

// ParsePaymentMethod normaliza el medio de pago; vacío equivale a efectivo.
func ParsePaymentMethod(s string) (string, bool) {
	switch m := strings.ToUpper(strings.TrimSpace(s)); m {
	case "", PaymentMethodCash, "EFECTIVO":
		return PaymentMethodCash, true
	case PaymentMethodTransfer, "TRANSFERENCIA":
		return PaymentMethodTransfer, true
	case PaymentMethodCard, "TARJETA":
		return PaymentMethodCard, true
	case PaymentMethodCheck, "CHEQUE":
		return PaymentMethodCheck, true
	}
	return "", false
}

// Collection cobro de un cliente contra una factura.
// BankAccountID solo se informa cuando el cobro acreditó la cuenta bancaria.
type Collection struct {
	ID            string
	Number        string // COB-AAAA-NNNN
	InvoiceID     string
	CustomerID    string
	Amount        decimal.Decimal
	Currency      string
	Method        string
	BankAccountID string
	Reference     string
	Date          time.Time
	Voided        bool
	VoidedAt      *time.Time
	CreatedAt     time.Time
}
