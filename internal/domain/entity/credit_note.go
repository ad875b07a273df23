package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditNote nota de crédito sobre una factura. Se aplica una sola vez.
type CreditNote struct {
	ID         string
	Number     string // NC-AAAA-NNNN
	InvoiceID  string
	CustomerID string
	Reason     string
	Lines      []InvoiceLine
	Subtotal   decimal.Decimal
	TaxAmount  decimal.Decimal
	Total      decimal.Decimal
	Applied    bool
	AppliedAt  *time.Time
	CreatedAt  time.Time
}
