package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// VendorPayment pago a proveedor debitado de una cuenta bancaria.
type VendorPayment struct {
	ID            string
	Number        string // PAG-AAAA-NNNN
	VendorID      string
	BankAccountID string
	Amount        decimal.Decimal
	Method        string
	Concept       string
	Reference     string
	Date          time.Time
	Voided        bool
	VoidedAt      *time.Time
	CreatedAt     time.Time
}
