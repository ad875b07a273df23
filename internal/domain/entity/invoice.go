package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de cobro de una factura.
const (
	InvoiceStatusIssued        = "ISSUED"
	InvoiceStatusPartiallyPaid = "PARTIALLY_PAID"
	InvoiceStatusPaid          = "PAID"
	InvoiceStatusVoid          = "VOID"
)

var legacyInvoiceStatus = map[string]string{
	"pendiente":       InvoiceStatusIssued,
	"emitida":         InvoiceStatusIssued,
	"cobrada_parcial": InvoiceStatusPartiallyPaid,
	"cobrada":         InvoiceStatusPaid,
	"anulada":         InvoiceStatusVoid,
}

// ParseInvoiceStatus acepta el estado canónico o el heredado (pendiente, cobrada, ...).
func ParseInvoiceStatus(s string) (string, bool) {
	if st, ok := legacyInvoiceStatus[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, true
	}
	switch st := strings.ToUpper(strings.TrimSpace(s)); st {
	case InvoiceStatusIssued, InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusVoid:
		return st, true
	}
	return "", false
}

// Invoice factura emitida. AmountCollected incluye cobros y notas de crédito aplicadas;
// AmountCredited es la parte que proviene de notas de crédito.
type Invoice struct {
	ID              string
	Number          string // FAC-AAAA-NNNN
	IssueDate       time.Time
	DueDate         time.Time
	CustomerID      string
	SaleID          string // vacío si se emitió sin venta
	Currency        string
	Lines           []InvoiceLine
	Subtotal        decimal.Decimal
	TaxRate         decimal.Decimal // porcentaje
	TaxAmount       decimal.Decimal
	Total           decimal.Decimal
	AmountCollected decimal.Decimal
	AmountCredited  decimal.Decimal
	BalanceDue      decimal.Decimal
	Status          string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsVoid indica si la factura fue anulada.
func (i *Invoice) IsVoid() bool { return i.Status == InvoiceStatusVoid }

// InvoiceLine línea de factura.
type InvoiceLine struct {
	ID          string
	InvoiceID   string
	Position    int
	ProductCode string
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}
