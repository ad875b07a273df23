package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// Defaults valores por defecto de facturación (IVA, moneda y vencimiento).
type Defaults struct {
	TaxRate  decimal.Decimal // porcentaje
	Currency string
	DueDays  int
}

// InvoiceDocument datos que necesita la representación gráfica de una factura.
type InvoiceDocument struct {
	Invoice     *entity.Invoice
	Customer    *entity.Customer
	Collections []*entity.Collection
	CreditNotes []*entity.CreditNote
}

// InvoicePDFGenerator genera el PDF de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}
