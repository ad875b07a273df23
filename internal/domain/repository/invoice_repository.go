package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// InvoiceFilter filtros de listado de facturas.
type InvoiceFilter struct {
	CustomerID string
	Status     string
	Limit      int
	Offset     int
}

// CustomerOutstanding saldo pendiente agrupado por cliente.
type CustomerOutstanding struct {
	CustomerID string
	Currency   string
	Invoices   int
	BalanceDue decimal.Decimal
}

// InvoiceRepository puerto de facturas (cabecera + líneas).
type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	// UpdateSettlement persiste cobrado, acreditado, saldo y estado.
	UpdateSettlement(ctx context.Context, inv *entity.Invoice) error
	List(ctx context.Context, f InvoiceFilter) ([]*entity.Invoice, error)
	OutstandingByCustomer(ctx context.Context) ([]CustomerOutstanding, error)
}

// CreditNoteRepository puerto de notas de crédito.
type CreditNoteRepository interface {
	Create(ctx context.Context, n *entity.CreditNote) error
	GetByID(ctx context.Context, id string) (*entity.CreditNote, error)
	GetForUpdate(ctx context.Context, id string) (*entity.CreditNote, error)
	MarkApplied(ctx context.Context, id string, at time.Time) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.CreditNote, error)
}
