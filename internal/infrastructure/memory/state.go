package memory

import (
	"maps"
	"slices"

	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// state guarda valores, nunca punteros compartidos con el llamador. Los slices internos
// (movimientos, ítems, líneas) se reemplazan completos, nunca se modifican en el lugar.
type state struct {
	accounts        map[string]entity.Account
	entries         map[string]entity.JournalEntry
	entryOrder      []string
	stock           map[string]entity.StockRecord
	movements       []entity.StockMovement
	products        map[string]entity.Product
	customers       map[string]entity.Customer
	vendors         map[string]entity.Vendor
	sales           map[string]entity.Sale
	saleOrder       []string
	invoices        map[string]entity.Invoice
	invoiceOrder    []string
	creditNotes     map[string]entity.CreditNote
	creditNoteOrder []string
	collections     map[string]entity.Collection
	collectionOrder []string
	vendorPayments  map[string]entity.VendorPayment
	vendorPayOrder  []string
	bankAccounts    map[string]entity.BankAccount
	counters        map[string]int64
}

func newState() *state {
	return &state{
		accounts:       map[string]entity.Account{},
		entries:        map[string]entity.JournalEntry{},
		stock:          map[string]entity.StockRecord{},
		products:       map[string]entity.Product{},
		customers:      map[string]entity.Customer{},
		vendors:        map[string]entity.Vendor{},
		sales:          map[string]entity.Sale{},
		invoices:       map[string]entity.Invoice{},
		creditNotes:    map[string]entity.CreditNote{},
		collections:    map[string]entity.Collection{},
		vendorPayments: map[string]entity.VendorPayment{},
		bankAccounts:   map[string]entity.BankAccount{},
		counters:       map[string]int64{},
	}
}

func (s *state) clone() *state {
	return &state{
		accounts:        maps.Clone(s.accounts),
		entries:         maps.Clone(s.entries),
		entryOrder:      slices.Clone(s.entryOrder),
		stock:           maps.Clone(s.stock),
		movements:       slices.Clone(s.movements),
		products:        maps.Clone(s.products),
		customers:       maps.Clone(s.customers),
		vendors:         maps.Clone(s.vendors),
		sales:           maps.Clone(s.sales),
		saleOrder:       slices.Clone(s.saleOrder),
		invoices:        maps.Clone(s.invoices),
		invoiceOrder:    slices.Clone(s.invoiceOrder),
		creditNotes:     maps.Clone(s.creditNotes),
		creditNoteOrder: slices.Clone(s.creditNoteOrder),
		collections:     maps.Clone(s.collections),
		collectionOrder: slices.Clone(s.collectionOrder),
		vendorPayments:  maps.Clone(s.vendorPayments),
		vendorPayOrder:  slices.Clone(s.vendorPayOrder),
		bankAccounts:    maps.Clone(s.bankAccounts),
		counters:        maps.Clone(s.counters),
	}
}

func copyEntry(e entity.JournalEntry) *entity.JournalEntry {
	e.Movements = slices.Clone(e.Movements)
	return &e
}

func copySale(s entity.Sale) *entity.Sale {
	s.Items = slices.Clone(s.Items)
	if s.ConfirmedAt != nil {
		t := *s.ConfirmedAt
		s.ConfirmedAt = &t
	}
	return &s
}

func copyInvoice(i entity.Invoice) *entity.Invoice {
	i.Lines = slices.Clone(i.Lines)
	return &i
}

func copyCreditNote(n entity.CreditNote) *entity.CreditNote {
	n.Lines = slices.Clone(n.Lines)
	if n.AppliedAt != nil {
		t := *n.AppliedAt
		n.AppliedAt = &t
	}
	return &n
}

// page aplica offset/limit; limit <= 0 no recorta.
func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
