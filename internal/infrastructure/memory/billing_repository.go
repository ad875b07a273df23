package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository    = (*invoiceRepo)(nil)
	_ repository.CreditNoteRepository = (*creditNoteRepo)(nil)
	_ repository.CollectionRepository = (*collectionRepo)(nil)
)

func assignLineIDs(ownerID string, lines []entity.InvoiceLine) {
	for i := range lines {
		if lines[i].ID == "" {
			lines[i].ID = uuid.New().String()
		}
		lines[i].InvoiceID = ownerID
		lines[i].Position = i + 1
	}
}

type invoiceRepo struct{ a access }

func (r *invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	assignLineIDs(inv.ID, inv.Lines)
	return r.a.with(func(st *state) error {
		for _, existing := range st.invoices {
			if existing.Number == inv.Number {
				return domain.Validationf("número de factura duplicado: %s", inv.Number)
			}
			if inv.SaleID != "" && existing.SaleID == inv.SaleID {
				return domain.Validationf("la venta %s ya fue facturada", inv.SaleID)
			}
		}
		st.invoices[inv.ID] = *copyInvoice(*inv)
		st.invoiceOrder = append(st.invoiceOrder, inv.ID)
		return nil
	})
}

func (r *invoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.a.with(func(st *state) error {
		if inv, ok := st.invoices[id]; ok {
			out = copyInvoice(inv)
		}
		return nil
	})
	return out, err
}

func (r *invoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *invoiceRepo) UpdateSettlement(_ context.Context, inv *entity.Invoice) error {
	return r.a.with(func(st *state) error {
		cur, ok := st.invoices[inv.ID]
		if !ok {
			return domain.ErrInvoiceNotFound
		}
		cur.AmountCollected = inv.AmountCollected
		cur.AmountCredited = inv.AmountCredited
		cur.BalanceDue = inv.BalanceDue
		cur.Status = inv.Status
		cur.UpdatedAt = inv.UpdatedAt
		st.invoices[inv.ID] = cur
		return nil
	})
}

func (r *invoiceRepo) List(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	err := r.a.with(func(st *state) error {
		for i := len(st.invoiceOrder) - 1; i >= 0; i-- {
			inv := st.invoices[st.invoiceOrder[i]]
			if f.CustomerID != "" && inv.CustomerID != f.CustomerID {
				continue
			}
			if f.Status != "" && inv.Status != f.Status {
				continue
			}
			out = append(out, copyInvoice(inv))
		}
		return nil
	})
	return page(out, f.Limit, f.Offset), err
}

func (r *invoiceRepo) OutstandingByCustomer(_ context.Context) ([]repository.CustomerOutstanding, error) {
	type key struct{ customer, currency string }
	acc := map[key]*repository.CustomerOutstanding{}
	err := r.a.with(func(st *state) error {
		for _, inv := range st.invoices {
			if inv.IsVoid() || !inv.BalanceDue.IsPositive() {
				continue
			}
			k := key{inv.CustomerID, inv.Currency}
			row, ok := acc[k]
			if !ok {
				row = &repository.CustomerOutstanding{CustomerID: inv.CustomerID, Currency: inv.Currency, BalanceDue: decimal.Zero}
				acc[k] = row
			}
			row.Invoices++
			row.BalanceDue = row.BalanceDue.Add(inv.BalanceDue)
		}
		return nil
	})
	out := make([]repository.CustomerOutstanding, 0, len(acc))
	for _, row := range acc {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CustomerID != out[j].CustomerID {
			return out[i].CustomerID < out[j].CustomerID
		}
		return out[i].Currency < out[j].Currency
	})
	return out, err
}

type creditNoteRepo struct{ a access }

func (r *creditNoteRepo) Create(_ context.Context, n *entity.CreditNote) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	assignLineIDs(n.ID, n.Lines)
	return r.a.with(func(st *state) error {
		st.creditNotes[n.ID] = *copyCreditNote(*n)
		st.creditNoteOrder = append(st.creditNoteOrder, n.ID)
		return nil
	})
}

func (r *creditNoteRepo) GetByID(_ context.Context, id string) (*entity.CreditNote, error) {
	var out *entity.CreditNote
	err := r.a.with(func(st *state) error {
		if n, ok := st.creditNotes[id]; ok {
			out = copyCreditNote(n)
		}
		return nil
	})
	return out, err
}

func (r *creditNoteRepo) GetForUpdate(ctx context.Context, id string) (*entity.CreditNote, error) {
	return r.GetByID(ctx, id)
}

func (r *creditNoteRepo) MarkApplied(_ context.Context, id string, at time.Time) error {
	return r.a.with(func(st *state) error {
		n, ok := st.creditNotes[id]
		if !ok {
			return domain.ErrCreditNoteNotFound
		}
		n.Applied = true
		n.AppliedAt = &at
		st.creditNotes[id] = n
		return nil
	})
}

func (r *creditNoteRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.CreditNote, error) {
	var out []*entity.CreditNote
	err := r.a.with(func(st *state) error {
		for _, id := range st.creditNoteOrder {
			if n := st.creditNotes[id]; n.InvoiceID == invoiceID {
				out = append(out, copyCreditNote(n))
			}
		}
		return nil
	})
	return out, err
}

type collectionRepo struct{ a access }

func (r *collectionRepo) Create(_ context.Context, c *entity.Collection) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return r.a.with(func(st *state) error {
		st.collections[c.ID] = *c
		st.collectionOrder = append(st.collectionOrder, c.ID)
		return nil
	})
}

func (r *collectionRepo) GetByID(_ context.Context, id string) (*entity.Collection, error) {
	var out *entity.Collection
	err := r.a.with(func(st *state) error {
		if c, ok := st.collections[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *collectionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Collection, error) {
	return r.GetByID(ctx, id)
}

func (r *collectionRepo) MarkVoided(_ context.Context, id string, at time.Time) error {
	return r.a.with(func(st *state) error {
		c, ok := st.collections[id]
		if !ok {
			return domain.ErrPaymentNotFound
		}
		c.Voided = true
		c.VoidedAt = &at
		st.collections[id] = c
		return nil
	})
}

func (r *collectionRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.Collection, error) {
	var out []*entity.Collection
	err := r.a.with(func(st *state) error {
		for _, id := range st.collectionOrder {
			if c := st.collections[id]; c.InvoiceID == invoiceID {
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}
