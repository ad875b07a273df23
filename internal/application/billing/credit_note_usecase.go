package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/application/numbering"
	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/billing"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

// CreditNoteUseCase notas de crédito: emisión y aplicación única contra la factura.
type CreditNoteUseCase struct {
	store repository.Store
}

// NewCreditNoteUseCase construye el caso de uso.
func NewCreditNoteUseCase(store repository.Store) *CreditNoteUseCase {
	return &CreditNoteUseCase{store: store}
}

// Create emite una nota de crédito con impuesto a la tasa de la factura. No modifica saldos.
func (uc *CreditNoteUseCase) Create(ctx context.Context, in dto.CreateCreditNoteRequest) (*dto.CreditNoteResponse, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, domain.Validationf("el motivo es obligatorio")
	}
	if len(in.Lines) == 0 {
		return nil, domain.Validationf("la nota de crédito debe tener al menos una línea")
	}
	now := time.Now().UTC()
	note := &entity.CreditNote{
		ID:        uuid.New().String(),
		InvoiceID: in.InvoiceID,
		Reason:    reason,
		CreatedAt: now,
	}
	err := uc.store.Run(ctx, func(r repository.Repositories) error {
		inv, err := r.Invoices.GetByID(ctx, in.InvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrInvoiceNotFound
		}
		if inv.IsVoid() {
			return domain.ErrInvoiceVoided
		}
		note.CustomerID = inv.CustomerID
		note.Lines = note.Lines[:0]
		for i, l := range in.Lines {
			if l.Quantity <= 0 {
				return domain.Validationf("línea %d: la cantidad debe ser mayor a cero", i+1)
			}
			if l.UnitPrice.IsNegative() {
				return domain.Validationf("línea %d: precio negativo", i+1)
			}
			if err := domain.CheckMoneyScale(fmt.Sprintf("línea %d: precio", i+1), l.UnitPrice); err != nil {
				return err
			}
			desc := strings.TrimSpace(l.Description)
			if desc == "" {
				desc = l.ProductCode
			}
			note.Lines = append(note.Lines, entity.InvoiceLine{
				ID:          uuid.New().String(),
				InvoiceID:   note.ID,
				Position:    i + 1,
				ProductCode: strings.TrimSpace(l.ProductCode),
				Description: desc,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				Subtotal:    billing.LineSubtotal(l.Quantity, l.UnitPrice),
			})
		}
		note.Subtotal, note.TaxAmount, note.Total = billing.Totals(note.Lines, inv.TaxRate)
		if !note.Total.IsPositive() {
			return domain.Validationf("el total de la nota de crédito debe ser mayor a cero")
		}
		if _, note.Number, err = numbering.Next(ctx, r.Counters, numbering.CreditNote, now); err != nil {
			return err
		}
		return r.CreditNotes.Create(ctx, note)
	})
	if err != nil {
		return nil, err
	}
	return toCreditNoteResponse(note), nil
}

// Apply aplica la nota de crédito sobre el saldo de su factura. Es irreversible y de una sola vez.
func (uc *CreditNoteUseCase) Apply(ctx context.Context, id string) (*dto.CreditNoteResponse, error) {
	var (
		note *entity.CreditNote
		out  *entity.Invoice
	)
	err := uc.store.Run(ctx, func(r repository.Repositories) error {
		var err error
		note, err = r.CreditNotes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if note == nil {
			return domain.ErrCreditNoteNotFound
		}
		if note.Applied {
			return domain.ErrAlreadyApplied
		}
		inv, err := r.Invoices.GetForUpdate(ctx, note.InvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrInvoiceNotFound
		}
		if err := billing.CheckSettlement(inv, note.Total, inv.Currency); err != nil {
			return err
		}

		now := time.Now().UTC()
		inv.AmountCollected = inv.AmountCollected.Add(note.Total)
		inv.AmountCredited = inv.AmountCredited.Add(note.Total)
		billing.Recompute(inv)
		inv.UpdatedAt = now
		if err := r.Invoices.UpdateSettlement(ctx, inv); err != nil {
			return err
		}
		if err := r.CreditNotes.MarkApplied(ctx, note.ID, now); err != nil {
			return err
		}
		note.Applied, note.AppliedAt = true, &now
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toCreditNoteResponse(note)
	resp.Invoice = toInvoiceResponse(out)
	return resp, nil
}

// Get obtiene una nota de crédito.
func (uc *CreditNoteUseCase) Get(ctx context.Context, id string) (*dto.CreditNoteResponse, error) {
	n, err := uc.store.Repos().CreditNotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, domain.ErrCreditNoteNotFound
	}
	return toCreditNoteResponse(n), nil
}

func toCreditNoteResponse(n *entity.CreditNote) *dto.CreditNoteResponse {
	return &dto.CreditNoteResponse{
		ID:         n.ID,
		Number:     n.Number,
		InvoiceID:  n.InvoiceID,
		CustomerID: n.CustomerID,
		Reason:     n.Reason,
		Subtotal:   n.Subtotal,
		TaxAmount:  n.TaxAmount,
		Total:      n.Total,
		Applied:    n.Applied,
		AppliedAt:  n.AppliedAt,
		Lines:      toLineResponses(n.Lines),
	}
}
