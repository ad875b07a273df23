package billing

import (
	"context"
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

// CollectionUseCase cobros a clientes contra facturas.
type CollectionUseCase struct {
	store repository.Store
}

// NewCollectionUseCase construye el caso de uso.
func NewCollectionUseCase(store repository.Store) *CollectionUseCase {
	return &CollectionUseCase{store: store}
}

// Apply registra un cobro contra una factura. Si el medio no es efectivo y se indica cuenta
// bancaria, acredita la cuenta en la misma transacción.
func (uc *CollectionUseCase) Apply(ctx context.Context, in dto.ApplyPaymentRequest) (*dto.PaymentResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if err := domain.CheckMoneyScale("importe", in.Amount); err != nil {
		return nil, err
	}
	method, ok := entity.ParsePaymentMethod(in.Method)
	if !ok {
		return nil, domain.Validationf("medio de pago inválido: %q", in.Method)
	}
	date := time.Now().UTC()
	if in.Date != nil {
		date = in.Date.UTC()
	}

	var (
		col *entity.Collection
		out *entity.Invoice
	)
	err := uc.store.Run(ctx, func(r repository.Repositories) error {
		inv, err := r.Invoices.GetForUpdate(ctx, in.InvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrInvoiceNotFound
		}
		currency := inv.Currency
		if strings.TrimSpace(in.Currency) != "" {
			if currency, err = billing.NormalizeCurrency(in.Currency, inv.Currency); err != nil {
				return err
			}
		}
		if err := billing.CheckSettlement(inv, in.Amount, currency); err != nil {
			return err
		}

		now := time.Now().UTC()
		col = &entity.Collection{
			ID:         uuid.New().String(),
			InvoiceID:  inv.ID,
			CustomerID: inv.CustomerID,
			Amount:     in.Amount,
			Currency:   currency,
			Method:     method,
			Reference:  strings.TrimSpace(in.Reference),
			Date:       date,
			CreatedAt:  now,
		}
		if method != entity.PaymentMethodCash && in.BankAccountID != "" {
			ba, err := r.BankAccounts.GetForUpdate(ctx, in.BankAccountID)
			if err != nil {
				return err
			}
			if ba == nil || !ba.Active {
				return domain.ErrBankAccountNotFound
			}
			if ba.Currency != currency {
				return domain.ErrCurrencyMismatch
			}
			if err := r.BankAccounts.AddBalance(ctx, ba.ID, in.Amount); err != nil {
				return err
			}
			col.BankAccountID = ba.ID
		}

		if _, col.Number, err = numbering.Next(ctx, r.Counters, numbering.Collection, date); err != nil {
			return err
		}
		if err := r.Collections.Create(ctx, col); err != nil {
			return err
		}

		inv.AmountCollected = inv.AmountCollected.Add(in.Amount)
		billing.Recompute(inv)
		inv.UpdatedAt = now
		if err := r.Invoices.UpdateSettlement(ctx, inv); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toPaymentResponse(col)
	resp.Invoice = toInvoiceResponse(out)
	return resp, nil
}

// Void anula un cobro revirtiendo exactamente su efecto sobre la factura y la cuenta bancaria.
func (uc *CollectionUseCase) Void(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	var (
		col *entity.Collection
		out *entity.Invoice
	)
	err := uc.store.Run(ctx, func(r repository.Repositories) error {
		var err error
		col, err = r.Collections.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if col == nil {
			return domain.ErrPaymentNotFound
		}
		if col.Voided {
			return domain.ErrPaymentAlreadyVoided
		}
		inv, err := r.Invoices.GetForUpdate(ctx, col.InvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrInvoiceNotFound
		}

		now := time.Now().UTC()
		inv.AmountCollected = inv.AmountCollected.Sub(col.Amount)
		billing.Recompute(inv)
		inv.UpdatedAt = now
		if err := r.Invoices.UpdateSettlement(ctx, inv); err != nil {
			return err
		}
		if col.BankAccountID != "" {
			if err := r.BankAccounts.AddBalance(ctx, col.BankAccountID, col.Amount.Neg()); err != nil {
				return err
			}
		}
		if err := r.Collections.MarkVoided(ctx, col.ID, now); err != nil {
			return err
		}
		col.Voided, col.VoidedAt = true, &now
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toPaymentResponse(col)
	resp.Invoice = toInvoiceResponse(out)
	return resp, nil
}

// Get obtiene un cobro por ID.
func (uc *CollectionUseCase) Get(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	col, err := uc.store.Repos().Collections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if col == nil {
		return nil, domain.ErrPaymentNotFound
	}
	return toPaymentResponse(col), nil
}

// ListByInvoice cobros vigentes (no anulados) de una factura.
func (uc *CollectionUseCase) ListByInvoice(ctx context.Context, invoiceID string) ([]*dto.PaymentResponse, error) {
	repos := uc.store.Repos()
	inv, err := repos.Invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrInvoiceNotFound
	}
	list, err := repos.Collections.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PaymentResponse, 0, len(list))
	for _, c := range list {
		if c.Voided {
			continue
		}
		out = append(out, toPaymentResponse(c))
	}
	return out, nil
}

func toPaymentResponse(c *entity.Collection) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:            c.ID,
		Number:        c.Number,
		InvoiceID:     c.InvoiceID,
		CustomerID:    c.CustomerID,
		Amount:        c.Amount,
		Currency:      c.Currency,
		Method:        c.Method,
		BankAccountID: c.BankAccountID,
		Reference:     c.Reference,
		Date:          c.Date,
		Voided:        c.Voided,
		VoidedAt:      c.VoidedAt,
	}
}
